package armada

import "github.com/go-gl/mathgl/mgl32"

type MoveType uint8

const (
	MoveNormal MoveType = iota
	// MoveAttack movers re-acquire combat targets while en route.
	MoveAttack
)

type Interaction uint8

const (
	InteractBeCarriedBy Interaction = iota
	InteractAttack
	InteractMine
)

type CommandKind uint8

const (
	CommandMoveTo CommandKind = iota
	CommandInteract
)

// Command is one queued order. Kind selects which fields are relevant:
// MoveTo uses Point/Move, Interact uses Target/Interaction/RangeSq.
type Command struct {
	Kind        CommandKind
	Point       mgl32.Vec3
	Move        MoveType
	Target      EntityID
	Interaction Interaction
	RangeSq     float32
}

func MoveTo(point mgl32.Vec3, move MoveType) Command {
	return Command{Kind: CommandMoveTo, Point: point, Move: move}
}

func Interact(target EntityID, kind Interaction, rangeSq float32) Command {
	return Command{Kind: CommandInteract, Target: target, Interaction: kind, RangeSq: rangeSq}
}

// CommandQueue is a FIFO of orders. The front is the active command;
// completing it pops. Player input pushes or clears, completion and
// fallback systems pop and requeue.
type CommandQueue struct {
	commands []Command
}

func (q *CommandQueue) PushBack(command Command) {
	q.commands = append(q.commands, command)
}

func (q *CommandQueue) PushFront(command Command) {
	q.commands = append(q.commands, Command{})
	copy(q.commands[1:], q.commands)
	q.commands[0] = command
}

// Front returns the active command without removing it.
func (q *CommandQueue) Front() (Command, bool) {
	if len(q.commands) == 0 {
		return Command{}, false
	}
	return q.commands[0], true
}

func (q *CommandQueue) PopFront() (Command, bool) {
	if len(q.commands) == 0 {
		return Command{}, false
	}
	command := q.commands[0]
	q.commands = q.commands[1:]
	return command, true
}

func (q *CommandQueue) Clear() {
	q.commands = q.commands[:0]
}

func (q *CommandQueue) Len() int {
	return len(q.commands)
}

func (q *CommandQueue) Empty() bool {
	return len(q.commands) == 0
}
