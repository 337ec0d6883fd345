package armada

// ShipType names a buildable hull.
type ShipType uint8

const (
	ShipFighter ShipType = iota
	ShipMiner
)

func (s ShipType) BuildTime() float32 {
	return 5.0
}

func (s ShipType) MineralCost() float32 {
	switch s {
	case ShipMiner:
		return 15.0
	default:
		return 10.0
	}
}

// BuildQueue schedules ship construction aboard a carrier. Timing is
// driven by the world clock rather than per-tick accumulation, so a
// queue only stores the absolute time its front item completes.
type BuildQueue struct {
	building      []ShipType
	timeOfNextPop float32
	// StayCarried keeps finished ships docked instead of launching them.
	StayCarried bool
}

// Push appends a ship to the queue. The first item starts building
// immediately.
func (b *BuildQueue) Push(toBuild ShipType, totalTime float32) {
	if len(b.building) == 0 {
		b.timeOfNextPop = totalTime + toBuild.BuildTime()
	}
	b.building = append(b.building, toBuild)
}

// Front peeks at the ship currently under construction.
func (b *BuildQueue) Front() (ShipType, bool) {
	if len(b.building) == 0 {
		return 0, false
	}
	return b.building[0], true
}

// Advance pops the front item once its build time has elapsed and
// starts the next one. Returns the finished ship type, or false.
func (b *BuildQueue) Advance(totalTime float32) (ShipType, bool) {
	if len(b.building) == 0 {
		return 0, false
	}
	built := b.building[0]
	if totalTime <= b.timeOfNextPop {
		return 0, false
	}
	b.building = b.building[1:]
	if len(b.building) > 0 {
		b.timeOfNextPop = totalTime + b.building[0].BuildTime()
	}
	return built, true
}

// ProgressTime reports the front item's completion fraction in [0, 1].
func (b *BuildQueue) ProgressTime(totalTime float32) (float32, bool) {
	if len(b.building) == 0 {
		return 0, false
	}
	remaining := b.timeOfNextPop - totalTime
	return 1.0 - remaining/b.building[0].BuildTime(), true
}

// QueueLength reports the total seconds of work left in the queue.
func (b *BuildQueue) QueueLength(totalTime float32) float32 {
	var sum float32
	for _, shipType := range b.building[min(1, len(b.building)):] {
		sum += shipType.BuildTime()
	}
	if len(b.building) > 0 {
		sum += b.timeOfNextPop - totalTime
	}
	return sum
}

func (b *BuildQueue) NumInQueue() int {
	return len(b.building)
}
