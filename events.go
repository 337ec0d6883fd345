package armada

import "github.com/go-gl/mathgl/mgl32"

const (
	PROJECTILE_HIT EventType = iota
	SHIP_DESTROYED
	MINED
	DOCKED
	UNLOADED
	SHIP_BUILT
	CARRIER_FULL
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

type ProjectileHitEvent struct {
	Target   EntityID
	Position mgl32.Vec3
	Damage   float32
}

func (e ProjectileHitEvent) Type() EventType { return PROJECTILE_HIT }

type ShipDestroyedEvent struct {
	Entity   EntityID
	Model    ModelID
	Position mgl32.Vec3
}

func (e ShipDestroyedEvent) Type() EventType { return SHIP_DESTROYED }

type MinedEvent struct {
	Miner    EntityID
	Asteroid EntityID
	Amount   float32
}

func (e MinedEvent) Type() EventType { return MINED }

type DockedEvent struct {
	Ship    EntityID
	Carrier EntityID
	// Minerals delivered into the global pool on docking.
	Delivered float32
}

func (e DockedEvent) Type() EventType { return DOCKED }

type UnloadedEvent struct {
	Ship    EntityID
	Carrier EntityID
}

func (e UnloadedEvent) Type() EventType { return UNLOADED }

type ShipBuiltEvent struct {
	Carrier  EntityID
	Ship     EntityID
	ShipType ShipType
}

func (e ShipBuiltEvent) Type() EventType { return SHIP_BUILT }

// CarrierFullEvent reports a docking attempt against a carrier at
// capacity; the rejected ship gets redirected to another carrier.
type CarrierFullEvent struct {
	Carrier  EntityID
	Rejected EntityID
}

func (e CarrierFullEvent) Type() EventType { return CARRIER_FULL }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers everything emitted during a tick and delivers it to
// subscribers in one flush at the end, so listeners never observe the
// world mid-mutation.
type Events struct {
	listeners map[EventType][]EventListener
	buffer    []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 256),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
