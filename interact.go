package armada

import "github.com/go-gl/mathgl/mgl32"

// runInteractions advances every ship's front order: completed moves
// pop, interactions close in and then mine, dock, or keep the target
// engaged. Runs single-threaded because it rewrites queues and moves
// entities between the world and carriers.
func (w *World) runInteractions(dt float32) {
	for _, e := range liveSnapshot(w) {
		if e.carried || w.Entity(e.ID) == nil {
			continue
		}

		command, ok := e.Queue.Front()
		if !ok {
			continue
		}

		switch command.Kind {
		case CommandMoveTo:
			if e.Position.Sub(command.Point).LenSqr() < e.maxForce() {
				e.Queue.PopFront()
			}

		case CommandInteract:
			target := w.Entity(command.Target)
			if target == nil || target.carried {
				e.Queue.PopFront()
				w.requeueAfterLostTarget(e, command.Interaction)
				continue
			}

			withinRange := e.Position.Sub(target.Position).LenSqr() < command.RangeSq+e.maxForce()
			if !withinRange {
				continue
			}

			switch command.Interaction {
			case InteractMine:
				w.mine(e, target, dt)
			case InteractBeCarriedBy:
				w.beCarriedBy(e, target)
			case InteractAttack:
				// Combat fires while steering holds the range.
			}
		}
	}
}

// mine transfers minerals from an asteroid, bounded by the tick, the
// deposit, and the miner's remaining hold.
func (w *World) mine(miner, target *Entity, dt float32) {
	if !target.CanBeMined {
		miner.Queue.PopFront()
		w.requeueAfterLostTarget(miner, InteractMine)
		return
	}

	toMine := min(dt, target.Minerals, miner.MineralCapacity-miner.StoredMinerals)
	target.Minerals -= toMine
	miner.StoredMinerals += toMine

	if toMine > 0.0 {
		w.Events.emit(MinedEvent{Miner: miner.ID, Asteroid: target.ID, Amount: toMine})
	}

	exhausted := target.Minerals == 0.0
	if exhausted {
		target.CanBeMined = false
	}

	full := miner.StoredMinerals >= miner.MineralCapacity
	if exhausted || full {
		miner.Queue.PopFront()
		if !full {
			w.findNextAsteroid(miner)
		}
		if _, ok := miner.Queue.Front(); !ok {
			w.findNextCarrier(miner)
		}
	}
}

// beCarriedBy docks a ship with a carrier. A ship with further orders
// only delivers its cargo and moves on; one with an empty queue is
// taken aboard along with its crew.
func (w *World) beCarriedBy(ship, carrier *Entity) {
	if !carrier.isCarrier() {
		ship.Queue.PopFront()
		w.findNextCarrier(ship)
		return
	}

	// Freshly unloaded ships don't immediately dock again.
	if ship.unloadingUntil > w.totalTime {
		return
	}

	if carrier.CarrierFull {
		w.Events.emit(CarrierFullEvent{Carrier: carrier.ID, Rejected: ship.ID})
		ship.Queue.PopFront()
		w.findNextCarrier(ship)
		return
	}

	delivered := ship.StoredMinerals
	w.GlobalMinerals += delivered
	ship.StoredMinerals = 0.0

	ship.Queue.PopFront()

	if _, ok := ship.Queue.Front(); ok {
		// Drop off the cargo and carry on with the rest of the queue.
		ship.unloadingUntil = w.totalTime + UNLOAD_COOLDOWN
	} else {
		w.stow(ship, carrier)
	}

	w.Events.emit(DockedEvent{Ship: ship.ID, Carrier: carrier.ID, Delivered: delivered})
}

// stow moves a ship inside a carrier: off the acceleration structure,
// out of every motion system, crew transferred aboard.
func (w *World) stow(ship, carrier *Entity) {
	ship.carried = true
	ship.Velocity = mgl32.Vec3{}
	ship.Selected = false
	ship.Queue.Clear()
	ship.Evading = NoEntity

	if ship.tlasIndex != -1 {
		w.tlas.Remove(ship.tlasIndex)
		ship.tlasIndex = -1
	}

	carrier.OnBoard = append(carrier.OnBoard, ship.OnBoard...)
	ship.OnBoard = nil

	carrier.Carrying = append(carrier.Carrying, ship.ID)
	carrier.CarrierFull = len(carrier.Carrying) >= carrier.CarryCapacity
}

// requeueAfterLostTarget picks a replacement objective once an
// interaction target disappears. Attackers just fall back to the rest
// of their queue.
func (w *World) requeueAfterLostTarget(e *Entity, interaction Interaction) {
	switch interaction {
	case InteractMine:
		w.findNextAsteroid(e)
		if _, ok := e.Queue.Front(); !ok {
			w.findNextCarrier(e)
		}
	case InteractBeCarriedBy:
		w.findNextCarrier(e)
	}
}

// findNextCarrier queues docking with the nearest friendly carrier
// that still has room. Jumps the queue: delivering cargo comes first.
func (w *World) findNextCarrier(e *Entity) {
	var nearest *Entity
	var nearestDistSq float32

	for _, candidate := range w.entities {
		if !candidate.isCarrier() || candidate.CarrierFull || candidate.carried ||
			candidate.Side != e.Side || candidate == e {
			continue
		}
		distSq := e.Position.Sub(candidate.Position).LenSqr()
		if nearest == nil || distSq < nearestDistSq {
			nearest = candidate
			nearestDistSq = distSq
		}
	}

	if nearest != nil {
		e.Queue.PushFront(Interact(nearest.ID, InteractBeCarriedBy, 0.0))
	}
}

// findNextAsteroid queues mining the nearest deposit that still has
// minerals.
func (w *World) findNextAsteroid(e *Entity) {
	var nearest *Entity
	var nearestDistSq float32

	for _, candidate := range w.entities {
		if !candidate.CanBeMined {
			continue
		}
		distSq := e.Position.Sub(candidate.Position).LenSqr()
		if nearest == nil || distSq < nearestDistSq {
			nearest = candidate
			nearestDistSq = distSq
		}
	}

	if nearest != nil {
		e.Queue.PushBack(Interact(nearest.ID, InteractMine, nearest.interactionRangeSq()))
	}
}
