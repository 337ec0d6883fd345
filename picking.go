package armada

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hallveg/armada/geom"
)

// EntityUnderCursor casts a ray through the acceleration structure and
// returns the selectable entity with the closest mesh hit. The
// per-model hit parameter is scaled back to world units before
// comparing across entities.
func (w *World) EntityUnderCursor(ray geom.Ray) (EntityID, bool) {
	best := NoEntity
	var bestT float32

	w.findScratch = w.tlas.Find(func(box geom.BoundingBox) bool {
		_, ok := ray.BoundingBoxIntersection(box)
		return ok
	}, w.findScratch, func(id EntityID) bool {
		e := w.Entity(id)
		if e == nil || !e.Selectable {
			return true
		}

		modelRay := ray.CenteredAroundTransform(e.Position, e.ReversedRotation, e.Scale)

		_, t, hit, scratch := w.model(e.Model).Mesh.NearestHit(modelRay, w.meshScratch)
		w.meshScratch = scratch

		if hit && (best == NoEntity || t*e.Scale < bestT) {
			best = id
			bestT = t * e.Scale
		}
		return true
	})

	return best, best != NoEntity
}

// SelectWithinFrustum marks every selectable entity inside the screen
// frustum. Without additive, the previous selection is replaced.
func (w *World) SelectWithinFrustum(frustum geom.SelectionFrustum, additive bool) {
	for _, e := range w.entities {
		if e.carried || !e.Selectable {
			continue
		}
		inside := frustum.ContainsPoint(e.Position)
		if inside {
			e.Selected = true
		} else if !additive {
			e.Selected = false
		}
	}
}

// Select toggles or sets a single entity's selection.
func (w *World) Select(id EntityID, additive bool) {
	if !additive {
		for _, e := range w.entities {
			e.Selected = false
		}
	}
	if e := w.Entity(id); e != nil && e.Selectable && !e.carried {
		e.Selected = !additive || !e.Selected
	}
}

// SelectedIDs lists the current selection.
func (w *World) SelectedIDs() []EntityID {
	var ids []EntityID
	for _, e := range w.entities {
		if e.Selected && !e.carried {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// IssueMoveTo orders the given ships to a point. Without enqueue the
// new order replaces the whole queue.
func (w *World) IssueMoveTo(ids []EntityID, point mgl32.Vec3, move MoveType, enqueue bool) {
	for _, id := range ids {
		e := w.Entity(id)
		if e == nil || e.carried || e.MaxSpeed == 0.0 {
			continue
		}
		if !enqueue {
			e.Queue.Clear()
		}
		e.Queue.PushBack(MoveTo(point, move))
	}
}

// IssueInteract orders ships against a target, inferring the
// interaction from what the target is: enemies get attacked, carriers
// get docked with, deposits get mined. Ships that can't perform the
// inferred interaction ignore the order.
func (w *World) IssueInteract(ids []EntityID, targetID EntityID, enqueue bool) {
	target := w.Entity(targetID)
	if target == nil || target.carried {
		return
	}

	for _, id := range ids {
		e := w.Entity(id)
		if e == nil || e.carried || e == target {
			continue
		}

		var command Command
		switch {
		case target.Side != Neutral && target.Side != e.Side:
			if !e.CanAttack {
				continue
			}
			command = Interact(targetID, InteractAttack, 0.0)
		case target.isCarrier():
			if !e.CanBeCarried {
				continue
			}
			command = Interact(targetID, InteractBeCarriedBy, 0.0)
		case target.CanBeMined:
			if !e.CanMine {
				continue
			}
			command = Interact(targetID, InteractMine, target.interactionRangeSq())
		default:
			continue
		}

		if !enqueue {
			e.Queue.Clear()
		}
		e.Queue.PushBack(command)
	}
}

// StopAll clears the queues of the given ships; braking takes over.
func (w *World) StopAll(ids []EntityID) {
	for _, id := range ids {
		if e := w.Entity(id); e != nil {
			e.Queue.Clear()
		}
	}
}

// UnloadCarriers releases everything the given carriers hold and lets
// finished builds launch from now on.
func (w *World) UnloadCarriers(ids []EntityID) {
	for _, id := range ids {
		e := w.Entity(id)
		if e == nil || !e.isCarrier() {
			continue
		}
		w.unload(e)
		if e.Build != nil {
			e.Build.StayCarried = false
		}
	}
}

// LoadIntoCarriers sends each given ship to the nearest carrier with
// room.
func (w *World) LoadIntoCarriers(ids []EntityID) {
	for _, id := range ids {
		e := w.Entity(id)
		if e == nil || e.carried || !e.CanBeCarried {
			continue
		}
		w.findNextCarrier(e)
	}
}

// QueueBuild appends a ship to a carrier's construction queue.
func (w *World) QueueBuild(carrierID EntityID, shipType ShipType) bool {
	e := w.Entity(carrierID)
	if e == nil || e.Build == nil {
		return false
	}
	e.Build.Push(shipType, w.totalTime)
	return true
}
