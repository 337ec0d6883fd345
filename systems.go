package armada

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hallveg/armada/geom"
	"github.com/hallveg/armada/steering"
)

const (
	BOID_RADIUS = 4.0
	// How far a neighbour can be and still produce an avoidance force.
	AVOIDANCE_RANGE = 8.0

	EVASION_WEIGHT   = 0.5
	AVOIDANCE_WEIGHT = 0.5

	UNLOAD_SCATTER  = 5.0
	UNLOAD_COOLDOWN = 1.0
)

func (e *Entity) boid() steering.Boid {
	return steering.Boid{
		Pos:      e.Position,
		Vel:      e.Velocity,
		MaxVel:   e.MaxSpeed,
		RadiusSq: BOID_RADIUS * BOID_RADIUS,
	}
}

// steeringState is the per-worker scratch for the steering pass.
type steeringState struct {
	scratch    []int
	neighbours []steering.Boid
}

// runSteering computes a staged velocity for every mover. It reads
// freely across entities but only writes to the entity it owns, so the
// pass parallelises without locks.
func (w *World) runSteering() {
	taskLocal(w.Workers, w.entities, func() steeringState {
		return steeringState{scratch: make([]int, 0, 64)}
	}, func(e *Entity, state *steeringState) {
		if e.carried || e.MaxSpeed == 0.0 {
			return
		}

		boid := e.boid()
		force := mgl32.Vec3{}

		// The active interaction target is not an obstacle: repelling
		// from it would hold the ship outside its own docking or mining
		// range.
		objective := NoEntity

		if command, ok := e.Queue.Front(); ok {
			switch command.Kind {
			case CommandMoveTo:
				force = force.Add(boid.Seek(command.Point))
			case CommandInteract:
				objective = command.Target
				if target := w.Entity(command.Target); target != nil && !target.carried {
					// Leading the target makes distant ships wobble as
					// the predicted contact point swings around.
					leadFactor := float32(0.0)
					pursuit := boid.Pursue(target.boid(), leadFactor)

					distSq := e.Position.Sub(target.Position).LenSqr()
					if distSq >= command.RangeSq+e.maxForce() {
						force = force.Add(pursuit)
					}
				}
			}
		}

		if e.Evading != NoEntity {
			if pursuer := w.Entity(e.Evading); pursuer != nil && !pursuer.carried {
				force = force.Add(boid.Evade(pursuer.boid()).Mul(EVASION_WEIGHT))
			} else {
				e.Evading = NoEntity
			}
		}

		force = force.Add(w.avoidanceForce(e, boid, objective, state).Mul(AVOIDANCE_WEIGHT))

		// No goal means braking.
		if force == (mgl32.Vec3{}) {
			force = boid.Vel.Mul(-1)
		}

		force = steering.Truncate(force, e.maxForce())
		e.stagingVelocity = steering.Truncate(e.Velocity.Add(force), e.MaxSpeed)
	})
}

func (w *World) avoidanceForce(e *Entity, boid steering.Boid, objective EntityID, state *steeringState) mgl32.Vec3 {
	around := geom.BoundingBox{
		Min: e.Position.Sub(mgl32.Vec3{AVOIDANCE_RANGE, AVOIDANCE_RANGE, AVOIDANCE_RANGE}),
		Max: e.Position.Add(mgl32.Vec3{AVOIDANCE_RANGE, AVOIDANCE_RANGE, AVOIDANCE_RANGE}),
	}

	state.neighbours = state.neighbours[:0]
	state.scratch = w.tlas.Find(around.Intersects, state.scratch, func(id EntityID) bool {
		if id == objective {
			return true
		}
		if other := w.Entity(id); other != nil && other != e && other.MaxSpeed > 0.0 {
			state.neighbours = append(state.neighbours, other.boid())
		}
		return true
	})

	return boid.Avoidance(state.neighbours)
}

// applyStagingVelocity commits the steering results. The force was
// already truncated per tick, so no dt scaling happens here.
func (w *World) applyStagingVelocity() {
	task(w.Workers, w.entities, func(e *Entity) {
		if e.carried || e.MaxSpeed == 0.0 {
			return
		}
		e.Velocity = e.stagingVelocity
	})
}

func (w *World) applyVelocity(dt float32) {
	task(w.Workers, w.entities, func(e *Entity) {
		if e.carried {
			return
		}
		e.Position = e.Position.Add(e.Velocity.Mul(dt))
		if e.Velocity != (mgl32.Vec3{}) {
			e.setRotation(rotationFromFacing(e.Velocity), w.model(e.Model))
		}
	})
}

func (w *World) killTemporaryEntities() {
	doomed := w.findScratch[:0]
	for _, e := range w.entities {
		if w.totalTime > e.AliveUntil {
			doomed = append(doomed, int(e.ID))
		}
	}
	for _, id := range doomed {
		w.despawn(w.Entity(EntityID(id)))
	}
	w.findScratch = doomed[:0]

	// Expired and spent projectiles get compacted out in one pass.
	kept := w.projectiles[:0]
	for _, p := range w.projectiles {
		if !p.dead && w.totalTime <= p.aliveUntil {
			kept = append(kept, p)
		}
	}
	w.projectiles = kept
}

func (w *World) expandExplosions(dt float32) {
	for _, e := range w.entities {
		if e.Expands {
			e.Scale += dt * EXPLOSION_GROWTH
		}
	}
}

// repairShips heals one point per engineer on board per second.
func (w *World) repairShips(dt float32) {
	for _, e := range w.entities {
		if e.MaxHealth == 0.0 || len(e.OnBoard) == 0 {
			continue
		}
		engineers := 0
		for _, person := range e.OnBoard {
			if person == Engineer {
				engineers++
			}
		}
		e.Health = min(e.Health+float32(engineers)*dt, e.MaxHealth)
	}
}

func (w *World) processBuildQueues() {
	for _, carrier := range liveSnapshot(w) {
		if carrier.Build == nil || carrier.Build.NumInQueue() == 0 {
			continue
		}

		shipType, ok := carrier.Build.Front()
		if !ok || w.GlobalMinerals < shipType.MineralCost() {
			continue
		}

		built, ok := carrier.Build.Advance(w.totalTime)
		if !ok {
			continue
		}

		w.GlobalMinerals -= built.MineralCost()

		var ship *Entity
		switch built {
		case ShipMiner:
			ship = w.SpawnMiner(carrier.Position, carrier.Side)
		default:
			ship = w.SpawnFighter(carrier.Position, carrier.Side, RAY_COOLDOWN)
		}

		if carrier.Build.StayCarried && len(carrier.Carrying) < carrier.CarryCapacity {
			w.stow(ship, carrier)
		} else {
			ship.Position = carrier.Position.Add(uniformSphereDistribution(w.Rng).Mul(UNLOAD_SCATTER))
		}

		w.Events.emit(ShipBuiltEvent{Carrier: carrier.ID, Ship: ship.ID, ShipType: built})
	}
}

func (w *World) updateWorldBoundingBoxes() {
	task(w.Workers, w.entities, func(e *Entity) {
		if e.carried {
			return
		}
		e.WorldBox = e.rotatedModelBox.MulScalar(e.Scale).Add(e.Position)
	})
}

// updateTlas keeps the acceleration structure in sync with the fresh
// world boxes. Boxes are padded so that jitter inside the padding costs
// nothing; a leaf is only refitted when its box escapes the padding.
func (w *World) updateTlas() {
	pad := mgl32.Vec3{TLAS_PADDING, TLAS_PADDING, TLAS_PADDING}

	for _, e := range w.entities {
		if e.carried {
			continue
		}

		padded := e.WorldBox.Expand(pad)

		if e.tlasIndex == -1 {
			e.tlasIndex = w.tlas.Insert(e.ID, padded)
			e.paddedBox = padded
		} else if !e.paddedBox.Contains(e.WorldBox) {
			w.tlas.ModifyBoundingBoxAndRefit(e.tlasIndex, padded)
			e.paddedBox = padded
		}
	}
}

// liveSnapshot copies the entity list so systems that spawn or despawn
// mid-iteration see a stable view.
func liveSnapshot(w *World) []*Entity {
	return append([]*Entity(nil), w.entities...)
}
