package armada

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hallveg/armada/geom"
)

// chooseEnemyTargets gives idle or attack-moving combat ships a target.
// The scan is read-only and runs in parallel; the actual queue edits
// are deferred to the drain that follows.
func (w *World) chooseEnemyTargets() {
	task(w.Workers, w.entities, func(e *Entity) {
		if !e.CanAttack || e.carried {
			return
		}
		if command, ok := e.Queue.Front(); ok {
			attackMove := command.Kind == CommandMoveTo && command.Move == MoveAttack
			if !attackMove {
				return
			}
		}

		agroRangeSq := e.AgroRange * e.AgroRange

		var target *Entity
		bestDistSq := agroRangeSq
		for _, candidate := range w.entities {
			if candidate.Side == e.Side || candidate.Side == Neutral ||
				candidate.carried || candidate.MaxHealth == 0.0 {
				continue
			}
			distSq := candidate.Position.Sub(e.Position).LenSqr()
			if distSq < bestDistSq {
				bestDistSq = distSq
				target = candidate
			}
		}

		if target == nil {
			return
		}

		attacker, targetID := e, target.ID
		w.defers.push(func(w *World) {
			if w.Entity(targetID) == nil || w.Entity(attacker.ID) == nil {
				return
			}
			attacker.Queue.PushFront(Interact(targetID, InteractAttack, 0.0))
			w.Entity(targetID).Evading = attacker.ID
		})
	})
}

// spawnProjectilesFromShips fires along the current velocity whenever a
// ship's front order is an attack and its cooldown has run out.
func (w *World) spawnProjectilesFromShips(dt float32) {
	for _, e := range w.entities {
		if !e.CanAttack || e.carried {
			continue
		}

		e.rayCooldown = max(e.rayCooldown-dt, 0.0)

		command, ok := e.Queue.Front()
		attacking := ok && command.Kind == CommandInteract && command.Interaction == InteractAttack
		if !attacking || e.rayCooldown > 0.0 || e.Velocity == (mgl32.Vec3{}) {
			continue
		}

		e.rayCooldown = RAY_COOLDOWN
		w.projectiles = append(w.projectiles, projectileEntry{
			projectile: geom.NewProjectile(geom.NewRay(e.Position, e.Velocity), PROJECTILE_SPEED),
			side:       e.Side,
			aliveUntil: w.totalTime + PROJECTILE_LIFETIME,
		})
	}
}

func (w *World) updateProjectiles(dt float32) {
	for i := range w.projectiles {
		w.projectiles[i].projectile.Update(dt)
	}
}

// collideState is the per-worker scratch for the projectile pass.
type collideState struct {
	tlasScratch []int
	meshScratch []int
}

// collideProjectiles tests each projectile's swept segment against
// every opposing hull it could have crossed this tick. Among the mesh
// hits the one with the largest parameter wins: the stored ray points
// backwards, so the largest t is the earliest contact in forward time.
func (w *World) collideProjectiles(dt float32) {
	indices := make([]int, len(w.projectiles))
	for i := range indices {
		indices[i] = i
	}

	taskLocal(w.Workers, indices, func() collideState {
		return collideState{
			tlasScratch: make([]int, 0, 64),
			meshScratch: make([]int, 0, 64),
		}
	}, func(i int, state *collideState) {
		entry := &w.projectiles[i]
		swept := entry.projectile.BoundingBox(dt)

		var hitEntity *Entity
		var hitT float32
		hit := false

		state.tlasScratch = w.tlas.Find(swept.Intersects, state.tlasScratch, func(id EntityID) bool {
			target := w.Entity(id)
			if target == nil || target.Side == entry.side || target.Expands {
				return true
			}

			ray := entry.projectile.
				AsLimitedRay(dt).
				CenteredAroundTransform(target.Position, target.ReversedRotation, target.Scale)

			state.meshScratch = w.model(target.Model).Mesh.
				IntersectLimited(ray, state.meshScratch, func(_ geom.Triangle, t float32) {
					if !hit || t > hitT {
						hitEntity, hitT, hit = target, t, true
					}
				})

			return true
		})

		if !hit {
			return
		}

		index, target, t := i, hitEntity, hitT
		w.defers.push(func(w *World) {
			entry := &w.projectiles[index]
			if entry.dead {
				return
			}
			entry.dead = true

			position := entry.projectile.IntersectionPoint(t)
			w.spawnExplosion(position)

			if w.Entity(target.ID) != nil && target.MaxHealth > 0.0 {
				target.Health -= PROJECTILE_DAMAGE
			}

			w.Events.emit(ProjectileHitEvent{
				Target:   target.ID,
				Position: position,
				Damage:   PROJECTILE_DAMAGE,
			})
		})
	})
}

// handleDestruction despawns everything whose health has run out,
// scattering any carried ships first.
func (w *World) handleDestruction() {
	for _, e := range liveSnapshot(w) {
		if e.MaxHealth == 0.0 || e.Health > 0.0 || w.Entity(e.ID) == nil {
			continue
		}

		if len(e.Carrying) > 0 {
			w.unload(e)
		}

		// Crew goes down with the ship.
		e.OnBoard = nil

		position := e.Position
		w.Events.emit(ShipDestroyedEvent{Entity: e.ID, Model: e.Model, Position: position})
		w.despawn(e)
		w.spawnExplosion(position)
	}
}

// unload releases every carried ship at the carrier's position with a
// scatter move, so they don't all occupy one point.
func (w *World) unload(carrier *Entity) {
	carrier.CarrierFull = false

	for _, id := range carrier.Carrying {
		ship := w.Entity(id)
		if ship == nil {
			continue
		}

		ship.carried = false
		ship.Position = carrier.Position
		ship.Velocity = mgl32.Vec3{}
		ship.unloadingUntil = w.totalTime + UNLOAD_COOLDOWN
		ship.Selected = carrier.Selected
		ship.Queue.PushFront(MoveTo(
			carrier.Position.Add(uniformSphereDistribution(w.Rng).Mul(UNLOAD_SCATTER)),
			MoveAttack,
		))

		w.Events.emit(UnloadedEvent{Ship: ship.ID, Carrier: carrier.ID})
	}

	carrier.Carrying = carrier.Carrying[:0]
}
