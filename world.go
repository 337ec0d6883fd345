package armada

import (
	"log"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hallveg/armada/bvh"
	"github.com/hallveg/armada/geom"
)

const DEFAULT_WORKERS = 1

const (
	PROJECTILE_SPEED    = 100.0
	PROJECTILE_DAMAGE   = 15.0
	PROJECTILE_LIFETIME = 10.0
	RAY_COOLDOWN        = 1.0

	EXPLOSION_LIFETIME = 2.5
	EXPLOSION_GROWTH   = 1.5

	// World-space boxes in the acceleration structure get padded so
	// small movements refit nothing.
	TLAS_PADDING = 0.5
)

type projectileEntry struct {
	projectile geom.Projectile
	side       Side
	aliveUntil float32
	dead       bool
}

// World owns every entity and steps the whole simulation. All mutation
// happens on the calling goroutine; parallel systems only read and
// push deferred closures.
type World struct {
	entities []*Entity
	byID     map[EntityID]*Entity
	nextID   EntityID

	models [modelCount]*Model

	// tlas indexes every uncarried entity's padded world-space box.
	tlas        *bvh.Dynamic[EntityID]
	projectiles []projectileEntry

	Events  Events
	Workers int
	Rng     *rand.Rand

	// GlobalMinerals is the shared stockpile build queues draw from.
	GlobalMinerals float32

	totalTime float32

	defers      deferBuffer
	findScratch []int
	meshScratch []int
}

func NewWorld(rng *rand.Rand) *World {
	w := &World{
		byID:    make(map[EntityID]*Entity),
		tlas:    bvh.NewDynamic[EntityID](),
		Events:  NewEvents(),
		Workers: DEFAULT_WORKERS,
		Rng:     rng,
	}

	w.Events.Subscribe(CARRIER_FULL, func(event Event) {
		e := event.(CarrierFullEvent)
		log.Printf("carrier %d full, redirecting ship %d", e.Carrier, e.Rejected)
	})

	return w
}

// RegisterModel installs the mesh and bounds for a model slot. Every
// ModelID must be registered before the first spawn that uses it.
func (w *World) RegisterModel(id ModelID, mesh *bvh.Mesh) {
	w.models[id] = &Model{Mesh: mesh, BoundingBox: mesh.BoundingBox()}
}

func (w *World) model(id ModelID) *Model {
	return w.models[id]
}

// Entity looks up a live entity, or nil.
func (w *World) Entity(id EntityID) *Entity {
	return w.byID[id]
}

// NumEntities reports how many entities are alive, carried ones
// included.
func (w *World) NumEntities() int {
	return len(w.entities)
}

// TotalTime is the accumulated simulation clock.
func (w *World) TotalTime() float32 {
	return w.totalTime
}

func (w *World) spawn(e *Entity) *Entity {
	w.nextID++
	e.ID = w.nextID
	e.tlasIndex = -1
	w.entities = append(w.entities, e)
	w.byID[e.ID] = e

	return e
}

// despawn removes an entity and every reference the world holds to it.
func (w *World) despawn(e *Entity) {
	if e.tlasIndex != -1 {
		w.tlas.Remove(e.tlasIndex)
		e.tlasIndex = -1
	}

	delete(w.byID, e.ID)
	k := -1
	for i, other := range w.entities {
		if other == e {
			k = i
			break
		}
	}
	if k != -1 {
		w.entities = append(w.entities[:k], w.entities[k+1:]...)
	}
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float32) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.totalTime += dt

	// Phase 1: target acquisition and command handling.
	w.chooseEnemyTargets()
	w.defers.drain(w)
	w.runInteractions(dt)

	// Phase 2: movement.
	w.spawnProjectilesFromShips(dt)
	w.runSteering()
	w.applyStagingVelocity()
	w.applyVelocity(dt)

	// Phase 3: projectiles and damage.
	w.updateProjectiles(dt)
	w.collideProjectiles(dt)
	w.defers.drain(w)

	// Phase 4: lifecycle.
	w.killTemporaryEntities()
	w.handleDestruction()
	w.repairShips(dt)
	w.expandExplosions(dt)
	w.processBuildQueues()

	// Phase 5: spatial caches.
	w.updateWorldBoundingBoxes()
	w.updateTlas()

	w.Events.flush()
}

// uniformSphereDistribution maps two uniform samples onto the unit
// sphere.
func uniformSphereDistribution(rng *rand.Rand) mgl32.Vec3 {
	x := rng.Float64()
	y := rng.Float64()

	theta := 2.0 * math.Pi * x
	phi := math.Acos(1.0 - 2.0*y)

	return mgl32.Vec3{
		float32(math.Sin(phi) * math.Cos(theta)),
		float32(math.Sin(phi) * math.Sin(theta)),
		float32(math.Cos(phi)),
	}
}

func randomRotation(rng *rand.Rand) mgl32.Mat3 {
	return rotationFromFacing(uniformSphereDistribution(rng))
}
