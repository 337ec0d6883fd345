package armada

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hallveg/armada/bvh"
	"github.com/hallveg/armada/geom"
)

type EntityID uint32

// NoEntity is the zero, never-assigned ID.
const NoEntity EntityID = 0

type ModelID uint8

const (
	ModelCarrier ModelID = iota
	ModelFighter
	ModelMiner
	ModelExplosion
	ModelAsteroid

	modelCount
)

type Side uint8

const (
	Neutral Side = iota
	Friendly
	Enemy
)

type PersonType uint8

const (
	Civilian PersonType = iota
	Engineer
)

// Model pairs a loaded mesh's triangle acceleration structure with its
// model-space bounding box. Both come from the asset loader; the core
// never re-derives them.
type Model struct {
	Mesh        *bvh.Mesh
	BoundingBox geom.BoundingBox
}

// Entity is one simulated object: ship, asteroid, or explosion.
// Capability fields gate which systems touch it.
type Entity struct {
	ID    EntityID
	Model ModelID
	Side  Side

	Position mgl32.Vec3
	Velocity mgl32.Vec3
	MaxSpeed float32
	Scale    float32

	RotationMatrix   mgl32.Mat3
	ReversedRotation mgl32.Mat3
	rotatedModelBox  geom.BoundingBox

	// World-space box, cached because recomputing it per ray test is
	// six float adds too many.
	WorldBox geom.BoundingBox

	tlasIndex int
	paddedBox geom.BoundingBox

	// MaxHealth zero means indestructible.
	Health    float32
	MaxHealth float32

	Queue   CommandQueue
	Evading EntityID

	CanAttack   bool
	AgroRange   float32
	rayCooldown float32

	CanBeCarried    bool
	CanMine         bool
	StoredMinerals  float32
	MineralCapacity float32

	CanBeMined bool
	Minerals   float32

	// CarryCapacity > 0 marks a carrier.
	CarryCapacity int
	Carrying      []EntityID
	CarrierFull   bool
	OnBoard       []PersonType
	Build         *BuildQueue

	Selectable bool
	Selected   bool

	// carried entities live inside a carrier: no world position, no
	// acceleration-structure entry, skipped by every motion system.
	carried        bool
	unloadingUntil float32

	AliveUntil float32
	Expands    bool

	// stagingVelocity decouples the parallel steering pass from the
	// velocities it reads.
	stagingVelocity mgl32.Vec3
}

func (e *Entity) maxForce() float32 {
	return e.MaxSpeed / 10.0
}

// interactionRangeSq is how close another ship must get to interact
// with this entity: its surface plus one unit of slack.
func (e *Entity) interactionRangeSq() float32 {
	r := e.Scale + 1.0
	return r * r
}

func (e *Entity) isCarrier() bool {
	return e.CarryCapacity > 0
}

// SetRotation updates the rotation matrix together with its cached
// inverse and the rotated model-space bounding box.
func (e *Entity) setRotation(matrix mgl32.Mat3, model *Model) {
	e.RotationMatrix = matrix
	e.ReversedRotation = matrix.Transpose()
	e.rotatedModelBox = model.BoundingBox.Rotate(matrix)
}

// rotationFromFacing yaws then pitches a forward-facing (+Z) frame
// onto the given direction.
func rotationFromFacing(facing mgl32.Vec3) mgl32.Mat3 {
	xz := math.Hypot(float64(facing.X()), float64(facing.Z()))
	yaw := float32(math.Atan2(float64(facing.X()), float64(facing.Z())))
	pitch := float32(-math.Atan2(float64(facing.Y()), xz))

	return mgl32.Rotate3DY(yaw).Mul3(mgl32.Rotate3DX(pitch))
}

const (
	FIGHTER_MAX_SPEED = 10.0
	FIGHTER_HEALTH    = 50.0
	FIGHTER_AGRO      = 200.0

	MINER_MAX_SPEED = 15.0
	MINER_HEALTH    = 40.0
	MINER_CAPACITY  = 10.0

	CARRIER_MAX_SPEED = 5.0
	CARRIER_HEALTH    = 250.0
	CARRIER_CAPACITY  = 8
)

// spawnBase fills in the components every mobile ship shares.
func (w *World) spawnBase(model ModelID, side Side, position mgl32.Vec3) *Entity {
	e := w.spawn(&Entity{
		Model:      model,
		Side:       side,
		Position:   position,
		Scale:      1.0,
		Selectable: true,
		AliveUntil: float32(math.Inf(1)),
	})
	e.setRotation(mgl32.Ident3(), w.model(model))

	return e
}

func (w *World) SpawnFighter(position mgl32.Vec3, side Side, rayCooldown float32) *Entity {
	e := w.spawnBase(ModelFighter, side, position)
	e.MaxSpeed = FIGHTER_MAX_SPEED
	e.Health = FIGHTER_HEALTH
	e.MaxHealth = FIGHTER_HEALTH
	e.CanAttack = true
	e.CanBeCarried = true
	e.AgroRange = FIGHTER_AGRO
	e.rayCooldown = rayCooldown

	return e
}

func (w *World) SpawnMiner(position mgl32.Vec3, side Side) *Entity {
	e := w.spawnBase(ModelMiner, side, position)
	e.MaxSpeed = MINER_MAX_SPEED
	e.Health = MINER_HEALTH
	e.MaxHealth = MINER_HEALTH
	e.CanBeCarried = true
	e.CanMine = true
	e.MineralCapacity = MINER_CAPACITY

	return e
}

func (w *World) SpawnCarrier(position mgl32.Vec3, side Side, crew []PersonType) *Entity {
	e := w.spawnBase(ModelCarrier, side, position)
	e.MaxSpeed = CARRIER_MAX_SPEED
	e.Health = CARRIER_HEALTH
	e.MaxHealth = CARRIER_HEALTH
	e.CarryCapacity = CARRIER_CAPACITY
	e.OnBoard = crew
	e.Build = &BuildQueue{StayCarried: true}

	return e
}

// SpawnAsteroid places a mineable, indestructible rock. Scale sets
// both its size and its mining approach range.
func (w *World) SpawnAsteroid(position mgl32.Vec3, scale, minerals float32) *Entity {
	e := w.spawnBase(ModelAsteroid, Neutral, position)
	e.Scale = scale
	e.CanBeMined = minerals > 0
	e.Minerals = minerals

	return e
}

func (w *World) spawnExplosion(position mgl32.Vec3) *Entity {
	e := w.spawn(&Entity{
		Model:      ModelExplosion,
		Side:       Neutral,
		Position:   position,
		Scale:      0.0,
		AliveUntil: w.totalTime + EXPLOSION_LIFETIME,
		Expands:    true,
	})
	e.setRotation(randomRotation(w.Rng), w.model(ModelExplosion))

	return e
}
