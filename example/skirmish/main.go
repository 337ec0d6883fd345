package main

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hallveg/armada"
	"github.com/hallveg/armada/bvh"
	"github.com/hallveg/armada/geom"
)

// cubeMesh builds a unit-ish placeholder hull: a 2x2x2 cube triangulated
// into 12 triangles. A real client would load hulls from model files.
func cubeMesh() *bvh.Mesh {
	quad := func(a, b, c, d mgl32.Vec3) []geom.Triangle {
		return []geom.Triangle{
			geom.NewTriangle(a, b, c),
			geom.NewTriangle(a, c, d),
		}
	}

	var triangles []geom.Triangle
	triangles = append(triangles, quad(
		mgl32.Vec3{-1, -1, 1}, mgl32.Vec3{1, -1, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{-1, 1, 1})...)
	triangles = append(triangles, quad(
		mgl32.Vec3{1, -1, -1}, mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{-1, 1, -1}, mgl32.Vec3{1, 1, -1})...)
	triangles = append(triangles, quad(
		mgl32.Vec3{1, -1, 1}, mgl32.Vec3{1, -1, -1}, mgl32.Vec3{1, 1, -1}, mgl32.Vec3{1, 1, 1})...)
	triangles = append(triangles, quad(
		mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{-1, -1, 1}, mgl32.Vec3{-1, 1, 1}, mgl32.Vec3{-1, 1, -1})...)
	triangles = append(triangles, quad(
		mgl32.Vec3{-1, 1, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, -1}, mgl32.Vec3{-1, 1, -1})...)
	triangles = append(triangles, quad(
		mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, -1, -1}, mgl32.Vec3{1, -1, 1}, mgl32.Vec3{-1, -1, 1})...)

	return bvh.NewMesh(triangles)
}

// setupScene spawns a small mining convoy facing an enemy patrol.
func setupScene() (*armada.World, *armada.Entity) {
	world := armada.NewWorld(rand.New(rand.NewSource(42)))
	world.GlobalMinerals = 100

	mesh := cubeMesh()
	for _, model := range []armada.ModelID{
		armada.ModelCarrier, armada.ModelFighter, armada.ModelMiner,
		armada.ModelExplosion, armada.ModelAsteroid,
	} {
		world.RegisterModel(model, mesh)
	}

	carrier := world.SpawnCarrier(mgl32.Vec3{0, 0, 0}, armada.Friendly,
		[]armada.PersonType{armada.Engineer, armada.Engineer, armada.Civilian})
	world.SpawnFighter(mgl32.Vec3{5, 0, 5}, armada.Friendly, 0)
	world.SpawnFighter(mgl32.Vec3{-5, 0, 5}, armada.Friendly, 0)

	miner := world.SpawnMiner(mgl32.Vec3{0, 5, 0}, armada.Friendly)
	asteroid := world.SpawnAsteroid(mgl32.Vec3{40, 0, 30}, 3, 25)
	world.SpawnAsteroid(mgl32.Vec3{60, 10, -20}, 2, 12)

	world.SpawnFighter(mgl32.Vec3{120, 0, 0}, armada.Enemy, 0)
	world.SpawnFighter(mgl32.Vec3{130, 0, 10}, armada.Enemy, 0)

	world.IssueInteract([]armada.EntityID{miner.ID}, asteroid.ID, false)
	world.QueueBuild(carrier.ID, armada.ShipFighter)

	return world, carrier
}

func main() {
	world, carrier := setupScene()

	world.Events.Subscribe(armada.SHIP_DESTROYED, func(event armada.Event) {
		e := event.(armada.ShipDestroyedEvent)
		fmt.Printf("ship #%d destroyed at %v\n", e.Entity, e.Position)
	})
	world.Events.Subscribe(armada.MINED, func(event armada.Event) {
		e := event.(armada.MinedEvent)
		fmt.Printf("miner #%d extracted %.2f from asteroid #%d\n", e.Miner, e.Amount, e.Asteroid)
	})
	world.Events.Subscribe(armada.DOCKED, func(event armada.Event) {
		e := event.(armada.DockedEvent)
		fmt.Printf("ship #%d docked with carrier #%d, delivered %.2f\n", e.Ship, e.Carrier, e.Delivered)
	})
	world.Events.Subscribe(armada.SHIP_BUILT, func(event armada.Event) {
		e := event.(armada.ShipBuiltEvent)
		fmt.Printf("carrier #%d finished building ship #%d\n", e.Carrier, e.Ship)
	})

	const dt float32 = 1.0 / 60.0
	const maxSteps = 60 * 120 // two minutes of simulated time

	for step := 0; step < maxSteps; step++ {
		world.Step(dt)

		if step%(60*10) == 0 {
			fmt.Printf("--- t=%.0fs: %d entities, %.1f minerals banked ---\n",
				world.TotalTime(), world.NumEntities(), world.GlobalMinerals)
		}
	}

	fmt.Printf("done: %d entities left, carrier holds %d ships\n",
		world.NumEntities(), len(carrier.Carrying))
}
