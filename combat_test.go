package armada

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTargetAcquisition(t *testing.T) {
	w := newTestWorld(1)

	fighter := w.SpawnFighter(mgl32.Vec3{}, Friendly, 0)
	near := w.SpawnFighter(mgl32.Vec3{50, 0, 0}, Enemy, 0)
	w.SpawnFighter(mgl32.Vec3{150, 0, 0}, Enemy, 0)
	w.SpawnFighter(mgl32.Vec3{500, 0, 0}, Enemy, 0) // out of agro range

	w.Step(0.1)

	front, ok := fighter.Queue.Front()
	if !ok || front.Kind != CommandInteract || front.Interaction != InteractAttack {
		t.Fatalf("front command = %+v, want an attack order", front)
	}
	if front.Target != near.ID {
		t.Errorf("acquired target %d, want the nearest enemy %d", front.Target, near.ID)
	}
	if w.Entity(near.ID).Evading != fighter.ID {
		t.Errorf("target evading %d, want %d", w.Entity(near.ID).Evading, fighter.ID)
	}
}

func TestNoAcquisitionOutOfRange(t *testing.T) {
	w := newTestWorld(1)

	fighter := w.SpawnFighter(mgl32.Vec3{}, Friendly, 0)
	w.SpawnFighter(mgl32.Vec3{500, 0, 0}, Enemy, 0)

	w.Step(0.1)

	if !fighter.Queue.Empty() {
		front, _ := fighter.Queue.Front()
		t.Fatalf("acquired a target beyond agro range: %+v", front)
	}
}

func TestPlainMoveDoesNotAcquire(t *testing.T) {
	w := newTestWorld(1)

	fighter := w.SpawnFighter(mgl32.Vec3{}, Friendly, 0)
	w.SpawnFighter(mgl32.Vec3{50, 0, 0}, Enemy, 0)

	w.IssueMoveTo([]EntityID{fighter.ID}, mgl32.Vec3{0, 0, 100}, MoveNormal, false)
	w.Step(0.1)

	front, ok := fighter.Queue.Front()
	if !ok || front.Kind != CommandMoveTo {
		t.Fatalf("plain move was displaced: %+v", front)
	}
}

func TestAttackMoveAcquires(t *testing.T) {
	w := newTestWorld(1)

	fighter := w.SpawnFighter(mgl32.Vec3{}, Friendly, 0)
	enemy := w.SpawnFighter(mgl32.Vec3{50, 0, 0}, Enemy, 0)

	w.IssueMoveTo([]EntityID{fighter.ID}, mgl32.Vec3{0, 0, 100}, MoveAttack, false)
	w.Step(0.1)

	front, ok := fighter.Queue.Front()
	if !ok || front.Interaction != InteractAttack || front.Target != enemy.ID {
		t.Fatalf("front command = %+v, want attacking %d before the move", front, enemy.ID)
	}
	if fighter.Queue.Len() != 2 {
		t.Errorf("queue length = %d, want the move order kept behind the attack", fighter.Queue.Len())
	}
}

func TestProjectilesHitAndDamage(t *testing.T) {
	w := newTestWorld(7)

	w.SpawnFighter(mgl32.Vec3{}, Friendly, 0)
	enemy := w.SpawnFighter(mgl32.Vec3{40, 0, 0}, Enemy, 0)
	// Pin the target; the attacker closes head-on and fires along its
	// velocity, straight at the hull.
	enemy.MaxSpeed = 0

	hits := 0
	w.Events.Subscribe(PROJECTILE_HIT, func(event Event) {
		e := event.(ProjectileHitEvent)
		if e.Target != enemy.ID {
			t.Errorf("hit target = %d, want %d", e.Target, enemy.ID)
		}
		if e.Damage != PROJECTILE_DAMAGE {
			t.Errorf("hit damage = %v, want %v", e.Damage, float32(PROJECTILE_DAMAGE))
		}
		hits++
	})

	for i := 0; i < 100 && hits == 0; i++ {
		w.Step(0.1)
	}

	if hits == 0 {
		t.Fatal("no projectile connected within 10 seconds")
	}
	if enemy.Health >= FIGHTER_HEALTH {
		t.Errorf("enemy health = %v after a hit, want below %v", enemy.Health, float32(FIGHTER_HEALTH))
	}
}

func TestDestructionSpawnsExplosion(t *testing.T) {
	w := newTestWorld(1)

	fighter := w.SpawnFighter(mgl32.Vec3{5, 5, 5}, Friendly, 0)
	fighter.Health = 0

	destroyed := false
	w.Events.Subscribe(SHIP_DESTROYED, func(event Event) {
		e := event.(ShipDestroyedEvent)
		if e.Entity != fighter.ID || e.Model != ModelFighter {
			t.Errorf("unexpected destruction event: %+v", e)
		}
		destroyed = true
	})

	w.Step(0.1)

	if !destroyed {
		t.Fatal("no destruction event")
	}
	if w.Entity(fighter.ID) != nil {
		t.Fatal("dead fighter still in the world")
	}

	explosions := 0
	for _, e := range w.entities {
		if e.Model == ModelExplosion {
			explosions++
		}
	}
	if explosions != 1 {
		t.Errorf("found %d explosions, want 1", explosions)
	}
}

func TestDestroyedCarrierScattersShips(t *testing.T) {
	w := newTestWorld(1)

	carrier := w.SpawnCarrier(mgl32.Vec3{}, Friendly, nil)
	a := w.SpawnFighter(mgl32.Vec3{}, Friendly, 0)
	b := w.SpawnFighter(mgl32.Vec3{}, Friendly, 0)
	w.stow(a, carrier)
	w.stow(b, carrier)

	carrier.Health = 0
	w.Step(0.1)

	if w.Entity(carrier.ID) != nil {
		t.Fatal("destroyed carrier still in the world")
	}
	for _, ship := range []*Entity{a, b} {
		if w.Entity(ship.ID) == nil {
			t.Fatal("carried ship went down with the carrier")
		}
		if ship.carried {
			t.Fatal("carried ship not released on destruction")
		}
	}
}

func TestIndestructibleAsteroid(t *testing.T) {
	w := newTestWorld(1)

	asteroid := w.SpawnAsteroid(mgl32.Vec3{}, 2, 10)
	asteroid.Health = 0

	w.Step(0.1)

	if w.Entity(asteroid.ID) == nil {
		t.Fatal("asteroid with zero health was destroyed")
	}
}

func TestProjectileExpires(t *testing.T) {
	w := newTestWorld(1)

	// An attack order against something off to the side makes the ship
	// fire along its own velocity, so the shot sails into empty space.
	asteroid := w.SpawnAsteroid(mgl32.Vec3{100, 0, 0}, 1, 10)
	fighter := w.SpawnFighter(mgl32.Vec3{}, Friendly, 0)
	fighter.Velocity = mgl32.Vec3{0, 0, fighter.MaxSpeed}
	fighter.Queue.PushBack(Interact(asteroid.ID, InteractAttack, 0))

	w.Step(0.1)
	if len(w.projectiles) != 1 {
		t.Fatalf("projectiles after firing = %d, want 1", len(w.projectiles))
	}
	fighter.Queue.Clear()

	for i := 0; i < 110; i++ {
		w.Step(0.1)
	}
	if len(w.projectiles) != 0 {
		t.Fatalf("projectiles after the lifetime = %d, want 0", len(w.projectiles))
	}
}
