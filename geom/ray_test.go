package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRayBoundingBoxIntersection(t *testing.T) {
	box := NewBoundingBox(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})

	tests := []struct {
		name      string
		ray       Ray
		expectHit bool
		expectT   float32
	}{
		{"straight in along z", NewRay(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}), true, 4},
		{"straight in along x", NewRay(mgl32.Vec3{-3, 0, 0}, mgl32.Vec3{1, 0, 0}), true, 2},
		{"from inside", NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}), true, -1},
		{"misses above", NewRay(mgl32.Vec3{0, 5, -5}, mgl32.Vec3{0, 0, 1}), false, 0},
		{"diagonal corner hit", NewRay(mgl32.Vec3{-2, -2, -2}, mgl32.Vec3{1, 1, 1}), true, 1},
		{"parallel beside box", NewRay(mgl32.Vec3{3, 0, -5}, mgl32.Vec3{0, 0, 1}), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.BoundingBoxIntersection(box)
			if hit != tt.expectHit {
				t.Fatalf("hit = %v, want %v", hit, tt.expectHit)
			}
			if hit && got != tt.expectT {
				t.Errorf("t = %v, want %v", got, tt.expectT)
			}
		})
	}
}

func TestRayTriangleIntersection(t *testing.T) {
	// Triangle in the z=2 plane.
	triangle := NewTriangle(
		mgl32.Vec3{0, 0, 2},
		mgl32.Vec3{2, 0, 2},
		mgl32.Vec3{0, 2, 2},
	)

	tests := []struct {
		name      string
		ray       Ray
		expectHit bool
		expectT   float32
	}{
		{"through centroid", NewRay(mgl32.Vec3{2.0 / 3.0, 2.0 / 3.0, 0}, mgl32.Vec3{0, 0, 1}), true, 2},
		{"through vertex side", NewRay(mgl32.Vec3{0.1, 0.1, 0}, mgl32.Vec3{0, 0, 1}), true, 2},
		{"outside hypotenuse", NewRay(mgl32.Vec3{1.5, 1.5, 0}, mgl32.Vec3{0, 0, 1}), false, 0},
		{"behind origin", NewRay(mgl32.Vec3{0.5, 0.5, 3}, mgl32.Vec3{0, 0, 1}), false, 0},
		{"parallel to plane", NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}), false, 0},
		{"backface", NewRay(mgl32.Vec3{0.5, 0.5, 4}, mgl32.Vec3{0, 0, -1}), true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.TriangleIntersection(triangle)
			if hit != tt.expectHit {
				t.Fatalf("hit = %v, want %v", hit, tt.expectHit)
			}
			if hit && got != tt.expectT {
				t.Errorf("t = %v, want %v", got, tt.expectT)
			}
		})
	}
}

func TestRayCenteredAroundTransform(t *testing.T) {
	ray := NewRay(mgl32.Vec3{10, 0, -5}, mgl32.Vec3{0, 0, 1})

	// Entity at (10, 0, 0) with identity rotation and scale 2: the ray
	// origin lands at (0, 0, -2.5) in model space.
	local := ray.CenteredAroundTransform(mgl32.Vec3{10, 0, 0}, mgl32.Ident3(), 2.0)

	expectVec(t, "Origin", local.Origin, mgl32.Vec3{0, 0, -2.5})
	expectVec(t, "Direction", local.Direction, mgl32.Vec3{0, 0, 1})
}

func TestRayYPlaneIntersection(t *testing.T) {
	tests := []struct {
		name      string
		ray       Ray
		planeY    float32
		expectHit bool
		expectT   float32
	}{
		{"downward onto plane", NewRay(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, -1, 0}), 0, true, 10},
		{"upward away", NewRay(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, 1, 0}), 0, false, 0},
		{"upward onto higher plane", NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 2, 0}), 4, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.YPlaneIntersection(tt.planeY)
			if hit != tt.expectHit {
				t.Fatalf("hit = %v, want %v", hit, tt.expectHit)
			}
			if hit && got != tt.expectT {
				t.Errorf("t = %v, want %v", got, tt.expectT)
			}
		})
	}
}

func TestProjectileUpdate(t *testing.T) {
	// Fired from the origin along +x at 10 units per second.
	projectile := NewProjectile(NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}), 10)

	projectile.Update(0.5)

	// After half a second the projectile sits at x = 5; its stored ray
	// points backwards, so t = 5 lands back at the origin.
	expectVec(t, "position after update", projectile.IntersectionPoint(0), mgl32.Vec3{5, 0, 0})
	expectVec(t, "trail end", projectile.IntersectionPoint(5), mgl32.Vec3{0, 0, 0})
}

func TestProjectileBoundingBox(t *testing.T) {
	projectile := NewProjectile(NewRay(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{-1, 0, 0}), 4)
	projectile.Update(2)

	// After two seconds the projectile sits at (-7,2,3); the swept box
	// covers the segment back to where it started.
	box := projectile.BoundingBox(2)
	expected := NewBoundingBox(mgl32.Vec3{-7, 2, 3}, mgl32.Vec3{1, 2, 3})
	if box != expected {
		t.Errorf("BoundingBox = %v, want %v", box, expected)
	}
}

func TestLimitedRayRespectsMaxT(t *testing.T) {
	triangle := NewTriangle(
		mgl32.Vec3{-1, -1, 5},
		mgl32.Vec3{1, -1, 5},
		mgl32.Vec3{0, 1, 5},
	)

	// Fired from z=10 toward -z; after six seconds the projectile is at
	// z=4, one unit past the triangle's plane.
	projectile := NewProjectile(NewRay(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1}), 1)
	projectile.Update(6)

	// A half-second sweep doesn't reach back to the crossing point.
	lr := projectile.AsLimitedRay(0.5)
	if _, hit := lr.TriangleIntersection(triangle); hit {
		t.Fatal("crossing point beyond the travel limit should not be hit")
	}

	// The full sweep covers it.
	lr = projectile.AsLimitedRay(6)
	scaledT, hit := lr.TriangleIntersection(triangle)
	if !hit {
		t.Fatal("crossing point within the travel limit should be hit")
	}
	if scaledT != 1 {
		t.Errorf("scaled t = %v, want 1", scaledT)
	}
}

func TestSelectionFrustumContainsPoint(t *testing.T) {
	// A symmetric frustum looking down +z: 1x1 near plane at z=1,
	// 10x10 far plane at z=10.
	near := [4]mgl32.Vec3{
		{-0.5, -0.5, 1}, {0.5, -0.5, 1}, {-0.5, 0.5, 1}, {0.5, 0.5, 1},
	}
	far := [4]mgl32.Vec3{
		{-5, -5, 10}, {5, -5, 10}, {-5, 5, 10}, {5, 5, 10},
	}
	frustum := NewSelectionFrustum(near, far)

	tests := []struct {
		name     string
		point    mgl32.Vec3
		expected bool
	}{
		{"center", mgl32.Vec3{0, 0, 5}, true},
		{"near the far corner", mgl32.Vec3{4, 4, 9.5}, true},
		{"left of frustum", mgl32.Vec3{-6, 0, 5}, false},
		{"above frustum", mgl32.Vec3{0, 6, 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frustum.ContainsPoint(tt.point); got != tt.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.point, got, tt.expected)
			}
		})
	}
}
