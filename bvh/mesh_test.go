package bvh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hallveg/armada/geom"
)

// cubeTriangles is a 2x2x2 cube centered on the origin, two triangles
// per face. Winding does not matter: the ray test has no backface
// culling.
func cubeTriangles() []geom.Triangle {
	quad := func(a, b, c, d mgl32.Vec3) [2]geom.Triangle {
		return [2]geom.Triangle{
			geom.NewTriangle(a, b, c),
			geom.NewTriangle(a, c, d),
		}
	}

	var triangles []geom.Triangle
	for _, face := range [][2]geom.Triangle{
		quad(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, -1, -1}, mgl32.Vec3{1, 1, -1}, mgl32.Vec3{-1, 1, -1}),
		quad(mgl32.Vec3{-1, -1, 1}, mgl32.Vec3{1, -1, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{-1, 1, 1}),
		quad(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{-1, 1, -1}, mgl32.Vec3{-1, 1, 1}, mgl32.Vec3{-1, -1, 1}),
		quad(mgl32.Vec3{1, -1, -1}, mgl32.Vec3{1, 1, -1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, -1, 1}),
		quad(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, -1, -1}, mgl32.Vec3{1, -1, 1}, mgl32.Vec3{-1, -1, 1}),
		quad(mgl32.Vec3{-1, 1, -1}, mgl32.Vec3{1, 1, -1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{-1, 1, 1}),
	} {
		triangles = append(triangles, face[0], face[1])
	}
	return triangles
}

func TestNewMesh(t *testing.T) {
	mesh := NewMesh(cubeTriangles())

	if mesh.NumTriangles() != 12 {
		t.Fatalf("NumTriangles() = %d, want 12", mesh.NumTriangles())
	}

	expected := geom.NewBoundingBox(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	if mesh.BoundingBox() != expected {
		t.Fatalf("BoundingBox() = %v, want %v", mesh.BoundingBox(), expected)
	}
}

func TestMeshNearestHit(t *testing.T) {
	mesh := NewMesh(cubeTriangles())

	tests := []struct {
		name      string
		ray       geom.Ray
		expectHit bool
		expectT   float32
	}{
		// Offset from the face diagonals so exactly one triangle per
		// face is crossed.
		{"front face", geom.NewRay(mgl32.Vec3{0.25, -0.25, -5}, mgl32.Vec3{0, 0, 1}), true, 4},
		{"right face", geom.NewRay(mgl32.Vec3{5, 0.25, -0.25}, mgl32.Vec3{-1, 0, 0}), true, 4},
		{"from inside", geom.NewRay(mgl32.Vec3{0.25, -0.25, 0}, mgl32.Vec3{0, 0, 1}), true, 1},
		{"miss", geom.NewRay(mgl32.Vec3{5, 5, -5}, mgl32.Vec3{0, 0, 1}), false, 0},
		{"pointing away", geom.NewRay(mgl32.Vec3{0.25, -0.25, -5}, mgl32.Vec3{0, 0, -1}), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, hitT, hit, _ := mesh.NearestHit(tt.ray, nil)
			if hit != tt.expectHit {
				t.Fatalf("hit = %v, want %v", hit, tt.expectHit)
			}
			if hit && hitT != tt.expectT {
				t.Errorf("t = %v, want %v", hitT, tt.expectT)
			}
		})
	}
}

func TestMeshIntersectVisitsAllHits(t *testing.T) {
	mesh := NewMesh(cubeTriangles())
	ray := geom.NewRay(mgl32.Vec3{0.25, -0.25, -5}, mgl32.Vec3{0, 0, 1})

	var ts []float32
	mesh.Intersect(ray, nil, func(_ geom.Triangle, hitT float32) {
		ts = append(ts, hitT)
	})

	// Entry at t=4 and exit at t=6.
	if len(ts) != 2 {
		t.Fatalf("visited %d hits, want 2 (%v)", len(ts), ts)
	}
	if min(ts[0], ts[1]) != 4 || max(ts[0], ts[1]) != 6 {
		t.Errorf("hit parameters %v, want {4, 6}", ts)
	}
}

func TestMeshIntersectLimited(t *testing.T) {
	mesh := NewMesh(cubeTriangles())
	lr := geom.LimitedRay{
		Ray:   geom.NewRay(mgl32.Vec3{0.25, -0.25, -5}, mgl32.Vec3{0, 0, 1}),
		MaxT:  4.5,
		Scale: 1,
	}

	hits := 0
	mesh.IntersectLimited(lr, nil, func(_ geom.Triangle, hitT float32) {
		hits++
		if hitT != 4 {
			t.Errorf("t = %v, want 4", hitT)
		}
	})

	// Only the entry face is within the travel limit.
	if hits != 1 {
		t.Fatalf("visited %d hits, want 1", hits)
	}
}

func TestMeshScaledLimitedRay(t *testing.T) {
	mesh := NewMesh(cubeTriangles())

	// An entity of scale 2 at x=10: a projectile segment from x=20
	// toward it covers 9 world units, reaching the hull at x=12.
	world := geom.LimitedRay{
		Ray:   geom.NewRay(mgl32.Vec3{20, 0.25, -0.25}, mgl32.Vec3{-1, 0, 0}),
		MaxT:  9,
		Scale: 1,
	}
	local := world.CenteredAroundTransform(mgl32.Vec3{10, 0, 0}, mgl32.Ident3(), 2)

	hits := 0
	mesh.IntersectLimited(local, nil, func(_ geom.Triangle, hitT float32) {
		hits++
		// The parameter comes back in world units: 8 to the near face.
		if hitT != 8 {
			t.Errorf("scaled t = %v, want 8", hitT)
		}
	})

	if hits != 1 {
		t.Fatalf("visited %d hits, want 1", hits)
	}
}
