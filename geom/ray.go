package geom

import "github.com/go-gl/mathgl/mgl32"

// epsilon is the float32 machine epsilon, used to reject degenerate
// determinants and hits at the ray origin.
const epsilon = 1.19209290e-07

// Ray caches the reciprocal direction so box tests avoid per-slab
// divisions.
type Ray struct {
	Origin       mgl32.Vec3
	Direction    mgl32.Vec3
	InvDirection mgl32.Vec3
}

func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction,
		InvDirection: mgl32.Vec3{
			1.0 / direction.X(),
			1.0 / direction.Y(),
			1.0 / direction.Z(),
		},
	}
}

func (r Ray) IntersectionPoint(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Flipped points the ray the other way from the same origin.
func (r Ray) Flipped() Ray {
	return Ray{
		Origin:       r.Origin,
		Direction:    r.Direction.Mul(-1),
		InvDirection: r.InvDirection.Mul(-1),
	}
}

// CenteredAroundTransform moves the ray into the local space of a
// transform: inverse-translated, inverse-rotated and inverse-scaled,
// so intersection tests can run against unscaled model geometry.
func (r Ray) CenteredAroundTransform(position mgl32.Vec3, reversedRotation mgl32.Mat3, scale float32) Ray {
	return NewRay(
		reversedRotation.Mul3x1(r.Origin.Sub(position)).Mul(1.0/scale),
		reversedRotation.Mul3x1(r.Direction),
	)
}

// YPlaneIntersection intersects the ray with the horizontal plane at
// the given height. Rays pointing away from the plane report no hit.
func (r Ray) YPlaneIntersection(planeY float32) (float32, bool) {
	if (r.Origin.Y() > planeY && r.Direction.Y() > 0.0) ||
		(r.Origin.Y() < planeY && r.Direction.Y() < 0.0) {
		return 0, false
	}

	yDelta := planeY - r.Origin.Y()

	return yDelta / r.Direction.Y(), true
}

// BoundingBoxIntersection runs the slab method and returns the entry
// parameter. A ray grazing the box (tExit == tEntry) counts as a hit.
func (r Ray) BoundingBoxIntersection(box BoundingBox) (float32, bool) {
	ts1 := componentMul(box.Min.Sub(r.Origin), r.InvDirection)
	ts2 := componentMul(box.Max.Sub(r.Origin), r.InvDirection)

	tMins := minComponents(ts1, ts2)
	tMaxs := maxComponents(ts1, ts2)

	tMin := max(tMins.X(), tMins.Y(), tMins.Z())
	tMax := min(tMaxs.X(), tMaxs.Y(), tMaxs.Z())

	if tMax >= tMin {
		return tMin, true
	}

	return 0, false
}

// TriangleIntersection is the Möller-Trumbore test without backface
// culling. Parallel rays and hits at or behind the origin miss.
func (r Ray) TriangleIntersection(triangle Triangle) (float32, bool) {
	h := r.Direction.Cross(triangle.EdgeCA)
	determinant := triangle.EdgeBA.Dot(h)

	if determinant > -epsilon && determinant < epsilon {
		return 0, false
	}

	// One division and three multiplications instead of three divisions.
	invDeterminant := 1.0 / determinant
	s := r.Origin.Sub(triangle.A)
	u := invDeterminant * s.Dot(h)

	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(triangle.EdgeBA)
	v := invDeterminant * r.Direction.Dot(q)

	// The upper constraint is on u + v, not on v alone.
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	t := invDeterminant * triangle.EdgeCA.Dot(q)

	if t > epsilon {
		return t, true
	}

	return 0, false
}

// LimitedRay bounds a ray to a maximum travel parameter, carrying the
// cumulative scale applied by model-space transforms so the limit
// stays in world units.
type LimitedRay struct {
	Ray   Ray
	MaxT  float32
	Scale float32
}

func (lr LimitedRay) CenteredAroundTransform(position mgl32.Vec3, reversedRotation mgl32.Mat3, scale float32) LimitedRay {
	return LimitedRay{
		Ray:   lr.Ray.CenteredAroundTransform(position, reversedRotation, scale),
		MaxT:  lr.MaxT,
		Scale: lr.Scale * scale,
	}
}

// BoundingBoxIntersection rejects boxes whose scale-corrected entry
// parameter lies beyond the travel limit.
func (lr LimitedRay) BoundingBoxIntersection(box BoundingBox) (float32, bool) {
	t, ok := lr.Ray.BoundingBoxIntersection(box)
	if !ok {
		return 0, false
	}

	t *= lr.Scale
	if t > lr.MaxT {
		return 0, false
	}

	return t, true
}

// TriangleIntersection reports the scale-corrected hit parameter if it
// is within the travel limit.
func (lr LimitedRay) TriangleIntersection(triangle Triangle) (float32, bool) {
	t, ok := lr.Ray.TriangleIntersection(triangle)
	if !ok {
		return 0, false
	}

	t *= lr.Scale
	if t > lr.MaxT {
		return 0, false
	}

	return t, true
}

func componentMul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}
