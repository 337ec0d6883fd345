package geom

import "github.com/go-gl/mathgl/mgl32"

// Projectile is stored as a ray pointing backward from its current
// position toward where it was fired. That makes "did it hit anything
// since last tick" a bounded ray query over the just-traveled segment.
type Projectile struct {
	flippedRay Ray
	velocity   float32
}

func NewProjectile(ray Ray, velocity float32) Projectile {
	return Projectile{
		flippedRay: ray.Flipped(),
		velocity:   velocity,
	}
}

// MaxT is the distance covered in one tick.
func (p Projectile) MaxT(deltaTime float32) float32 {
	return p.velocity * deltaTime
}

// Update advances the projectile by moving the flipped ray's origin
// backward along its direction.
func (p *Projectile) Update(deltaTime float32) {
	p.flippedRay.Origin = p.flippedRay.Origin.Sub(p.flippedRay.Direction.Mul(p.MaxT(deltaTime)))
}

// BoundingBox is the swept box of this tick's travel segment.
func (p Projectile) BoundingBox(deltaTime float32) BoundingBox {
	endPoint := p.flippedRay.IntersectionPoint(p.MaxT(deltaTime))

	return NewBoundingBoxChecked(p.flippedRay.Origin, endPoint)
}

// AsLimitedRay bounds the backward ray to this tick's travel.
func (p Projectile) AsLimitedRay(deltaTime float32) LimitedRay {
	return LimitedRay{
		Ray:   p.flippedRay,
		MaxT:  p.MaxT(deltaTime),
		Scale: 1.0,
	}
}

func (p Projectile) IntersectionPoint(t float32) mgl32.Vec3 {
	return p.flippedRay.IntersectionPoint(t)
}

// LinePoints returns the segment from the projectile's position back
// along its trail, for staging into a line buffer.
func (p Projectile) LinePoints(trailLength float32) (mgl32.Vec3, mgl32.Vec3) {
	return p.flippedRay.Origin, p.flippedRay.IntersectionPoint(p.velocity * trailLength)
}
