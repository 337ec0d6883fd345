// Package steering computes the classic boid forces: seek, flee,
// pursuit, evasion and separation. All functions are pure; a Boid is a
// throwaway projection of an entity's motion state, never stored.
package steering

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Boid struct {
	Pos      mgl32.Vec3
	Vel      mgl32.Vec3
	MaxVel   float32
	RadiusSq float32
}

func (b Boid) positionAt(time float32) mgl32.Vec3 {
	return b.Pos.Add(b.Vel.Mul(time))
}

// Seek steers toward a point at full speed.
func (b Boid) Seek(target mgl32.Vec3) mgl32.Vec3 {
	desiredVel := NormalizeTo(target.Sub(b.Pos), b.MaxVel)
	return desiredVel.Sub(b.Vel)
}

// Flee steers directly away from a point at full speed.
func (b Boid) Flee(target mgl32.Vec3) mgl32.Vec3 {
	desiredVel := NormalizeTo(b.Pos.Sub(target), b.MaxVel)
	return desiredVel.Sub(b.Vel)
}

// Pursue seeks the target's predicted position. A leadFactor of zero
// degenerates to seeking the target's current position, which avoids
// wobble against fast-turning targets.
func (b Boid) Pursue(target Boid, leadFactor float32) mgl32.Vec3 {
	distance := b.Pos.Sub(target.Pos).Len()

	t := distance / b.MaxVel * leadFactor

	return b.Seek(target.positionAt(t))
}

// Evade flees the pursuer's predicted position.
func (b Boid) Evade(evadingFrom Boid) mgl32.Vec3 {
	distance := b.Pos.Sub(evadingFrom.Pos).Len()

	t := distance / b.MaxVel

	return b.Flee(evadingFrom.positionAt(t))
}

// Avoidance sums 1/distance repulsions from every neighbour inside the
// combined collision radii, then steers along the sum at full speed.
// Coincident neighbours (zero distance) contribute nothing.
func (b Boid) Avoidance(neighbours []Boid) mgl32.Vec3 {
	var sum mgl32.Vec3

	for _, other := range neighbours {
		vector := b.Pos.Sub(other.Pos)
		distanceSq := vector.LenSqr()

		if distanceSq > 0.0 && distanceSq < b.RadiusSq+other.RadiusSq {
			sum = sum.Add(NormalizeTo(vector, 1.0/sqrt32(distanceSq)))
		}
	}

	if sum == (mgl32.Vec3{}) {
		return mgl32.Vec3{}
	}

	desiredVel := NormalizeTo(sum, b.MaxVel)

	return desiredVel.Sub(b.Vel)
}

// NormalizeTo rescales a vector to the given magnitude, mapping the
// zero vector to zero.
func NormalizeTo(vec mgl32.Vec3, newMag float32) mgl32.Vec3 {
	mag := vec.Len()
	if mag == 0.0 {
		return mgl32.Vec3{}
	}
	return vec.Mul(newMag / mag)
}

func sqrt32(f float32) float32 {
	return float32(math.Sqrt(float64(f)))
}

// Truncate clamps a vector's magnitude.
func Truncate(vec mgl32.Vec3, maxMag float32) mgl32.Vec3 {
	mag := vec.Len()
	if mag <= maxMag {
		return vec
	}
	if mag == 0.0 {
		return mgl32.Vec3{}
	}
	return vec.Mul(maxMag / mag)
}
