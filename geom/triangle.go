package geom

import "github.com/go-gl/mathgl/mgl32"

// Triangle stores one vertex plus the two edge vectors from it, so the
// intersection hot path never recomputes the subtractions.
type Triangle struct {
	A      mgl32.Vec3
	EdgeBA mgl32.Vec3
	EdgeCA mgl32.Vec3
}

func NewTriangle(a, b, c mgl32.Vec3) Triangle {
	return Triangle{
		A:      a,
		EdgeBA: b.Sub(a),
		EdgeCA: c.Sub(a),
	}
}

func (t Triangle) B() mgl32.Vec3 {
	return t.A.Add(t.EdgeBA)
}

func (t Triangle) C() mgl32.Vec3 {
	return t.A.Add(t.EdgeCA)
}

// BoundingBox is only needed at build time, so it is not cached.
func (t Triangle) BoundingBox() BoundingBox {
	b := t.B()
	c := t.C()

	return BoundingBox{
		Min: minComponents(minComponents(t.A, b), c),
		Max: maxComponents(maxComponents(t.A, b), c),
	}
}
