package geom

import "github.com/go-gl/mathgl/mgl32"

// BoundingBox is an axis-aligned box. Min <= Max componentwise.
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func NewBoundingBox(min, max mgl32.Vec3) BoundingBox {
	return BoundingBox{Min: min, Max: max}
}

// NewBoundingBoxChecked orders the two corners componentwise, so the
// result is valid regardless of which corner is which.
func NewBoundingBoxChecked(a, b mgl32.Vec3) BoundingBox {
	return BoundingBox{Min: minComponents(a, b), Max: maxComponents(a, b)}
}

// Union returns the smallest box enclosing both boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		Min: minComponents(b.Min, other.Min),
		Max: maxComponents(b.Max, other.Max),
	}
}

// SurfaceArea is the summed area of the six faces.
func (b BoundingBox) SurfaceArea() float32 {
	d := b.Max.Sub(b.Min)
	return 2.0 * (d.X()*d.Y() + d.Y()*d.Z() + d.Z()*d.X())
}

// Intersects checks overlap on all three axes. Touching boxes count.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.Min.X() <= other.Max.X() && b.Max.X() >= other.Min.X() &&
		b.Min.Y() <= other.Max.Y() && b.Max.Y() >= other.Min.Y() &&
		b.Min.Z() <= other.Max.Z() && b.Max.Z() >= other.Min.Z()
}

// Contains reports whether other lies fully inside b.
func (b BoundingBox) Contains(other BoundingBox) bool {
	return b.Min.X() <= other.Min.X() && b.Max.X() >= other.Max.X() &&
		b.Min.Y() <= other.Min.Y() && b.Max.Y() >= other.Max.Y() &&
		b.Min.Z() <= other.Min.Z() && b.Max.Z() >= other.Max.Z()
}

// ContainsPoint checks if a point is inside the box.
func (b BoundingBox) ContainsPoint(point mgl32.Vec3) bool {
	return point.X() >= b.Min.X() && point.X() <= b.Max.X() &&
		point.Y() >= b.Min.Y() && point.Y() <= b.Max.Y() &&
		point.Z() >= b.Min.Z() && point.Z() <= b.Max.Z()
}

// Rotate recomputes the box from its 8 transformed corners.
func (b BoundingBox) Rotate(matrix mgl32.Mat3) BoundingBox {
	corners := b.Corners()

	min := matrix.Mul3x1(corners[0])
	max := min

	for i := 1; i < 8; i++ {
		point := matrix.Mul3x1(corners[i])
		min = minComponents(min, point)
		max = maxComponents(max, point)
	}

	return BoundingBox{Min: min, Max: max}
}

func (b BoundingBox) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min.X(), b.Min.Y(), b.Min.Z()},
		{b.Min.X(), b.Min.Y(), b.Max.Z()},
		{b.Min.X(), b.Max.Y(), b.Min.Z()},
		{b.Min.X(), b.Max.Y(), b.Max.Z()},
		{b.Max.X(), b.Min.Y(), b.Min.Z()},
		{b.Max.X(), b.Min.Y(), b.Max.Z()},
		{b.Max.X(), b.Max.Y(), b.Min.Z()},
		{b.Max.X(), b.Max.Y(), b.Max.Z()},
	}
}

// Add translates the box.
func (b BoundingBox) Add(adjustment mgl32.Vec3) BoundingBox {
	return BoundingBox{Min: b.Min.Add(adjustment), Max: b.Max.Add(adjustment)}
}

// MulScalar scales the box around the origin.
func (b BoundingBox) MulScalar(scale float32) BoundingBox {
	return BoundingBox{Min: b.Min.Mul(scale), Max: b.Max.Mul(scale)}
}

// Expand grows the box by the given amount on every side.
func (b BoundingBox) Expand(by mgl32.Vec3) BoundingBox {
	return BoundingBox{Min: b.Min.Sub(by), Max: b.Max.Add(by)}
}

func minComponents(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		min(a.X(), b.X()),
		min(a.Y(), b.Y()),
		min(a.Z(), b.Z()),
	}
}

func maxComponents(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		max(a.X(), b.X()),
		max(a.Y(), b.Y()),
		max(a.Z(), b.Z()),
	}
}
