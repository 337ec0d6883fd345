package geom

import "github.com/go-gl/mathgl/mgl32"

type plane struct {
	normal mgl32.Vec3
	// Distance from origin
	constant float32
}

func newPlaneFromCoplanarPoints(a, b, c mgl32.Vec3) plane {
	normal := c.Sub(b).Cross(a.Sub(b)).Normalize()

	return plane{normal: normal, constant: a.Dot(normal)}
}

func (p plane) halfSpace(point mgl32.Vec3) float32 {
	return p.normal.Dot(point) - p.constant
}

// SelectionFrustum is the four side planes of an on-screen drag box,
// built from the unprojected near and far corners. Near and far caps
// are left off; anything between the sides counts.
type SelectionFrustum struct {
	left  plane
	right plane
	top   plane
	bot   plane
}

// NewSelectionFrustum takes the four near-plane and four far-plane
// corners in the order: min, (max.x, min.y), (min.x, max.y), max.
func NewSelectionFrustum(nearCorners, farCorners [4]mgl32.Vec3) SelectionFrustum {
	return SelectionFrustum{
		left:  newPlaneFromCoplanarPoints(nearCorners[0], farCorners[2], farCorners[0]),
		bot:   newPlaneFromCoplanarPoints(farCorners[1], nearCorners[0], farCorners[0]),
		right: newPlaneFromCoplanarPoints(nearCorners[3], farCorners[1], farCorners[3]),
		top:   newPlaneFromCoplanarPoints(farCorners[3], farCorners[2], nearCorners[2]),
	}
}

func (f SelectionFrustum) ContainsPoint(point mgl32.Vec3) bool {
	return f.left.halfSpace(point) >= 0.0 &&
		f.right.halfSpace(point) >= 0.0 &&
		f.top.halfSpace(point) >= 0.0 &&
		f.bot.halfSpace(point) >= 0.0
}
