package bvh

import (
	"math"

	"github.com/hallveg/armada/geom"
)

// selectionFunction decides whether a traversal descends into a
// subtree and evaluates exact hits at the leaves. Both plain rays and
// travel-limited rays implement it.
type selectionFunction interface {
	BoundingBoxIntersection(geom.BoundingBox) (float32, bool)
	TriangleIntersection(geom.Triangle) (float32, bool)
}

// Mesh is the per-model triangle acceleration structure, built once at
// load time and immutable afterwards. Queries are safe to run
// concurrently as long as every caller supplies its own scratch stack.
type Mesh struct {
	tree        *Dynamic[geom.Triangle]
	boundingBox geom.BoundingBox
}

// NewMesh bulk-loads the triangle hierarchy by surface-area-heuristic
// insertion.
func NewMesh(triangles []geom.Triangle) *Mesh {
	tree := NewDynamic[geom.Triangle]()

	var boundingBox geom.BoundingBox

	for i, triangle := range triangles {
		box := triangle.BoundingBox()
		tree.Insert(triangle, box)

		if i == 0 {
			boundingBox = box
		} else {
			boundingBox = boundingBox.Union(box)
		}
	}

	return &Mesh{tree: tree, boundingBox: boundingBox}
}

func (m *Mesh) BoundingBox() geom.BoundingBox {
	return m.boundingBox
}

func (m *Mesh) NumTriangles() int {
	return m.tree.Len()
}

// Intersect visits every triangle the ray hits, with its hit
// parameter, pruning subtrees whose envelope the ray misses.
func (m *Mesh) Intersect(ray geom.Ray, scratch []int, visit func(triangle geom.Triangle, t float32)) []int {
	return m.locate(ray, scratch, visit)
}

// IntersectLimited is Intersect for a travel-limited ray: subtrees and
// hits beyond the scale-corrected limit are rejected.
func (m *Mesh) IntersectLimited(ray geom.LimitedRay, scratch []int, visit func(triangle geom.Triangle, t float32)) []int {
	return m.locate(ray, scratch, visit)
}

func (m *Mesh) locate(sel selectionFunction, scratch []int, visit func(geom.Triangle, float32)) []int {
	scratch = scratch[:0]

	if m.tree.root == none {
		return scratch
	}

	scratch = append(scratch, m.tree.root)

	for len(scratch) > 0 {
		index := scratch[len(scratch)-1]
		scratch = scratch[:len(scratch)-1]

		n := &m.tree.nodes[index]

		if n.leaf {
			if t, ok := sel.TriangleIntersection(n.data); ok {
				visit(n.data, t)
			}
			continue
		}

		if _, ok := sel.BoundingBoxIntersection(n.boundingBox); ok {
			scratch = append(scratch, n.leftChild, n.rightChild)
		}
	}

	return scratch
}

// NearestHit returns the triangle hit with the smallest parameter
// along the ray. Subtrees whose envelope entry already lies beyond the
// best hit found so far are skipped.
func (m *Mesh) NearestHit(ray geom.Ray, scratch []int) (geom.Triangle, float32, bool, []int) {
	var bestTriangle geom.Triangle
	bestT := float32(math.MaxFloat32)
	found := false

	scratch = scratch[:0]

	if m.tree.root == none {
		return bestTriangle, 0, false, scratch
	}

	scratch = append(scratch, m.tree.root)

	for len(scratch) > 0 {
		index := scratch[len(scratch)-1]
		scratch = scratch[:len(scratch)-1]

		n := &m.tree.nodes[index]

		if n.leaf {
			if t, ok := ray.TriangleIntersection(n.data); ok && t < bestT {
				bestT = t
				bestTriangle = n.data
				found = true
			}
			continue
		}

		if t, ok := ray.BoundingBoxIntersection(n.boundingBox); ok && t < bestT {
			scratch = append(scratch, n.leftChild, n.rightChild)
		}
	}

	if !found {
		return bestTriangle, 0, false, scratch
	}

	return bestTriangle, bestT, true, scratch
}
