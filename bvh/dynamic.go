// Package bvh provides the spatial acceleration structures used by the
// simulation: a dynamic bounding-volume hierarchy for live entities and
// a static per-model triangle structure built from mesh data.
package bvh

import (
	"container/heap"
	"fmt"

	"github.com/hallveg/armada/geom"
)

// none marks an absent node index.
const none = -1

type node[T any] struct {
	boundingBox geom.BoundingBox
	data        T
	leaf        bool
	parent      int
	leftChild   int
	rightChild  int
}

// Dynamic is a binary bounding-volume hierarchy over an index-stable
// arena. Leaves carry data; internal nodes always have exactly two
// children and a box equal to the union of their children's boxes.
// Removed slots are recycled through a free list, so an index returned
// by Insert stays valid until that entry is removed.
//
// Mutations (Insert, Remove, ModifyBoundingBoxAndRefit) must not run
// concurrently with each other or with Find.
type Dynamic[T any] struct {
	nodes    []node[T]
	freeHead int
	root     int
	count    int

	siblingScratch siblingHeap
}

func NewDynamic[T any]() *Dynamic[T] {
	return &Dynamic[T]{freeHead: none, root: none}
}

// Len is the number of live leaves.
func (d *Dynamic[T]) Len() int {
	if d.count == 0 {
		return 0
	}
	// A full binary tree with n leaves has 2n-1 nodes.
	return (d.count + 1) / 2
}

func (d *Dynamic[T]) Clear() {
	d.nodes = d.nodes[:0]
	d.freeHead = none
	d.root = none
	d.count = 0
}

// Insert adds a leaf and returns its stable index. The first insertion
// becomes the root; later insertions pair up with the sibling found by
// the surface-area heuristic and refit their ancestors.
func (d *Dynamic[T]) Insert(data T, boundingBox geom.BoundingBox) int {
	leafIndex := d.alloc(node[T]{
		boundingBox: boundingBox,
		data:        data,
		leaf:        true,
		parent:      none,
	})

	if d.count == 1 {
		d.root = leafIndex
		return leafIndex
	}

	sibling := d.findBestSibling(boundingBox)

	// Splice a new parent in above the chosen sibling.
	oldParent := d.nodes[sibling].parent

	newParent := d.alloc(node[T]{
		boundingBox: boundingBox.Union(d.nodes[sibling].boundingBox),
		parent:      oldParent,
		leftChild:   leafIndex,
		rightChild:  sibling,
	})

	d.nodes[sibling].parent = newParent
	d.nodes[leafIndex].parent = newParent

	if oldParent != none {
		if d.nodes[oldParent].leftChild == sibling {
			d.nodes[oldParent].leftChild = newParent
		} else {
			d.nodes[oldParent].rightChild = newParent
		}
	} else {
		d.root = newParent
	}

	d.refit(leafIndex)

	return leafIndex
}

// Remove deletes the leaf at index and returns its data. The leaf's
// parent is deleted too, with the sibling promoted into its place, and
// the ancestors above are refit. Panics if index is not a live leaf.
func (d *Dynamic[T]) Remove(index int) T {
	d.mustBeLeaf(index, "Remove")

	if parent := d.nodes[index].parent; parent != none {
		grandparent := d.nodes[parent].parent

		promoted := d.siblingOf(parent, index)
		d.nodes[promoted].parent = grandparent

		if grandparent != none {
			if d.nodes[grandparent].leftChild == parent {
				d.nodes[grandparent].leftChild = promoted
			} else {
				d.nodes[grandparent].rightChild = promoted
			}
		} else {
			d.root = promoted
		}

		d.refit(parent)
		d.free(parent)
	} else {
		d.root = none
	}

	data := d.nodes[index].data
	d.free(index)

	return data
}

// ModifyBoundingBoxAndRefit updates a leaf's box in place and refits
// its ancestors. No re-insertion happens; the tree shape only changes
// through the rotation pass. Panics if index is not a live leaf.
func (d *Dynamic[T]) ModifyBoundingBoxAndRefit(index int, boundingBox geom.BoundingBox) {
	d.mustBeLeaf(index, "ModifyBoundingBoxAndRefit")

	d.nodes[index].boundingBox = boundingBox
	d.refit(index)
}

// Find walks the hierarchy depth first, pruning subtrees whose box
// fails the predicate, and calls visit for each matching leaf's data.
// Returning false from visit stops the walk. The scratch stack is
// reused across calls to avoid per-query allocation; pass the returned
// slice back in. Concurrent Find calls each need their own scratch.
func (d *Dynamic[T]) Find(predicate func(geom.BoundingBox) bool, scratch []int, visit func(data T) bool) []int {
	scratch = scratch[:0]

	if d.root == none {
		return scratch
	}

	scratch = append(scratch, d.root)

	for len(scratch) > 0 {
		index := scratch[len(scratch)-1]
		scratch = scratch[:len(scratch)-1]

		n := &d.nodes[index]

		if !predicate(n.boundingBox) {
			continue
		}

		if n.leaf {
			if !visit(n.data) {
				return scratch
			}
		} else {
			scratch = append(scratch, n.leftChild, n.rightChild)
		}
	}

	return scratch
}

// findBestSibling runs a branch-and-bound search over the tree for the
// node whose pairing with the new box grows total surface area the
// least. Candidates are expanded best-first from a min-heap; a subtree
// is only entered when the lower bound (the new box's own area plus the
// ancestors' accumulated growth) could still beat the best cost seen.
func (d *Dynamic[T]) findBestSibling(boundingBox geom.BoundingBox) int {
	lowestCost := d.nodes[d.root].boundingBox.Union(boundingBox).SurfaceArea()
	bestSibling := d.root

	queue := d.siblingScratch[:0]
	queue = append(queue, siblingCandidate{priority: lowestCost, index: d.root})
	heap.Init(&queue)

	for queue.Len() > 0 {
		candidate := heap.Pop(&queue).(siblingCandidate)

		n := &d.nodes[candidate.index]

		cost := n.boundingBox.Union(boundingBox).SurfaceArea() + candidate.parentDelta

		if cost < lowestCost {
			lowestCost = cost
			bestSibling = candidate.index
		}

		if !n.leaf {
			delta := d.deltaSurfaceArea(candidate.index, boundingBox) + candidate.parentDelta
			lowerBound := boundingBox.SurfaceArea() + delta

			if lowerBound < lowestCost {
				heap.Push(&queue, siblingCandidate{
					priority:    lowerBound,
					index:       n.leftChild,
					parentDelta: delta,
				})
				heap.Push(&queue, siblingCandidate{
					priority:    lowerBound,
					index:       n.rightChild,
					parentDelta: delta,
				})
			}
		}
	}

	d.siblingScratch = queue

	return bestSibling
}

// deltaSurfaceArea is how much the node's box would grow to also hold
// boundingBox.
func (d *Dynamic[T]) deltaSurfaceArea(index int, boundingBox geom.BoundingBox) float32 {
	box := d.nodes[index].boundingBox
	return box.Union(boundingBox).SurfaceArea() - box.SurfaceArea()
}

// refit walks from a changed leaf to the root, recomputing each
// ancestor's box as the union of its children and attempting a local
// rotation at each level.
func (d *Dynamic[T]) refit(index int) {
	parent := d.nodes[index].parent

	for parent != none {
		n := &d.nodes[parent]
		n.boundingBox = d.nodes[n.leftChild].boundingBox.Union(d.nodes[n.rightChild].boundingBox)

		d.rotate(parent)

		parent = d.nodes[parent].parent
	}
}

// rotate evaluates the four single rotations that swap one grandchild
// with its uncle and applies the one that shrinks the summed surface
// area of the node's two children the most, if any improvement exists.
// The node's own box is untouched: the set of leaves below it does not
// change.
func (d *Dynamic[T]) rotate(index int) {
	left := d.nodes[index].leftChild
	right := d.nodes[index].rightChild

	base := d.nodes[left].boundingBox.SurfaceArea() + d.nodes[right].boundingBox.SurfaceArea()

	bestImprovement := float32(0)
	bestGrandchild := none
	bestUncle := none

	consider := func(grandchild, keptSibling, uncle int) {
		cost := d.nodes[keptSibling].boundingBox.Union(d.nodes[uncle].boundingBox).SurfaceArea() +
			d.nodes[grandchild].boundingBox.SurfaceArea()

		if improvement := cost - base; improvement < bestImprovement {
			bestImprovement = improvement
			bestGrandchild = grandchild
			bestUncle = uncle
		}
	}

	if !d.nodes[left].leaf {
		ll := d.nodes[left].leftChild
		lr := d.nodes[left].rightChild
		consider(ll, lr, right)
		consider(lr, ll, right)
	}

	if !d.nodes[right].leaf {
		rl := d.nodes[right].leftChild
		rr := d.nodes[right].rightChild
		consider(rl, rr, left)
		consider(rr, rl, left)
	}

	if bestGrandchild == none {
		return
	}

	d.swap(index, bestGrandchild, bestUncle)
}

// swap exchanges a grandchild with its uncle, then recomputes the box
// of the internal child the uncle moved under.
func (d *Dynamic[T]) swap(index, grandchild, uncle int) {
	middle := d.nodes[grandchild].parent

	if d.nodes[middle].leftChild == grandchild {
		d.nodes[middle].leftChild = uncle
	} else {
		d.nodes[middle].rightChild = uncle
	}
	d.nodes[uncle].parent = middle

	if d.nodes[index].leftChild == uncle {
		d.nodes[index].leftChild = grandchild
	} else {
		d.nodes[index].rightChild = grandchild
	}
	d.nodes[grandchild].parent = index

	m := &d.nodes[middle]
	m.boundingBox = d.nodes[m.leftChild].boundingBox.Union(d.nodes[m.rightChild].boundingBox)
}

func (d *Dynamic[T]) siblingOf(parent, child int) int {
	if d.nodes[parent].leftChild == child {
		return d.nodes[parent].rightChild
	}
	return d.nodes[parent].leftChild
}

func (d *Dynamic[T]) alloc(n node[T]) int {
	d.count++

	if d.freeHead != none {
		index := d.freeHead
		d.freeHead = d.nodes[index].rightChild
		d.nodes[index] = n
		return index
	}

	d.nodes = append(d.nodes, n)
	return len(d.nodes) - 1
}

// free recycles a slot. The right-child field doubles as the free-list
// link; data is zeroed so freed slots don't pin references.
func (d *Dynamic[T]) free(index int) {
	var zero T
	d.nodes[index] = node[T]{data: zero, parent: none, rightChild: d.freeHead}
	d.freeHead = index
	d.count--
}

func (d *Dynamic[T]) mustBeLeaf(index int, op string) {
	if index < 0 || index >= len(d.nodes) || !d.nodes[index].leaf {
		panic(fmt.Sprintf("bvh: %s on index %d which is not a live leaf", op, index))
	}
}

type siblingCandidate struct {
	priority    float32
	index       int
	parentDelta float32
}

// siblingHeap is a min-heap keyed by the lower-bound cost.
type siblingHeap []siblingCandidate

func (h siblingHeap) Len() int           { return len(h) }
func (h siblingHeap) Less(i, j int) bool { return h[i].priority < h[j].priority }
func (h siblingHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *siblingHeap) Push(x any)        { *h = append(*h, x.(siblingCandidate)) }
func (h *siblingHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
