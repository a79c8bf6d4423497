package octree

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/sculpt/spatialmath"
)

// NodeID addresses a node of an octree. IDs are never reused: a slot that is freed and allocated again
// gets a new generation, so a stale ID never refers to a different node. The zero value is NoNode.
type NodeID struct {
	index      uint32
	generation uint32
}

// NoNode is the ID of no node.
var NoNode = NodeID{}

// IsValid reports whether the ID could refer to a node.
func (id NodeID) IsValid() bool {
	return id.generation != 0
}

func (id NodeID) String() string {
	if !id.IsValid() {
		return "none"
	}
	return fmt.Sprintf("%d.%d", id.index, id.generation)
}

// Node is a snapshot of an octree node.
type Node struct {
	ID         NodeID
	Parent     NodeID
	Center     r3.Vector
	Width      float64
	LooseWidth float64
	Depth      int
	NumFaces   int
	Children   []NodeID
}

// node is an arena slot. Children are either absent or exactly eight, ordered by octant with x as the most
// significant axis: index 4 is set for +x, 2 for +y and 1 for +z.
type node struct {
	live       bool
	generation uint32
	center     r3.Vector
	width      float64
	depth      int
	parent     NodeID
	children   []NodeID
	faces      []Face
}

func (n *node) bounds() spatialmath.AABB {
	return spatialmath.NewCubeAABB(n.center, n.width)
}

func (n *node) isEmpty() bool {
	return len(n.faces) == 0 && len(n.children) == 0
}

// contains reports whether a face may be stored at or below n.
func (n *node) contains(f faceToInsert) bool {
	return n.bounds().Contains(f.center) && f.width <= n.width
}

// octant returns the child slot of n whose octant holds pt.
func (n *node) octant(pt r3.Vector) int {
	index := 0
	if pt.X >= n.center.X {
		index += 4
	}
	if pt.Y >= n.center.Y {
		index += 2
	}
	if pt.Z >= n.center.Z {
		index++
	}
	return index
}

// octantOffset returns the direction from a parent's center to the center of child i.
func octantOffset(i int) r3.Vector {
	sign := func(bit int) float64 {
		if i&bit != 0 {
			return 1
		}
		return -1
	}
	return r3.Vector{X: sign(4), Y: sign(2), Z: sign(1)}
}

func (o *Octree) alloc(center r3.Vector, width float64, depth int, parent NodeID) NodeID {
	var index uint32
	if len(o.free) > 0 {
		index = o.free[len(o.free)-1]
		o.free = o.free[:len(o.free)-1]
	} else {
		index = uint32(len(o.nodes))
		o.nodes = append(o.nodes, node{})
	}
	n := &o.nodes[index]
	n.generation++
	n.live = true
	n.center = center
	n.width = width
	n.depth = depth
	n.parent = parent
	n.children = nil
	n.faces = nil
	return NodeID{index: index, generation: n.generation}
}

func (o *Octree) release(id NodeID) {
	n := &o.nodes[id.index]
	n.live = false
	n.children = nil
	n.faces = nil
	o.free = append(o.free, id.index)
}

// releaseSubtree frees id and everything below it. The subtree must hold no faces.
func (o *Octree) releaseSubtree(id NodeID) {
	stack := []NodeID{id}
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := o.node(next)
		stack = append(stack, n.children...)
		o.release(next)
	}
}

// node returns the slot of a live ID. Callers must not hold the pointer across alloc.
func (o *Octree) node(id NodeID) *node {
	return &o.nodes[id.index]
}

func (o *Octree) isLive(id NodeID) bool {
	if !id.IsValid() || int(id.index) >= len(o.nodes) {
		return false
	}
	n := &o.nodes[id.index]
	return n.live && n.generation == id.generation
}

// makeChildren gives id its eight children. If keep is valid it is installed at slot keepIndex instead of a
// fresh node.
func (o *Octree) makeChildren(id NodeID, keep NodeID, keepIndex int) {
	n := o.node(id)
	center, q, childWidth, childDepth := n.center, n.width/4, n.width/2, n.depth+1

	children := make([]NodeID, 8)
	for i := range children {
		if keep.IsValid() && i == keepIndex {
			children[i] = keep
			o.node(keep).parent = id
			continue
		}
		children[i] = o.alloc(center.Add(octantOffset(i).Mul(q)), childWidth, childDepth, id)
	}
	o.node(id).children = children
}

func (o *Octree) snapshot(id NodeID) Node {
	n := o.node(id)
	children := make([]NodeID, len(n.children))
	copy(children, n.children)
	return Node{
		ID:         id,
		Parent:     n.parent,
		Center:     n.center,
		Width:      n.width,
		LooseWidth: n.width * o.cfg.LooseFactor,
		Depth:      n.depth,
		NumFaces:   len(n.faces),
		Children:   children,
	}
}

// HasChildren reports whether the node has been split.
func (n Node) HasChildren() bool {
	return len(n.Children) > 0
}
