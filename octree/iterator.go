package octree

import "github.com/pkg/errors"

// FaceIterator walks the indexed faces depth first. Any insertion, deletion or reset of the tree invalidates
// it: Next then returns false and Err reports ErrNodeNotFound.
type FaceIterator struct {
	tree    *Octree
	version uint64
	stack   []NodeID
	cur     NodeID
	index   int
	err     error
}

// Faces returns an iterator over every indexed face.
func (o *Octree) Faces() *FaceIterator {
	it := &FaceIterator{tree: o, version: o.version, index: -1}
	if o.root.IsValid() {
		it.stack = []NodeID{o.root}
	}
	return it
}

// Next advances to the next face and reports whether there is one.
func (it *FaceIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.version != it.tree.version {
		it.err = errors.Wrapf(ErrNodeNotFound, "octree changed while iterating faces at node %s", it.cur)
		it.cur = NoNode
		return false
	}
	if it.cur.IsValid() {
		if it.index+1 < len(it.tree.node(it.cur).faces) {
			it.index++
			return true
		}
	}
	for len(it.stack) > 0 {
		id := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		n := it.tree.node(id)
		for i := len(n.children) - 1; i >= 0; i-- {
			it.stack = append(it.stack, n.children[i])
		}
		if len(n.faces) > 0 {
			it.cur = id
			it.index = 0
			return true
		}
	}
	it.cur = NoNode
	return false
}

// Face returns the current face, or nil when Next did not report one.
func (it *FaceIterator) Face() Face {
	if !it.valid() {
		return nil
	}
	return it.tree.node(it.cur).faces[it.index]
}

// Depth returns the depth of the node holding the current face.
func (it *FaceIterator) Depth() int {
	if !it.valid() {
		return 0
	}
	return it.tree.node(it.cur).depth
}

func (it *FaceIterator) valid() bool {
	return it.err == nil && it.cur.IsValid() && it.version == it.tree.version
}

// Node returns the ID of the node holding the current face.
func (it *FaceIterator) Node() NodeID {
	return it.cur
}

// Err returns the error that stopped iteration, if any.
func (it *FaceIterator) Err() error {
	return it.err
}

// NodeIterator walks the nodes breadth first. Like FaceIterator it is invalidated by any change to the tree.
type NodeIterator struct {
	tree    *Octree
	version uint64
	queue   []NodeID
	cur     NodeID
	err     error
}

// Nodes returns an iterator over every node.
func (o *Octree) Nodes() *NodeIterator {
	it := &NodeIterator{tree: o, version: o.version}
	if o.root.IsValid() {
		it.queue = []NodeID{o.root}
	}
	return it
}

// Next advances to the next node and reports whether there is one.
func (it *NodeIterator) Next() bool {
	if it.err != nil || len(it.queue) == 0 {
		it.cur = NoNode
		return false
	}
	id := it.queue[0]
	it.queue = it.queue[1:]
	if it.version != it.tree.version || !it.tree.isLive(id) {
		it.err = errors.Wrapf(ErrNodeNotFound, "octree changed while iterating nodes at node %s", id)
		it.cur = NoNode
		return false
	}
	it.queue = append(it.queue, it.tree.node(id).children...)
	it.cur = id
	return true
}

// Node returns a snapshot of the current node, or the zero Node when Next did not report one.
func (it *NodeIterator) Node() Node {
	if it.err != nil || !it.cur.IsValid() || it.version != it.tree.version {
		return Node{}
	}
	return it.tree.snapshot(it.cur)
}

// Err returns the error that stopped iteration, if any.
func (it *NodeIterator) Err() error {
	return it.err
}
