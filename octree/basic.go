package octree

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"go.viam.com/sculpt/idmap"
	"go.viam.com/sculpt/spatialmath"
)

// maxGrowthSteps bounds how often the root may double while enclosing a single face. Widths overflow long
// before this is reached.
const maxGrowthSteps = 1100

// Octree indexes mesh faces by location. It owns its nodes and the ID map of the faces it holds; the faces
// themselves belong to the mesh. An Octree is not safe for concurrent use.
type Octree struct {
	cfg    Config
	logger golog.Logger

	nodes []node
	free  []uint32
	root  NodeID
	faces *idmap.Map[Face]

	// version changes with every insertion, deletion and reset so iterators can detect them.
	version uint64
}

// faceToInsert carries the placement data of a face derived from its triangle.
type faceToInsert struct {
	face   Face
	center r3.Vector
	width  float64
	bounds spatialmath.AABB
}

func newFaceToInsert(f Face, tri *spatialmath.Triangle) (faceToInsert, error) {
	if tri == nil {
		return faceToInsert{}, errors.Wrapf(ErrMalformedContainment, "face %s has no triangle", f.ID())
	}
	toInsert := faceToInsert{
		face:   f,
		center: tri.Centroid(),
		width:  tri.MaxExtent(),
		bounds: tri.Bounds(),
	}
	if !isFinite(toInsert.center) || !isFinite(toInsert.bounds.Min) || !isFinite(toInsert.bounds.Max) {
		return faceToInsert{}, errors.Wrapf(ErrMalformedContainment, "face %s has non-finite geometry %v", f.ID(), tri.Points())
	}
	return toInsert, nil
}

func isFinite(v r3.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// New creates an empty octree.
func New(cfg Config, logger golog.Logger) (*Octree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid octree config")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Octree{
		cfg:    cfg,
		logger: logger,
		faces:  idmap.New[Face](),
	}, nil
}

// Config returns the configuration the octree was created with.
func (o *Octree) Config() Config {
	return o.cfg
}

// InsertFace indexes f under the geometry of tri and returns the node it was stored at. The root is
// created or grown as needed.
func (o *Octree) InsertFace(f Face, tri *spatialmath.Triangle) (NodeID, error) {
	if o.faces.Has(f.ID()) {
		return NoNode, errors.Wrapf(ErrDuplicateFace, "face %s", f.ID())
	}
	toInsert, err := newFaceToInsert(f, tri)
	if err != nil {
		return NoNode, err
	}
	return o.insert(toInsert)
}

func (o *Octree) insert(f faceToInsert) (NodeID, error) {
	o.version++
	if !o.root.IsValid() {
		width := math.Max(f.width, o.cfg.MinNodeWidth)
		o.root = o.alloc(f.bounds.Center(), width, 0, NoNode)
		o.logger.Debugw("created octree root", "center", f.bounds.Center(), "width", width)
	}

	for steps := 0; !o.node(o.root).bounds().ContainsAABB(f.bounds); steps++ {
		if steps == maxGrowthSteps {
			o.settle()
			return NoNode, errors.Wrapf(ErrMalformedContainment, "root cannot grow to enclose face %s", f.face.ID())
		}
		o.makeParent(f)
	}

	id, err := o.insertBelow(o.root, f)
	if err != nil {
		o.settle()
		return NoNode, err
	}
	if err := o.faces.Insert(f.face); err != nil {
		o.removeFromNode(id, f.face)
		o.settle()
		return NoNode, err
	}
	f.face.SetOctreeNode(id)
	return id, nil
}

// insertBelow descends from start until reaching the node whose size matches the face. Children are picked
// by the octant of the face's centroid, so only start is checked for containment.
func (o *Octree) insertBelow(start NodeID, f faceToInsert) (NodeID, error) {
	if n := o.node(start); !n.contains(f) {
		return NoNode, errors.Wrapf(ErrMalformedContainment,
			"face %s with center %v and width %v does not fit node %s (center %v, width %v)",
			f.face.ID(), f.center, f.width, start, n.center, n.width)
	}
	id := start
	for {
		n := o.node(id)
		if f.width > n.width*o.cfg.RelativeMinFaceSize || n.width/2 < o.cfg.MinNodeWidth {
			n.faces = append(n.faces, f.face)
			return id, nil
		}
		if len(n.children) == 0 {
			o.makeChildren(id, NoNode, 0)
			n = o.node(id)
		}
		id = n.children[n.octant(f.center)]
	}
}

// makeParent replaces the root with a parent of twice its width, grown towards the face's centroid.
func (o *Octree) makeParent(f faceToInsert) {
	root := o.node(o.root)
	rootCenter := root.center
	halfWidth := root.width / 2
	width := root.width * 2
	depth := root.depth - 1

	var center r3.Vector
	index := 0
	if rootCenter.X < f.center.X {
		center.X = rootCenter.X + halfWidth
	} else {
		center.X = rootCenter.X - halfWidth
		index += 4
	}
	if rootCenter.Y < f.center.Y {
		center.Y = rootCenter.Y + halfWidth
	} else {
		center.Y = rootCenter.Y - halfWidth
		index += 2
	}
	if rootCenter.Z < f.center.Z {
		center.Z = rootCenter.Z + halfWidth
	} else {
		center.Z = rootCenter.Z - halfWidth
		index++
	}

	oldRoot := o.root
	o.root = o.alloc(center, width, depth, NoNode)
	o.makeChildren(o.root, oldRoot, index)
	o.logger.Debugw("grew octree root", "center", center, "width", width, "depth", depth)
}

// DeleteFace removes f from the index. Nodes left empty are collapsed and the root shrinks if it can.
func (o *Octree) DeleteFace(f Face) error {
	id, err := o.unindex(f)
	if err != nil {
		return err
	}
	o.collapse(id)
	o.settle()
	return nil
}

// unindex detaches f from its node and returns that node, leaving the node in place.
func (o *Octree) unindex(f Face) (NodeID, error) {
	indexed, ok := o.faces.Element(f.ID())
	if !ok {
		return NoNode, errors.Wrapf(ErrFaceNotFound, "face %s", f.ID())
	}
	id := indexed.OctreeNode()
	if !o.isLive(id) {
		return NoNode, errors.Wrapf(ErrFaceNotFound, "face %s refers to missing node %s", f.ID(), id)
	}
	if !o.removeFromNode(id, indexed) {
		return NoNode, errors.Wrapf(ErrFaceNotFound, "face %s is not stored at its node %s", f.ID(), id)
	}
	o.faces.Erase(indexed.ID())
	indexed.SetOctreeNode(NoNode)
	o.version++
	return id, nil
}

// collapse releases id and its emptied ancestors' children if id has become empty.
func (o *Octree) collapse(id NodeID) {
	if !o.isLive(id) {
		return
	}
	if n := o.node(id); n.isEmpty() && n.parent.IsValid() {
		o.childEmptyNotification(n.parent)
	}
}

func (o *Octree) removeFromNode(id NodeID, f Face) bool {
	n := o.node(id)
	for i, stored := range n.faces {
		if stored.ID() == f.ID() {
			last := len(n.faces) - 1
			n.faces[i] = n.faces[last]
			n.faces[last] = nil
			n.faces = n.faces[:last]
			return true
		}
	}
	return false
}

// childEmptyNotification clears the children of id once all of them are empty, and repeats upwards for as
// long as that leaves nodes empty.
func (o *Octree) childEmptyNotification(id NodeID) {
	for id.IsValid() {
		n := o.node(id)
		for _, c := range n.children {
			if !o.node(c).isEmpty() {
				return
			}
		}
		for _, c := range n.children {
			o.release(c)
		}
		n.children = nil
		if !n.isEmpty() {
			return
		}
		id = n.parent
	}
}

// settle discards an empty root or otherwise shrinks it.
func (o *Octree) settle() {
	if !o.root.IsValid() {
		return
	}
	if o.node(o.root).isEmpty() {
		o.release(o.root)
		o.root = NoNode
		o.logger.Debug("discarded empty octree root")
		return
	}
	o.ShrinkRoot()
}

// ShrinkRoot replaces the root with its only non-empty child for as long as the root holds no faces itself.
func (o *Octree) ShrinkRoot() {
	for o.root.IsValid() {
		root := o.node(o.root)
		if len(root.faces) != 0 || len(root.children) == 0 {
			return
		}
		single := NoNode
		for _, c := range root.children {
			if o.node(c).isEmpty() {
				continue
			}
			if single.IsValid() {
				return
			}
			single = c
		}
		if !single.IsValid() {
			return
		}
		for _, c := range root.children {
			if c != single {
				o.releaseSubtree(c)
			}
		}
		o.release(o.root)
		o.root = single
		o.node(single).parent = NoNode
		o.logger.Debugw("shrank octree root", "center", o.node(single).center, "width", o.node(single).width)
	}
}

// RealignFace moves an indexed face to the node matching its new geometry. It reports whether the face
// ended up at the node it was at before. If the new geometry cannot be placed the face is no longer indexed.
func (o *Octree) RealignFace(f Face, tri *spatialmath.Triangle) (NodeID, bool, error) {
	indexed, ok := o.faces.Element(f.ID())
	if !ok {
		return NoNode, false, errors.Wrapf(ErrFaceNotFound, "face %s", f.ID())
	}
	toInsert, err := newFaceToInsert(indexed, tri)
	if err != nil {
		return NoNode, false, err
	}
	former, err := o.unindex(indexed)
	if err != nil {
		return NoNode, false, err
	}
	// the former node is collapsed only after reinsertion, so a face that stays put keeps its node
	id, err := o.insert(toInsert)
	o.collapse(former)
	o.settle()
	if err != nil {
		return NoNode, false, err
	}
	return id, id == former, nil
}

// HasFace reports whether a face with the given ID is indexed.
func (o *Octree) HasFace(id idmap.ID) bool {
	return o.faces.Has(id)
}

// Face returns the indexed face with the given ID.
func (o *Octree) Face(id idmap.ID) (Face, bool) {
	return o.faces.Element(id)
}

// NumFaces returns the number of indexed faces.
func (o *Octree) NumFaces() int {
	return o.faces.Len()
}

// IsEmpty reports whether the tree has no root.
func (o *Octree) IsEmpty() bool {
	return !o.root.IsValid()
}

// Root returns the root node.
func (o *Octree) Root() (Node, error) {
	if !o.root.IsValid() {
		return Node{}, ErrEmptyTree
	}
	return o.snapshot(o.root), nil
}

// Node returns the node with the given ID.
func (o *Octree) Node(id NodeID) (Node, error) {
	if !o.root.IsValid() {
		return Node{}, ErrEmptyTree
	}
	if !o.isLive(id) {
		return Node{}, errors.Wrapf(ErrNodeNotFound, "node %s", id)
	}
	return o.snapshot(id), nil
}

// InitRoot creates the root of an empty tree with the given center and width.
func (o *Octree) InitRoot(center r3.Vector, width float64) error {
	if o.root.IsValid() {
		return ErrRootExists
	}
	if !(width >= o.cfg.MinNodeWidth) || math.IsInf(width, 0) || !isFinite(center) {
		return errors.Errorf("invalid octree root (center %v, width %v)", center, width)
	}
	o.root = o.alloc(center, width, 0, NoNode)
	o.version++
	return nil
}

// Reset discards every node and forgets every face. Node slots keep their generations, so IDs handed out
// before the reset stay invalid.
func (o *Octree) Reset() {
	for _, f := range o.faces.All() {
		f.SetOctreeNode(NoNode)
	}
	o.faces.Reset()
	o.free = o.free[:0]
	for i := len(o.nodes) - 1; i >= 0; i-- {
		n := &o.nodes[i]
		n.live = false
		n.children = nil
		n.faces = nil
		o.free = append(o.free, uint32(i))
	}
	o.root = NoNode
	o.version++
}
