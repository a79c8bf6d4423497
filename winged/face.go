package winged

import (
	"github.com/pkg/errors"

	"go.viam.com/sculpt/idmap"
	"go.viam.com/sculpt/octree"
	"go.viam.com/sculpt/spatialmath"
)

// maxLoopLength bounds adjacency walks so that corrupt topology is reported instead of looping forever.
const maxLoopLength = 1 << 16

// Face is a polygon bounded by a loop of edges. It also records the octree node it is stored at.
type Face struct {
	id   idmap.ID
	edge *Edge
	node octree.NodeID
}

// ID returns the face's ID.
func (f *Face) ID() idmap.ID {
	return f.id
}

// Edge returns an edge of the face's loop.
func (f *Face) Edge() *Edge {
	return f.edge
}

// SetEdge sets the edge the face's loop starts at.
func (f *Face) SetEdge(e *Edge) {
	f.edge = e
}

// OctreeNode returns the node the face is indexed at, or octree.NoNode.
func (f *Face) OctreeNode() octree.NodeID {
	return f.node
}

// SetOctreeNode is maintained by the octree.
func (f *Face) SetOctreeNode(id octree.NodeID) {
	f.node = id
}

// Edges returns the loop of f starting at its edge.
func (f *Face) Edges() ([]*Edge, error) {
	if f.edge == nil {
		return nil, errors.Wrapf(ErrMalformedFace, "face %s has no edge", f.id)
	}
	edges := []*Edge{}
	for e := f.edge; ; {
		if !e.IsLeftFace(f) && !e.IsRightFace(f) {
			return nil, errors.Wrapf(ErrMalformedFace, "edge %s of face %s does not border it", e.id, f.id)
		}
		edges = append(edges, e)
		e = e.Successor(f)
		switch {
		case e == nil:
			return nil, errors.Wrapf(ErrMalformedFace, "loop of face %s is open", f.id)
		case e == f.edge:
			return edges, nil
		case len(edges) > maxLoopLength:
			return nil, errors.Wrapf(ErrMalformedFace, "loop of face %s does not close", f.id)
		}
	}
}

// Vertices returns the corners of f in loop order.
func (f *Face) Vertices() ([]*Vertex, error) {
	edges, err := f.Edges()
	if err != nil {
		return nil, err
	}
	vertices := make([]*Vertex, 0, len(edges))
	for _, e := range edges {
		vertices = append(vertices, e.FirstVertex(f))
	}
	return vertices, nil
}

// Triangle returns the triangle spanned by the first three corners of f.
func (f *Face) Triangle() (*spatialmath.Triangle, error) {
	e := f.edge
	if e == nil {
		return nil, errors.Wrapf(ErrMalformedFace, "face %s has no edge", f.id)
	}
	next := e.Successor(f)
	if next == nil {
		return nil, errors.Wrapf(ErrMalformedFace, "loop of face %s is open", f.id)
	}
	v1, v2, v3 := e.FirstVertex(f), e.SecondVertex(f), next.SecondVertex(f)
	if v1 == nil || v2 == nil || v3 == nil {
		return nil, errors.Wrapf(ErrMalformedFace, "face %s is missing a vertex", f.id)
	}
	return spatialmath.NewTriangle(v1.position, v2.position, v3.position), nil
}

// NumEdges returns the length of the face's loop.
func (f *Face) NumEdges() (int, error) {
	edges, err := f.Edges()
	return len(edges), err
}
