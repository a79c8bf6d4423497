package winged

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/sculpt/octree"
	"go.viam.com/sculpt/spatialmath"
)

type vertexPair struct {
	a, b int
}

func newVertexPair(a, b int) vertexPair {
	if a > b {
		a, b = b, a
	}
	return vertexPair{a, b}
}

// FromIndexed builds a mesh from vertex positions and triangles given as counter-clockwise index triples.
// An edge used by more than two faces, or twice in the same direction, is split into siblings.
func FromIndexed(cfg octree.Config, logger golog.Logger, positions []r3.Vector, triangles [][3]int) (*Mesh, error) {
	m, err := NewMesh(cfg, logger)
	if err != nil {
		return nil, err
	}
	vertices := make([]*Vertex, len(positions))
	for i, p := range positions {
		if vertices[i], err = m.AddVertex(p); err != nil {
			return nil, err
		}
	}

	edges := map[vertexPair][]*Edge{}
	faces := make([]*Face, 0, len(triangles))
	for i, t := range triangles {
		for _, index := range t {
			if index < 0 || index >= len(vertices) {
				return nil, errors.Wrapf(ErrMalformedFace, "triangle %d refers to vertex %d of %d", i, index, len(vertices))
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
			return nil, errors.Wrapf(ErrMalformedFace, "triangle %d repeats a vertex: %v", i, t)
		}

		f, err := m.AddFaceUnindexed(nil)
		if err != nil {
			return nil, err
		}
		var loop [3]*Edge
		for j := range loop {
			a, b := t[j], t[(j+1)%3]
			if loop[j], err = m.edgeFor(edges, vertices, a, b, f); err != nil {
				return nil, err
			}
		}
		for j, e := range loop {
			// the face was just attached to e, so these cannot fail
			_ = e.SetSuccessor(f, loop[(j+1)%3])
			_ = e.SetPredecessor(f, loop[(j+2)%3])
			if v := e.FirstVertex(f); v.edge == nil {
				v.edge = e
			}
		}
		f.edge = loop[0]
		faces = append(faces, f)
	}

	for _, f := range faces {
		err = multierr.Append(err, m.IndexFace(f))
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot index mesh")
	}
	m.logger.Debugw("built mesh", "vertices", m.NumVertices(), "edges", m.NumEdges(), "faces", m.NumFaces())
	return m, nil
}

// edgeFor returns the edge that f walks from vertex a to vertex b, attaching f to it.
func (m *Mesh) edgeFor(edges map[vertexPair][]*Edge, vertices []*Vertex, a, b int, f *Face) (*Edge, error) {
	key := newVertexPair(a, b)
	siblings := edges[key]
	for _, e := range siblings {
		if e.vertex1 == vertices[b] && e.vertex2 == vertices[a] && e.rightFace == nil {
			e.rightFace = f
			return e, nil
		}
	}
	e, err := m.AddEdge(vertices[a], vertices[b])
	if err != nil {
		return nil, err
	}
	e.leftFace = f
	if n := len(siblings); n > 0 {
		last := siblings[n-1]
		last.nextSibling = e
		e.previousSibling = last
	}
	edges[key] = append(siblings, e)
	return e, nil
}

// FromMesh builds a mesh from a triangle soup, welding corners at identical positions.
func FromMesh(cfg octree.Config, logger golog.Logger, soup *spatialmath.Mesh) (*Mesh, error) {
	index := map[r3.Vector]int{}
	positions := []r3.Vector{}
	triangles := make([][3]int, 0, len(soup.Triangles()))
	for _, tri := range soup.Triangles() {
		var t [3]int
		for i, p := range tri.Points() {
			j, ok := index[p]
			if !ok {
				j = len(positions)
				index[p] = j
				positions = append(positions, p)
			}
			t[i] = j
		}
		triangles = append(triangles, t)
	}
	return FromIndexed(cfg, logger, positions, triangles)
}
