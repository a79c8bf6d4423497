// Package winged implements a winged-edge polygon mesh whose faces are indexed by an octree.
package winged

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"go.viam.com/sculpt/idmap"
	"go.viam.com/sculpt/octree"
	"go.viam.com/sculpt/spatialmath"
	"go.viam.com/sculpt/utils"
)

// Mesh owns vertices, edges and faces and keeps its faces indexed in an octree. Topology is edited through the
// element setters; the mesh only tracks membership, the index and whether render data needs rebuilding.
type Mesh struct {
	logger   golog.Logger
	vertices *idmap.Map[*Vertex]
	edges    *idmap.Map[*Edge]
	faces    *idmap.Map[*Face]
	tree     *octree.Octree
	dirty    bool

	// incident holds the edges of the mesh touching each vertex, by vertex ID. Unlike the fan around a
	// vertex it also reaches faces across bowtie corners and sibling edges.
	incident map[idmap.ID]*idmap.Map[*Edge]
}

// NewMesh returns an empty mesh with an octree built from cfg.
func NewMesh(cfg octree.Config, logger golog.Logger) (*Mesh, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	tree, err := octree.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Mesh{
		logger:   logger,
		vertices: idmap.New[*Vertex](),
		edges:    idmap.New[*Edge](),
		faces:    idmap.New[*Face](),
		tree:     tree,
		incident: map[idmap.ID]*idmap.Map[*Edge]{},
	}, nil
}

// Octree returns the index over the mesh's faces.
func (m *Mesh) Octree() *octree.Octree {
	return m.tree
}

// AddVertex adds a vertex at pos.
func (m *Mesh) AddVertex(pos r3.Vector) (*Vertex, error) {
	v := &Vertex{id: idmap.NewID(), position: pos}
	if err := m.vertices.Insert(v); err != nil {
		return nil, errors.Wrap(err, "cannot add vertex")
	}
	m.dirty = true
	return v, nil
}

// AddEdge adds an edge from v1 to v2 with no faces or neighbors. Both vertices must belong to the mesh.
func (m *Mesh) AddEdge(v1, v2 *Vertex) (*Edge, error) {
	for _, v := range []*Vertex{v1, v2} {
		if v == nil || !m.vertices.Has(v.id) {
			return nil, errors.Wrap(ErrUnknownElement, "edge vertex is not part of the mesh")
		}
	}
	e := &Edge{id: idmap.NewID(), vertex1: v1, vertex2: v2}
	if err := m.edges.Insert(e); err != nil {
		return nil, errors.Wrap(err, "cannot add edge")
	}
	m.link(e)
	m.dirty = true
	return e, nil
}

// AddFaceUnindexed adds a face whose loop starts at e without placing it in the octree. Call IndexFace once
// the loop is linked.
func (m *Mesh) AddFaceUnindexed(e *Edge) (*Face, error) {
	f := &Face{id: idmap.NewID(), edge: e}
	if err := m.faces.Insert(f); err != nil {
		return nil, errors.Wrap(err, "cannot add face")
	}
	m.dirty = true
	return f, nil
}

// AddFace adds a face whose loop starts at e and indexes it under the loop's geometry.
func (m *Mesh) AddFace(e *Edge) (*Face, error) {
	f, err := m.AddFaceUnindexed(e)
	if err != nil {
		return nil, err
	}
	if err := m.IndexFace(f); err != nil {
		m.faces.Erase(f.id)
		return nil, err
	}
	return f, nil
}

// link records e as incident to both of its vertices.
func (m *Mesh) link(e *Edge) {
	for _, v := range []*Vertex{e.vertex1, e.vertex2} {
		edges, ok := m.incident[v.id]
		if !ok {
			edges = idmap.New[*Edge]()
			m.incident[v.id] = edges
		}
		// an edge from a vertex to itself is linked once
		_ = edges.Insert(e)
	}
}

func (m *Mesh) unlink(e *Edge) {
	for _, v := range []*Vertex{e.vertex1, e.vertex2} {
		edges, ok := m.incident[v.id]
		if !ok {
			continue
		}
		edges.Erase(e.id)
		if edges.Len() == 0 {
			delete(m.incident, v.id)
		}
	}
}

// IndexFace places a face of the mesh in the octree under its current geometry.
func (m *Mesh) IndexFace(f *Face) error {
	if !m.faces.Has(f.id) {
		return errors.Wrapf(ErrUnknownElement, "face %s", f.id)
	}
	tri, err := f.Triangle()
	if err != nil {
		return err
	}
	if _, err := m.tree.InsertFace(f, tri); err != nil {
		return err
	}
	m.dirty = true
	return nil
}

// RestoreVertex adds a previously deleted vertex back with its ID and links.
func (m *Mesh) RestoreVertex(v *Vertex) error {
	if err := m.vertices.Insert(v); err != nil {
		return errors.Wrapf(err, "cannot restore vertex %s", v.id)
	}
	m.dirty = true
	return nil
}

// RestoreEdge adds a previously deleted edge back with its ID and links.
func (m *Mesh) RestoreEdge(e *Edge) error {
	if err := m.edges.Insert(e); err != nil {
		return errors.Wrapf(err, "cannot restore edge %s", e.id)
	}
	m.link(e)
	m.dirty = true
	return nil
}

// RestoreFace adds a previously deleted face back and indexes it under tri. The loop of the face may still be
// unlinked, which is why its geometry is passed in.
func (m *Mesh) RestoreFace(f *Face, tri *spatialmath.Triangle) error {
	if err := m.faces.Insert(f); err != nil {
		return errors.Wrapf(err, "cannot restore face %s", f.id)
	}
	if _, err := m.tree.InsertFace(f, tri); err != nil {
		m.faces.Erase(f.id)
		return err
	}
	m.dirty = true
	return nil
}

// DeleteVertex removes v from the mesh.
func (m *Mesh) DeleteVertex(v *Vertex) error {
	if !m.vertices.Erase(v.id) {
		return errors.Wrapf(ErrUnknownElement, "vertex %s", v.id)
	}
	m.dirty = true
	return nil
}

// DeleteEdge removes e from the mesh together with its right face, which is returned if there was one.
func (m *Mesh) DeleteEdge(e *Edge) (*Face, error) {
	if !m.edges.Has(e.id) {
		return nil, errors.Wrapf(ErrUnknownElement, "edge %s", e.id)
	}
	right := e.rightFace
	if right != nil {
		if err := m.DeleteFace(right); err != nil {
			return nil, errors.Wrapf(err, "cannot delete right face of edge %s", e.id)
		}
	}
	m.edges.Erase(e.id)
	m.unlink(e)
	m.dirty = true
	return right, nil
}

// DeleteFace removes f from the mesh and the octree.
func (m *Mesh) DeleteFace(f *Face) error {
	if !m.faces.Has(f.id) {
		return errors.Wrapf(ErrUnknownElement, "face %s", f.id)
	}
	if m.tree.HasFace(f.id) {
		if err := m.tree.DeleteFace(f); err != nil {
			return err
		}
	}
	m.faces.Erase(f.id)
	m.dirty = true
	return nil
}

// MoveVertex moves v to pos and realigns every face touching it.
func (m *Mesh) MoveVertex(v *Vertex, pos r3.Vector) error {
	faces, err := m.VertexFaces(v)
	if err != nil {
		return err
	}
	v.position = pos
	m.dirty = true
	for _, f := range faces {
		if _, err := m.RealignFace(f); err != nil {
			return err
		}
	}
	return nil
}

// RealignFace moves f to the octree node matching its current geometry and reports whether it stayed put.
func (m *Mesh) RealignFace(f *Face) (bool, error) {
	if !m.faces.Has(f.id) {
		return false, errors.Wrapf(ErrUnknownElement, "face %s", f.id)
	}
	tri, err := f.Triangle()
	if err != nil {
		return false, err
	}
	_, same, err := m.tree.RealignFace(f, tri)
	return same, err
}

// VertexEdges returns every edge of the mesh touching v, across all fans and sibling edges.
func (m *Mesh) VertexEdges(v *Vertex) ([]*Edge, error) {
	if !m.vertices.Has(v.id) {
		return nil, errors.Wrapf(ErrUnknownElement, "vertex %s", v.id)
	}
	edges, ok := m.incident[v.id]
	if !ok {
		return nil, nil
	}
	return edges.All(), nil
}

// VertexFaces returns every face of the mesh touching v without repetition, across all fans and sibling
// edges.
func (m *Mesh) VertexFaces(v *Vertex) ([]*Face, error) {
	edges, err := m.VertexEdges(v)
	if err != nil {
		return nil, err
	}
	faces := []*Face{}
	seen := map[*Face]bool{}
	for _, e := range edges {
		for _, f := range []*Face{e.leftFace, e.rightFace} {
			if f != nil && !seen[f] && m.faces.Has(f.id) {
				seen[f] = true
				faces = append(faces, f)
			}
		}
	}
	return faces, nil
}

// Vertex returns the vertex with the given ID.
func (m *Mesh) Vertex(id idmap.ID) (*Vertex, bool) {
	return m.vertices.Element(id)
}

// Edge returns the edge with the given ID.
func (m *Mesh) Edge(id idmap.ID) (*Edge, bool) {
	return m.edges.Element(id)
}

// Face returns the face with the given ID.
func (m *Mesh) Face(id idmap.ID) (*Face, bool) {
	return m.faces.Element(id)
}

// Vertices returns every vertex.
func (m *Mesh) Vertices() []*Vertex { return m.vertices.All() }

// Edges returns every edge.
func (m *Mesh) Edges() []*Edge { return m.edges.All() }

// Faces returns every face.
func (m *Mesh) Faces() []*Face { return m.faces.All() }

// NumVertices returns the number of vertices.
func (m *Mesh) NumVertices() int { return m.vertices.Len() }

// NumEdges returns the number of edges.
func (m *Mesh) NumEdges() int { return m.edges.Len() }

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int { return m.faces.Len() }

// Triangle returns the geometry of a face of this mesh.
func (m *Mesh) Triangle(f octree.Face) (*spatialmath.Triangle, error) {
	face, err := m.ownFace(f)
	if err != nil {
		return nil, err
	}
	return face.Triangle()
}

// FaceVertices returns the corners of a face of this mesh.
func (m *Mesh) FaceVertices(f octree.Face) ([]octree.Vertex, error) {
	face, err := m.ownFace(f)
	if err != nil {
		return nil, err
	}
	vertices, err := face.Vertices()
	if err != nil {
		return nil, err
	}
	return lo.Map(vertices, func(v *Vertex, _ int) octree.Vertex { return v }), nil
}

func (m *Mesh) ownFace(f octree.Face) (*Face, error) {
	face, ok := m.faces.Element(f.ID())
	if !ok || octree.Face(face) != f {
		return nil, errors.Wrapf(ErrUnknownElement, "face %s", f.ID())
	}
	return face, nil
}

// IntersectRay returns the nearest face hit by ray.
func (m *Mesh) IntersectRay(ray spatialmath.Ray) (octree.Intersection, bool, error) {
	return m.tree.IntersectRay(m, ray)
}

// IntersectSphereFaces returns the faces touching sphere.
func (m *Mesh) IntersectSphereFaces(sphere spatialmath.Sphere) (map[idmap.ID]*Face, error) {
	faces, err := m.tree.IntersectSphereFaces(m, sphere)
	if err != nil {
		return nil, err
	}
	out := make(map[idmap.ID]*Face, len(faces))
	for id, f := range faces {
		face, ok := f.(*Face)
		if !ok {
			return nil, utils.NewUnexpectedTypeError(face, f)
		}
		out[id] = face
	}
	return out, nil
}

// IntersectSphereVertices returns the vertices inside sphere that belong to faces touching it.
func (m *Mesh) IntersectSphereVertices(sphere spatialmath.Sphere) (map[idmap.ID]*Vertex, error) {
	vertices, err := m.tree.IntersectSphereVertices(m, sphere)
	if err != nil {
		return nil, err
	}
	out := make(map[idmap.ID]*Vertex, len(vertices))
	for id, v := range vertices {
		vertex, ok := v.(*Vertex)
		if !ok {
			return nil, utils.NewUnexpectedTypeError(vertex, v)
		}
		out[id] = vertex
	}
	return out, nil
}

// Dirty reports whether the mesh changed since ClearDirty, meaning render data needs rebuilding.
func (m *Mesh) Dirty() bool {
	return m.dirty
}

// ClearDirty marks render data as rebuilt.
func (m *Mesh) ClearDirty() {
	m.dirty = false
}

// Bounds returns the box around every vertex.
func (m *Mesh) Bounds() (spatialmath.AABB, bool) {
	vertices := m.vertices.All()
	if len(vertices) == 0 {
		return spatialmath.AABB{}, false
	}
	box := spatialmath.AABB{Min: vertices[0].position, Max: vertices[0].position}
	for _, v := range vertices[1:] {
		box = box.Union(spatialmath.AABB{Min: v.position, Max: v.position})
	}
	return box, true
}

// Reset removes every element and empties the octree.
func (m *Mesh) Reset() {
	m.tree.Reset()
	m.vertices.Reset()
	m.edges.Reset()
	m.faces.Reset()
	m.incident = map[idmap.ID]*idmap.Map[*Edge]{}
	m.dirty = true
}
