package spatialmath

// Mesh is an unconnected set of triangles. It is the form geometry arrives in from generators and files
// before it is welded into a winged mesh.
type Mesh struct {
	triangles []*Triangle
}

// NewMesh creates a mesh from the given triangles.
func NewMesh(triangles []*Triangle) *Mesh {
	return &Mesh{triangles: triangles}
}

// Triangles returns the triangles of the mesh.
func (m *Mesh) Triangles() []*Triangle {
	return m.triangles
}

// Bounds returns the box enclosing every triangle. It returns false for an empty mesh.
func (m *Mesh) Bounds() (AABB, bool) {
	if len(m.triangles) == 0 {
		return AABB{}, false
	}
	bounds := m.triangles[0].Bounds()
	for _, t := range m.triangles[1:] {
		bounds = bounds.Union(t.Bounds())
	}
	return bounds, true
}
