package octree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/sculpt/idmap"
	"go.viam.com/sculpt/spatialmath"
)

type testVertex struct {
	id  idmap.ID
	pos r3.Vector
}

func (v *testVertex) ID() idmap.ID        { return v.id }
func (v *testVertex) Position() r3.Vector { return v.pos }

type testFace struct {
	id       idmap.ID
	node     NodeID
	vertices [3]*testVertex
}

func (f *testFace) ID() idmap.ID            { return f.id }
func (f *testFace) OctreeNode() NodeID      { return f.node }
func (f *testFace) SetOctreeNode(id NodeID) { f.node = id }

func (f *testFace) triangle() *spatialmath.Triangle {
	return spatialmath.NewTriangle(f.vertices[0].pos, f.vertices[1].pos, f.vertices[2].pos)
}

// testMesh is a triangle soup sharing no vertices.
type testMesh struct {
	faces map[idmap.ID]*testFace
}

func (m *testMesh) Triangle(f Face) (*spatialmath.Triangle, error) {
	tf, ok := m.faces[f.ID()]
	if !ok {
		return nil, errors.Errorf("unknown face %s", f.ID())
	}
	return tf.triangle(), nil
}

func (m *testMesh) FaceVertices(f Face) ([]Vertex, error) {
	tf, ok := m.faces[f.ID()]
	if !ok {
		return nil, errors.Errorf("unknown face %s", f.ID())
	}
	return []Vertex{tf.vertices[0], tf.vertices[1], tf.vertices[2]}, nil
}

func newTestMesh() *testMesh {
	return &testMesh{faces: map[idmap.ID]*testFace{}}
}

func (m *testMesh) addFace(p0, p1, p2 r3.Vector) *testFace {
	f := &testFace{id: idmap.NewID()}
	for i, p := range []r3.Vector{p0, p1, p2} {
		f.vertices[i] = &testVertex{id: idmap.NewID(), pos: p}
	}
	m.faces[f.id] = f
	return f
}

// randomFaces adds n small triangles scattered in a cube of the given width around the origin.
func (m *testMesh) randomFaces(rnd *rand.Rand, n int, width float64) []*testFace {
	randomPoint := func(scale float64) r3.Vector {
		return r3.Vector{X: (rnd.Float64() - 0.5) * scale, Y: (rnd.Float64() - 0.5) * scale, Z: (rnd.Float64() - 0.5) * scale}
	}
	faces := make([]*testFace, 0, n)
	for i := 0; i < n; i++ {
		c := randomPoint(width)
		size := width * math.Pow(10, -1-2*rnd.Float64())
		faces = append(faces, m.addFace(c.Add(randomPoint(size)), c.Add(randomPoint(size)), c.Add(randomPoint(size))))
	}
	return faces
}

// unitTriangle has centroid center and max extent 1.
func unitTriangle(center r3.Vector) (r3.Vector, r3.Vector, r3.Vector) {
	return center.Add(r3.Vector{X: -0.5, Y: -0.5, Z: 0}),
		center.Add(r3.Vector{X: 0.5, Y: 0, Z: -0.5}),
		center.Add(r3.Vector{X: 0, Y: 0.5, Z: 0.5})
}

func insertAll(t *testing.T, tree *Octree, faces []*testFace) {
	t.Helper()
	for _, f := range faces {
		_, err := tree.InsertFace(f, f.triangle())
		test.That(t, err, test.ShouldBeNil)
	}
}

// validateOctree checks the structure of the tree and the placement of every face in it.
func validateOctree(t *testing.T, tree *Octree, m *testMesh) {
	t.Helper()
	if tree.IsEmpty() {
		test.That(t, tree.NumFaces(), test.ShouldEqual, 0)
		return
	}
	r := tree.cfg.RelativeMinFaceSize
	numFaces := 0
	it := tree.Nodes()
	for it.Next() {
		n := it.Node()
		raw := tree.node(n.ID)
		test.That(t, n.LooseWidth, test.ShouldAlmostEqual, n.Width*tree.cfg.LooseFactor)
		if n.HasChildren() {
			test.That(t, len(n.Children), test.ShouldEqual, 8)
			nonEmpty := 0
			for i, c := range n.Children {
				child, err := tree.Node(c)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, child.Parent, test.ShouldResemble, n.ID)
				test.That(t, child.Depth, test.ShouldEqual, n.Depth+1)
				test.That(t, child.Width, test.ShouldAlmostEqual, n.Width/2)
				expected := n.Center.Add(octantOffset(i).Mul(n.Width / 4))
				test.That(t, child.Center.Sub(expected).Norm(), test.ShouldBeLessThan, 1e-9*n.Width)
				if !tree.node(c).isEmpty() {
					nonEmpty++
				}
			}
			test.That(t, nonEmpty, test.ShouldBeGreaterThan, 0)
		}
		for _, f := range raw.faces {
			numFaces++
			test.That(t, f.OctreeNode(), test.ShouldResemble, n.ID)
			tri := m.faces[f.ID()].triangle()
			slack := spatialmath.NewCubeAABB(n.Center, n.Width*(1+1e-9))
			test.That(t, slack.Contains(tri.Centroid()), test.ShouldBeTrue)
			// a shrunk root may keep faces that were placed below a former parent
			fits := tri.MaxExtent() <= 2*r*n.Width
			if !n.Parent.IsValid() {
				fits = fits || slack.ContainsAABB(tri.Bounds())
			}
			test.That(t, fits, test.ShouldBeTrue)
		}
	}
	test.That(t, it.Err(), test.ShouldBeNil)
	test.That(t, numFaces, test.ShouldEqual, tree.NumFaces())
}

func bruteForceRay(faces []*testFace, ray spatialmath.Ray) (idmap.ID, float64, bool) {
	best := math.Inf(1)
	var bestID idmap.ID
	found := false
	for _, f := range faces {
		if _, dist, ok := f.triangle().IntersectRay(ray); ok && dist < best {
			best, bestID, found = dist, f.id, true
		}
	}
	return bestID, best, found
}

func bruteForceSphere(candidates []*testFace, sphere spatialmath.Sphere) ([]idmap.ID, []idmap.ID) {
	var faces, vertices []idmap.ID
	seen := map[idmap.ID]bool{}
	for _, f := range candidates {
		if !f.triangle().IntersectsSphere(sphere) {
			continue
		}
		faces = append(faces, f.id)
		for _, v := range f.vertices {
			if !seen[v.id] && sphere.ContainsPoint(v.pos) {
				seen[v.id] = true
				vertices = append(vertices, v.id)
			}
		}
	}
	return faces, vertices
}
