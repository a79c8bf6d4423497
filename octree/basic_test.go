package octree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/test"
)

func newTestOctree(t *testing.T) *Octree {
	t.Helper()
	tree, err := New(DefaultConfig(), golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return tree
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.Validate(), test.ShouldBeNil)
	test.That(t, MinLooseFactor(0.1), test.ShouldAlmostEqual, 1+0.8/3)

	t.Run("relative min face size out of range", func(t *testing.T) {
		for _, r := range []float64{0, -0.1, 0.6} {
			cfg := DefaultConfig()
			cfg.RelativeMinFaceSize = r
			test.That(t, cfg.Validate(), test.ShouldNotBeNil)
		}
		cfg := DefaultConfig()
		cfg.RelativeMinFaceSize = 0.5
		cfg.LooseFactor = MinLooseFactor(0.5)
		test.That(t, cfg.Validate(), test.ShouldBeNil)
	})

	t.Run("loose factor too small", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LooseFactor = 1.2
		err := cfg.Validate()
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "loose_factor")
	})

	t.Run("all problems are reported", func(t *testing.T) {
		cfg := Config{RelativeMinFaceSize: 0.1, LooseFactor: 1}
		err := cfg.Validate()
		test.That(t, multierr.Errors(err), test.ShouldHaveLength, 2)

		_, err = New(cfg, nil)
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestGrowAndShrink(t *testing.T) {
	m := newTestMesh()
	tree := newTestOctree(t)

	a := m.addFace(unitTriangle(r3.Vector{}))
	b := m.addFace(unitTriangle(r3.Vector{X: 10, Y: 10, Z: 10}))

	_, err := tree.Root()
	test.That(t, errors.Is(err, ErrEmptyTree), test.ShouldBeTrue)

	t.Run("first face creates the root", func(t *testing.T) {
		id, err := tree.InsertFace(a, a.triangle())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, a.OctreeNode(), test.ShouldResemble, id)

		root, err := tree.Root()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, root.ID, test.ShouldResemble, id)
		test.That(t, root.Center, test.ShouldResemble, r3.Vector{})
		test.That(t, root.Width, test.ShouldEqual, 1.0)
		test.That(t, root.Depth, test.ShouldEqual, 0)
		test.That(t, root.HasChildren(), test.ShouldBeFalse)
		validateOctree(t, tree, m)
	})

	t.Run("distant face grows the root", func(t *testing.T) {
		id, err := tree.InsertFace(b, b.triangle())
		test.That(t, err, test.ShouldBeNil)

		root, err := tree.Root()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, root.Center, test.ShouldResemble, r3.Vector{X: 7.5, Y: 7.5, Z: 7.5})
		test.That(t, root.Width, test.ShouldEqual, 16.0)
		test.That(t, root.Depth, test.ShouldEqual, -4)
		test.That(t, root.HasChildren(), test.ShouldBeTrue)

		nodeB, err := tree.Node(id)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, nodeB.Center, test.ShouldResemble, r3.Vector{X: 11.5, Y: 11.5, Z: 11.5})
		test.That(t, nodeB.Width, test.ShouldEqual, 8.0)
		test.That(t, nodeB.Depth, test.ShouldEqual, -3)

		// the former root keeps its face
		nodeA, err := tree.Node(a.OctreeNode())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, nodeA.Center, test.ShouldResemble, r3.Vector{})
		test.That(t, nodeA.Width, test.ShouldEqual, 1.0)
		test.That(t, nodeA.Depth, test.ShouldEqual, 0)
		test.That(t, nodeA.NumFaces, test.ShouldEqual, 1)

		test.That(t, tree.NumFaces(), test.ShouldEqual, 2)
		validateOctree(t, tree, m)
	})

	t.Run("deleting the distant face shrinks the root", func(t *testing.T) {
		formerNode := b.OctreeNode()
		test.That(t, tree.DeleteFace(b), test.ShouldBeNil)
		test.That(t, tree.HasFace(b.ID()), test.ShouldBeFalse)
		test.That(t, b.OctreeNode(), test.ShouldResemble, NoNode)

		_, err := tree.Node(formerNode)
		test.That(t, errors.Is(err, ErrNodeNotFound), test.ShouldBeTrue)

		root, err := tree.Root()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, root.ID, test.ShouldResemble, a.OctreeNode())
		test.That(t, root.Parent, test.ShouldResemble, NoNode)
		test.That(t, root.Width, test.ShouldEqual, 1.0)
		validateOctree(t, tree, m)
	})

	t.Run("deleting the last face discards the root", func(t *testing.T) {
		test.That(t, tree.DeleteFace(a), test.ShouldBeNil)
		test.That(t, tree.IsEmpty(), test.ShouldBeTrue)
		test.That(t, tree.NumFaces(), test.ShouldEqual, 0)
		_, err := tree.Root()
		test.That(t, errors.Is(err, ErrEmptyTree), test.ShouldBeTrue)
	})
}

func TestInsertDescends(t *testing.T) {
	m := newTestMesh()
	tree := newTestOctree(t)

	test.That(t, tree.InitRoot(r3.Vector{}, 16), test.ShouldBeNil)
	test.That(t, errors.Is(tree.InitRoot(r3.Vector{}, 16), ErrRootExists), test.ShouldBeTrue)

	f := m.addFace(unitTriangle(r3.Vector{X: 1, Y: -1, Z: 1}))
	id, err := tree.InsertFace(f, f.triangle())
	test.That(t, err, test.ShouldBeNil)

	n, err := tree.Node(id)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n.Depth, test.ShouldEqual, 1)
	test.That(t, n.Width, test.ShouldEqual, 8.0)
	test.That(t, n.Center, test.ShouldResemble, r3.Vector{X: 4, Y: -4, Z: 4})
	validateOctree(t, tree, m)

	t.Run("degenerate faces stop at the minimum node width", func(t *testing.T) {
		p := r3.Vector{X: 2, Y: 2, Z: 2}
		d := m.addFace(p, p, p)
		id, err := tree.InsertFace(d, d.triangle())
		test.That(t, err, test.ShouldBeNil)
		n, err := tree.Node(id)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, n.Width, test.ShouldBeGreaterThanOrEqualTo, DefaultMinNodeWidth)
		test.That(t, n.Width/2, test.ShouldBeLessThan, DefaultMinNodeWidth)
		validateOctree(t, tree, m)
	})

	test.That(t, errors.Is(tree.InitRoot(r3.Vector{}, math.NaN()), ErrRootExists), test.ShouldBeTrue)
	tree.Reset()
	test.That(t, f.OctreeNode(), test.ShouldResemble, NoNode)
	test.That(t, tree.InitRoot(r3.Vector{}, math.NaN()), test.ShouldNotBeNil)
	test.That(t, tree.InitRoot(r3.Vector{}, 0), test.ShouldNotBeNil)
}

func TestInsertErrors(t *testing.T) {
	m := newTestMesh()
	tree := newTestOctree(t)

	f := m.addFace(unitTriangle(r3.Vector{}))
	_, err := tree.InsertFace(f, f.triangle())
	test.That(t, err, test.ShouldBeNil)

	_, err = tree.InsertFace(f, f.triangle())
	test.That(t, errors.Is(err, ErrDuplicateFace), test.ShouldBeTrue)

	bad := m.addFace(r3.Vector{X: math.NaN()}, r3.Vector{X: 1}, r3.Vector{Y: 1})
	_, err = tree.InsertFace(bad, bad.triangle())
	test.That(t, errors.Is(err, ErrMalformedContainment), test.ShouldBeTrue)
	test.That(t, tree.HasFace(bad.ID()), test.ShouldBeFalse)

	_, err = tree.InsertFace(bad, nil)
	test.That(t, errors.Is(err, ErrMalformedContainment), test.ShouldBeTrue)

	unknown := m.addFace(unitTriangle(r3.Vector{X: 3}))
	test.That(t, errors.Is(tree.DeleteFace(unknown), ErrFaceNotFound), test.ShouldBeTrue)
	_, _, err = tree.RealignFace(unknown, unknown.triangle())
	test.That(t, errors.Is(err, ErrFaceNotFound), test.ShouldBeTrue)

	test.That(t, tree.NumFaces(), test.ShouldEqual, 1)
	validateOctree(t, tree, m)

	t.Run("failed insert into an empty tree leaves it empty", func(t *testing.T) {
		empty := newTestOctree(t)
		inf := m.addFace(r3.Vector{X: math.Inf(1)}, r3.Vector{X: 1}, r3.Vector{Y: 1})
		_, err := empty.InsertFace(inf, inf.triangle())
		test.That(t, errors.Is(err, ErrMalformedContainment), test.ShouldBeTrue)
		test.That(t, empty.IsEmpty(), test.ShouldBeTrue)
	})
}

func TestRealignFace(t *testing.T) {
	m := newTestMesh()
	tree := newTestOctree(t)
	// a root that already encloses every face places each one by descent alone
	test.That(t, tree.InitRoot(r3.Vector{}, 64), test.ShouldBeNil)
	faces := m.randomFaces(rand.New(rand.NewSource(3)), 50, 10)
	insertAll(t, tree, faces)

	f := faces[0]
	before := f.OctreeNode()

	t.Run("unchanged geometry stays at its node", func(t *testing.T) {
		id, same, err := tree.RealignFace(f, f.triangle())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, same, test.ShouldBeTrue)
		test.That(t, id, test.ShouldResemble, before)
		validateOctree(t, tree, m)
	})

	t.Run("moved geometry changes node", func(t *testing.T) {
		for _, v := range f.vertices {
			v.pos = v.pos.Add(r3.Vector{X: 100, Y: -50, Z: 20})
		}
		id, same, err := tree.RealignFace(f, f.triangle())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, same, test.ShouldBeFalse)
		test.That(t, f.OctreeNode(), test.ShouldResemble, id)
		test.That(t, tree.HasFace(f.ID()), test.ShouldBeTrue)
		test.That(t, tree.NumFaces(), test.ShouldEqual, len(faces))
		validateOctree(t, tree, m)
	})

	t.Run("malformed geometry keeps the face indexed", func(t *testing.T) {
		f.vertices[0].pos = r3.Vector{X: math.NaN()}
		_, _, err := tree.RealignFace(f, f.triangle())
		test.That(t, errors.Is(err, ErrMalformedContainment), test.ShouldBeTrue)
		test.That(t, tree.HasFace(f.ID()), test.ShouldBeTrue)
	})
}

func TestRealignRootCreatingFace(t *testing.T) {
	m := newTestMesh()
	tree := newTestOctree(t)

	a := m.addFace(unitTriangle(r3.Vector{}))
	b := m.addFace(unitTriangle(r3.Vector{X: 10, Y: 10, Z: 10}))
	insertAll(t, tree, []*testFace{a, b})
	before := a.OctreeNode()

	// a sits in the node it created, which is smaller than descent from the grown root would pick
	id, same, err := tree.RealignFace(a, a.triangle())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, same, test.ShouldBeFalse)
	test.That(t, id == before, test.ShouldBeFalse)
	test.That(t, a.OctreeNode(), test.ShouldResemble, id)

	n, err := tree.Node(id)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n.Center, test.ShouldResemble, r3.Vector{X: 3.5, Y: 3.5, Z: 3.5})
	test.That(t, n.Width, test.ShouldEqual, 8.0)
	test.That(t, n.Depth, test.ShouldEqual, -3)

	_, err = tree.Node(before)
	test.That(t, errors.Is(err, ErrNodeNotFound), test.ShouldBeTrue)
	validateOctree(t, tree, m)

	// placed by descent, it now stays put
	id2, same, err := tree.RealignFace(a, a.triangle())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, same, test.ShouldBeTrue)
	test.That(t, id2, test.ShouldResemble, id)
}

func TestInsertDeleteAll(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	m := newTestMesh()
	tree := newTestOctree(t)
	faces := m.randomFaces(rnd, 300, 40)
	insertAll(t, tree, faces)
	validateOctree(t, tree, m)

	for _, f := range faces {
		got, ok := tree.Face(f.ID())
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, got == Face(f), test.ShouldBeTrue)
	}

	rnd.Shuffle(len(faces), func(i, j int) { faces[i], faces[j] = faces[j], faces[i] })
	for i, f := range faces {
		test.That(t, tree.DeleteFace(f), test.ShouldBeNil)
		test.That(t, tree.HasFace(f.ID()), test.ShouldBeFalse)
		if i%50 == 0 {
			validateOctree(t, tree, m)
		}
	}
	test.That(t, tree.IsEmpty(), test.ShouldBeTrue)
	test.That(t, tree.NumFaces(), test.ShouldEqual, 0)

	// freed slots are reused
	before := len(tree.nodes)
	insertAll(t, tree, faces[:3])
	test.That(t, len(tree.nodes), test.ShouldEqual, before)
	validateOctree(t, tree, m)
}
