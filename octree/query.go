package octree

import (
	"github.com/pkg/errors"

	"go.viam.com/sculpt/idmap"
	"go.viam.com/sculpt/spatialmath"
)

func (o *Octree) looseBounds(n *node) spatialmath.AABB {
	return spatialmath.NewCubeAABB(n.center, n.width*o.cfg.LooseFactor)
}

// visit walks the tree in preorder with children in slot order. Subtrees rejected by enter are skipped.
func (o *Octree) visit(enter func(n *node) bool, fn func(n *node) error) error {
	if !o.root.IsValid() {
		return nil
	}
	stack := []NodeID{o.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := o.node(id)
		if !enter(n) {
			continue
		}
		if err := fn(n); err != nil {
			return err
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return nil
}

// IntersectRay returns the nearest face hit by ray. Ties go to the face found first.
func (o *Octree) IntersectRay(g Geometry, ray spatialmath.Ray) (Intersection, bool, error) {
	var best Intersection
	found := false
	err := o.visit(
		func(n *node) bool { return o.looseBounds(n).IntersectsRay(ray) },
		func(n *node) error {
			for _, f := range n.faces {
				tri, err := g.Triangle(f)
				if err != nil {
					return errors.Wrapf(err, "cannot intersect face %s", f.ID())
				}
				pt, dist, ok := tri.IntersectRay(ray)
				if !ok || (found && dist >= best.Distance) {
					continue
				}
				best = Intersection{Position: pt, Distance: dist, Normal: tri.Normal(), Face: f, Mesh: g}
				found = true
			}
			return nil
		},
	)
	if err != nil {
		return Intersection{}, false, err
	}
	return best, found, nil
}

// IntersectSphereFaces returns every indexed face whose triangle touches sphere.
func (o *Octree) IntersectSphereFaces(g Geometry, sphere spatialmath.Sphere) (map[idmap.ID]Face, error) {
	faces := map[idmap.ID]Face{}
	err := o.visit(
		func(n *node) bool { return o.looseBounds(n).IntersectsSphere(sphere) },
		func(n *node) error {
			for _, f := range n.faces {
				tri, err := g.Triangle(f)
				if err != nil {
					return errors.Wrapf(err, "cannot intersect face %s", f.ID())
				}
				if tri.IntersectsSphere(sphere) {
					faces[f.ID()] = f
				}
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return faces, nil
}

// IntersectSphereVertices returns every vertex inside sphere that belongs to a face touching it.
func (o *Octree) IntersectSphereVertices(g Geometry, sphere spatialmath.Sphere) (map[idmap.ID]Vertex, error) {
	faces, err := o.IntersectSphereFaces(g, sphere)
	if err != nil {
		return nil, err
	}
	vertices := map[idmap.ID]Vertex{}
	for _, f := range faces {
		fvs, err := g.FaceVertices(f)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot collect vertices of face %s", f.ID())
		}
		for _, v := range fvs {
			if sphere.ContainsPoint(v.Position()) {
				vertices[v.ID()] = v
			}
		}
	}
	return vertices, nil
}
