package action

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/sculpt/spatialmath"
	"go.viam.com/sculpt/winged"
)

// DeleteEdgeFace removes e and merges its right face into its left face. The returned unit is open; push it to
// a History to make the edit undoable. On failure everything already applied is reverted.
func DeleteEdgeFace(m *winged.Mesh, e *winged.Edge) (*Unit, error) {
	if _, ok := m.Edge(e.ID()); !ok {
		return nil, errors.Wrapf(winged.ErrUnknownElement, "edge %s", e.ID())
	}
	faceToDelete, remainingFace := e.RightFace(), e.LeftFace()
	if faceToDelete == nil || remainingFace == nil || faceToDelete == remainingFace {
		return nil, errors.Wrapf(winged.ErrMalformedFace, "edge %s does not separate two faces", e.ID())
	}
	if !m.Octree().HasFace(faceToDelete.ID()) {
		return nil, errors.Wrapf(winged.ErrMalformedFace, "face %s is not indexed", faceToDelete.ID())
	}
	triangle, err := faceToDelete.Triangle()
	if err != nil {
		return nil, err
	}
	adjacent, err := faceToDelete.Edges()
	if err != nil {
		return nil, err
	}

	leftPredecessor, leftSuccessor := e.LeftPredecessor(), e.LeftSuccessor()
	rightPredecessor, rightSuccessor := e.RightPredecessor(), e.RightSuccessor()
	if leftPredecessor == nil || leftSuccessor == nil || rightPredecessor == nil || rightSuccessor == nil {
		return nil, errors.Wrapf(winged.ErrMalformedFace, "edge %s is missing a neighbor", e.ID())
	}

	partials := []Partial{&RealignFace{Face: remainingFace}}
	for _, a := range adjacent {
		partials = append(partials, &ModifyEdgeFace{Edge: a, Face: faceToDelete, Replacement: remainingFace})
	}
	partials = append(partials,
		&ModifyEdgeSuccessor{Edge: leftPredecessor, Face: remainingFace, Successor: rightSuccessor},
		&ModifyEdgePredecessor{Edge: leftSuccessor, Face: remainingFace, Predecessor: rightPredecessor},
		&ModifyEdgeSuccessor{Edge: rightPredecessor, Face: remainingFace, Successor: leftSuccessor},
		&ModifyEdgePredecessor{Edge: rightSuccessor, Face: remainingFace, Predecessor: leftPredecessor},
		&ModifyVertexEdge{Vertex: e.Vertex1(), Edge: leftPredecessor},
		&ModifyVertexEdge{Vertex: e.Vertex2(), Edge: leftSuccessor},
	)
	if prev := e.PreviousSibling(); prev != nil {
		partials = append(partials, &ModifyEdgeSibling{Edge: prev, Sibling: nil})
	}
	if next := e.NextSibling(); next != nil {
		partials = append(partials, &ModifyEdgeSibling{Edge: next, Previous: true, Sibling: nil})
	}
	partials = append(partials,
		&ModifyFaceEdge{Face: remainingFace, Edge: leftSuccessor},
		&ModifyFaceEdge{Face: faceToDelete, Edge: nil},
		&ModifyEdgeRightFace{Edge: e, Face: nil},
		&DeleteEdge{Edge: e},
		&DeleteFace{Face: faceToDelete, Triangle: triangle},
		&RealignFace{Face: remainingFace},
	)

	u := NewUnit()
	if err := runAll(u, m, partials); err != nil {
		return nil, err
	}
	return u, nil
}

// DisplaceVertices moves every vertex the sphere query finds by delta and realigns the faces around them.
func DisplaceVertices(m *winged.Mesh, sphere spatialmath.Sphere, delta r3.Vector) (*Unit, error) {
	found, err := m.IntersectSphereVertices(sphere)
	if err != nil {
		return nil, err
	}
	vertices := lo.Values(found)
	sort.Slice(vertices, func(i, j int) bool {
		return vertices[i].ID().String() < vertices[j].ID().String()
	})

	partials := lo.Map(vertices, func(v *winged.Vertex, _ int) Partial {
		return &MoveVertex{Vertex: v, Position: v.Position().Add(delta)}
	})
	u := NewUnit()
	if err := runAll(u, m, partials); err != nil {
		return nil, err
	}
	return u, nil
}

func runAll(u *Unit, m *winged.Mesh, partials []Partial) error {
	for _, p := range partials {
		if err := u.Run(m, p); err != nil {
			return multierr.Combine(err, u.Rollback(m))
		}
	}
	return nil
}
