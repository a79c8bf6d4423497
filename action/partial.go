// Package action records mesh edits as reversible partial actions grouped into undoable units.
package action

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/sculpt/spatialmath"
	"go.viam.com/sculpt/winged"
)

// Partial is a minimal edit of a mesh that can be reverted. Redo applies the edit to the state it was first
// applied to, Undo restores that state.
type Partial interface {
	Redo(m *winged.Mesh) error
	Undo(m *winged.Mesh) error
}

// ModifyEdgeFace replaces Face by Replacement on whichever side of Edge holds it.
type ModifyEdgeFace struct {
	Edge        *winged.Edge
	Face        *winged.Face
	Replacement *winged.Face

	left bool
}

func (p *ModifyEdgeFace) Redo(m *winged.Mesh) error {
	switch {
	case p.Edge.IsLeftFace(p.Face):
		p.left = true
		p.Edge.SetLeftFace(p.Replacement)
	case p.Edge.IsRightFace(p.Face):
		p.left = false
		p.Edge.SetRightFace(p.Replacement)
	default:
		return foreignFaceError(p.Edge, p.Face)
	}
	return nil
}

func (p *ModifyEdgeFace) Undo(m *winged.Mesh) error {
	if p.left {
		p.Edge.SetLeftFace(p.Face)
	} else {
		p.Edge.SetRightFace(p.Face)
	}
	return nil
}

// ModifyEdgeSuccessor sets the successor of Edge on Face.
type ModifyEdgeSuccessor struct {
	Edge      *winged.Edge
	Face      *winged.Face
	Successor *winged.Edge

	left bool
	old  *winged.Edge
}

func (p *ModifyEdgeSuccessor) Redo(m *winged.Mesh) error {
	switch {
	case p.Edge.IsLeftFace(p.Face):
		p.left, p.old = true, p.Edge.LeftSuccessor()
		p.Edge.SetLeftSuccessor(p.Successor)
	case p.Edge.IsRightFace(p.Face):
		p.left, p.old = false, p.Edge.RightSuccessor()
		p.Edge.SetRightSuccessor(p.Successor)
	default:
		return foreignFaceError(p.Edge, p.Face)
	}
	return nil
}

func (p *ModifyEdgeSuccessor) Undo(m *winged.Mesh) error {
	if p.left {
		p.Edge.SetLeftSuccessor(p.old)
	} else {
		p.Edge.SetRightSuccessor(p.old)
	}
	return nil
}

// ModifyEdgePredecessor sets the predecessor of Edge on Face.
type ModifyEdgePredecessor struct {
	Edge        *winged.Edge
	Face        *winged.Face
	Predecessor *winged.Edge

	left bool
	old  *winged.Edge
}

func (p *ModifyEdgePredecessor) Redo(m *winged.Mesh) error {
	switch {
	case p.Edge.IsLeftFace(p.Face):
		p.left, p.old = true, p.Edge.LeftPredecessor()
		p.Edge.SetLeftPredecessor(p.Predecessor)
	case p.Edge.IsRightFace(p.Face):
		p.left, p.old = false, p.Edge.RightPredecessor()
		p.Edge.SetRightPredecessor(p.Predecessor)
	default:
		return foreignFaceError(p.Edge, p.Face)
	}
	return nil
}

func (p *ModifyEdgePredecessor) Undo(m *winged.Mesh) error {
	if p.left {
		p.Edge.SetLeftPredecessor(p.old)
	} else {
		p.Edge.SetRightPredecessor(p.old)
	}
	return nil
}

// ModifyEdgeSibling sets the next sibling of Edge, or the previous one if Previous is set.
type ModifyEdgeSibling struct {
	Edge     *winged.Edge
	Previous bool
	Sibling  *winged.Edge

	old *winged.Edge
}

func (p *ModifyEdgeSibling) Redo(m *winged.Mesh) error {
	if p.Previous {
		p.old = p.Edge.PreviousSibling()
		p.Edge.SetPreviousSibling(p.Sibling)
	} else {
		p.old = p.Edge.NextSibling()
		p.Edge.SetNextSibling(p.Sibling)
	}
	return nil
}

func (p *ModifyEdgeSibling) Undo(m *winged.Mesh) error {
	if p.Previous {
		p.Edge.SetPreviousSibling(p.old)
	} else {
		p.Edge.SetNextSibling(p.old)
	}
	return nil
}

// ModifyEdgeRightFace sets the right face of Edge.
type ModifyEdgeRightFace struct {
	Edge *winged.Edge
	Face *winged.Face

	old *winged.Face
}

func (p *ModifyEdgeRightFace) Redo(m *winged.Mesh) error {
	p.old = p.Edge.RightFace()
	p.Edge.SetRightFace(p.Face)
	return nil
}

func (p *ModifyEdgeRightFace) Undo(m *winged.Mesh) error {
	p.Edge.SetRightFace(p.old)
	return nil
}

// ModifyVertexEdge sets the incident edge of Vertex.
type ModifyVertexEdge struct {
	Vertex *winged.Vertex
	Edge   *winged.Edge

	old *winged.Edge
}

func (p *ModifyVertexEdge) Redo(m *winged.Mesh) error {
	p.old = p.Vertex.Edge()
	p.Vertex.SetEdge(p.Edge)
	return nil
}

func (p *ModifyVertexEdge) Undo(m *winged.Mesh) error {
	p.Vertex.SetEdge(p.old)
	return nil
}

// ModifyFaceEdge sets the edge the loop of Face starts at.
type ModifyFaceEdge struct {
	Face *winged.Face
	Edge *winged.Edge

	old *winged.Edge
}

func (p *ModifyFaceEdge) Redo(m *winged.Mesh) error {
	p.old = p.Face.Edge()
	p.Face.SetEdge(p.Edge)
	return nil
}

func (p *ModifyFaceEdge) Undo(m *winged.Mesh) error {
	p.Face.SetEdge(p.old)
	return nil
}

// DeleteEdge removes Edge from the mesh, along with its right face if it still has one.
type DeleteEdge struct {
	Edge *winged.Edge

	right    *winged.Face
	triangle *spatialmath.Triangle
}

func (p *DeleteEdge) Redo(m *winged.Mesh) error {
	p.right, p.triangle = p.Edge.RightFace(), nil
	if p.right != nil {
		tri, err := p.right.Triangle()
		if err != nil {
			return err
		}
		p.triangle = tri
	}
	_, err := m.DeleteEdge(p.Edge)
	return err
}

func (p *DeleteEdge) Undo(m *winged.Mesh) error {
	if err := m.RestoreEdge(p.Edge); err != nil {
		return err
	}
	if p.right != nil {
		return m.RestoreFace(p.right, p.triangle)
	}
	return nil
}

// DeleteFace removes Face from the mesh and the octree. Undo indexes it again under Triangle, which defaults to
// the face's geometry when first applied; pass it explicitly if the loop is already unlinked by then.
type DeleteFace struct {
	Face     *winged.Face
	Triangle *spatialmath.Triangle
}

func (p *DeleteFace) Redo(m *winged.Mesh) error {
	if p.Triangle == nil {
		tri, err := p.Face.Triangle()
		if err != nil {
			return errors.Wrap(err, "cannot save geometry of deleted face")
		}
		p.Triangle = tri
	}
	return m.DeleteFace(p.Face)
}

func (p *DeleteFace) Undo(m *winged.Mesh) error {
	return m.RestoreFace(p.Face, p.Triangle)
}

// MoveVertex moves Vertex to Position and realigns the faces around it.
type MoveVertex struct {
	Vertex   *winged.Vertex
	Position r3.Vector

	old r3.Vector
}

func (p *MoveVertex) Redo(m *winged.Mesh) error {
	p.old = p.Vertex.Position()
	if err := m.MoveVertex(p.Vertex, p.Position); err != nil {
		return multierr.Combine(err, m.MoveVertex(p.Vertex, p.old))
	}
	return nil
}

func (p *MoveVertex) Undo(m *winged.Mesh) error {
	return m.MoveVertex(p.Vertex, p.old)
}

// RealignFace moves Face to the octree node matching its current geometry in both directions. Placed around a
// topology edit it keeps the face indexed under whichever shape it has.
type RealignFace struct {
	Face *winged.Face
}

func (p *RealignFace) Redo(m *winged.Mesh) error {
	_, err := m.RealignFace(p.Face)
	return err
}

func (p *RealignFace) Undo(m *winged.Mesh) error {
	_, err := m.RealignFace(p.Face)
	return err
}

func foreignFaceError(e *winged.Edge, f *winged.Face) error {
	if f == nil {
		return errors.Wrapf(winged.ErrForeignFace, "nil face on edge %s", e.ID())
	}
	return errors.Wrapf(winged.ErrForeignFace, "face %s on edge %s", f.ID(), e.ID())
}
