package winged

import (
	"github.com/pkg/errors"

	"go.viam.com/sculpt/idmap"
)

// Edge is a winged edge. Walking its left face visits Vertex1 then Vertex2; walking its right face visits them
// the other way round. Edges that connect the same vertices more than once are chained as siblings. The
// vertices of an edge are fixed when it is added.
type Edge struct {
	id idmap.ID

	vertex1, vertex2    *Vertex
	leftFace, rightFace *Face

	leftPredecessor, leftSuccessor   *Edge
	rightPredecessor, rightSuccessor *Edge
	previousSibling, nextSibling     *Edge
}

// ID returns the edge's ID.
func (e *Edge) ID() idmap.ID { return e.id }

// Vertex1 returns the first vertex of the edge.
func (e *Edge) Vertex1() *Vertex { return e.vertex1 }

// Vertex2 returns the second vertex of the edge.
func (e *Edge) Vertex2() *Vertex { return e.vertex2 }

// LeftFace returns the left face.
func (e *Edge) LeftFace() *Face { return e.leftFace }

// RightFace returns the right face.
func (e *Edge) RightFace() *Face { return e.rightFace }

// LeftPredecessor returns the edge before e on its left face.
func (e *Edge) LeftPredecessor() *Edge { return e.leftPredecessor }

// LeftSuccessor returns the edge after e on its left face.
func (e *Edge) LeftSuccessor() *Edge { return e.leftSuccessor }

// RightPredecessor returns the edge before e on its right face.
func (e *Edge) RightPredecessor() *Edge { return e.rightPredecessor }

// RightSuccessor returns the edge after e on its right face.
func (e *Edge) RightSuccessor() *Edge { return e.rightSuccessor }

// PreviousSibling returns the previous edge between the same vertices.
func (e *Edge) PreviousSibling() *Edge { return e.previousSibling }

// NextSibling returns the next edge between the same vertices.
func (e *Edge) NextSibling() *Edge { return e.nextSibling }

// SetLeftFace sets the face on the left of the edge.
func (e *Edge) SetLeftFace(f *Face) { e.leftFace = f }

// SetRightFace sets the face on the right of the edge.
func (e *Edge) SetRightFace(f *Face) { e.rightFace = f }

// SetLeftPredecessor sets the edge before e in the left face's loop.
func (e *Edge) SetLeftPredecessor(p *Edge) { e.leftPredecessor = p }

// SetLeftSuccessor sets the edge after e in the left face's loop.
func (e *Edge) SetLeftSuccessor(s *Edge) { e.leftSuccessor = s }

// SetRightPredecessor sets the edge before e in the right face's loop.
func (e *Edge) SetRightPredecessor(p *Edge) { e.rightPredecessor = p }

// SetRightSuccessor sets the edge after e in the right face's loop.
func (e *Edge) SetRightSuccessor(s *Edge) { e.rightSuccessor = s }

// SetPreviousSibling sets the previous edge sharing e's vertices.
func (e *Edge) SetPreviousSibling(s *Edge) { e.previousSibling = s }

// SetNextSibling sets the next edge sharing e's vertices.
func (e *Edge) SetNextSibling(s *Edge) { e.nextSibling = s }

// IsLeftFace reports whether f is the left face of e.
func (e *Edge) IsLeftFace(f *Face) bool {
	return f != nil && e.leftFace == f
}

// IsRightFace reports whether f is the right face of e.
func (e *Edge) IsRightFace(f *Face) bool {
	return f != nil && e.rightFace == f
}

// IsAdjacent reports whether v is one of the vertices of e.
func (e *Edge) IsAdjacent(v *Vertex) bool {
	return v != nil && (e.vertex1 == v || e.vertex2 == v)
}

// FirstVertex returns the vertex at which e starts when walking f.
func (e *Edge) FirstVertex(f *Face) *Vertex {
	if e.IsLeftFace(f) {
		return e.vertex1
	}
	return e.vertex2
}

// SecondVertex returns the vertex at which e ends when walking f.
func (e *Edge) SecondVertex(f *Face) *Vertex {
	if e.IsLeftFace(f) {
		return e.vertex2
	}
	return e.vertex1
}

// OtherVertex returns the vertex of e that is not v.
func (e *Edge) OtherVertex(v *Vertex) *Vertex {
	if e.vertex1 == v {
		return e.vertex2
	}
	return e.vertex1
}

// OtherFace returns the face of e that is not f.
func (e *Edge) OtherFace(f *Face) *Face {
	if e.IsLeftFace(f) {
		return e.rightFace
	}
	return e.leftFace
}

// Successor returns the edge after e when walking f.
func (e *Edge) Successor(f *Face) *Edge {
	switch {
	case e.IsLeftFace(f):
		return e.leftSuccessor
	case e.IsRightFace(f):
		return e.rightSuccessor
	default:
		return nil
	}
}

// Predecessor returns the edge before e when walking f.
func (e *Edge) Predecessor(f *Face) *Edge {
	switch {
	case e.IsLeftFace(f):
		return e.leftPredecessor
	case e.IsRightFace(f):
		return e.rightPredecessor
	default:
		return nil
	}
}

// SetSuccessor sets the edge after e when walking f.
func (e *Edge) SetSuccessor(f *Face, s *Edge) error {
	switch {
	case e.IsLeftFace(f):
		e.leftSuccessor = s
	case e.IsRightFace(f):
		e.rightSuccessor = s
	default:
		return foreignFaceError(e, f)
	}
	return nil
}

// SetPredecessor sets the edge before e when walking f.
func (e *Edge) SetPredecessor(f *Face, p *Edge) error {
	switch {
	case e.IsLeftFace(f):
		e.leftPredecessor = p
	case e.IsRightFace(f):
		e.rightPredecessor = p
	default:
		return foreignFaceError(e, f)
	}
	return nil
}

// ReplaceFace substitutes replacement for f on whichever side of e holds f.
func (e *Edge) ReplaceFace(f, replacement *Face) error {
	switch {
	case e.IsLeftFace(f):
		e.leftFace = replacement
	case e.IsRightFace(f):
		e.rightFace = replacement
	default:
		return foreignFaceError(e, f)
	}
	return nil
}

// nextAroundVertex returns the edge following e in a walk around v, or nil at a boundary.
func (e *Edge) nextAroundVertex(v *Vertex) *Edge {
	if e.vertex1 == v {
		return e.leftPredecessor
	}
	return e.rightPredecessor
}

// previousAroundVertex is the inverse of nextAroundVertex.
func (e *Edge) previousAroundVertex(v *Vertex) *Edge {
	if e.vertex1 == v {
		return e.rightSuccessor
	}
	return e.leftSuccessor
}

func foreignFaceError(e *Edge, f *Face) error {
	if f == nil {
		return errors.Wrapf(ErrForeignFace, "nil face on edge %s", e.id)
	}
	return errors.Wrapf(ErrForeignFace, "face %s on edge %s", f.id, e.id)
}
