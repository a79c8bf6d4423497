package winged

import (
	"github.com/pkg/errors"
)

var (
	// ErrMalformedFace is returned when a face's edge loop is open, empty or inconsistent.
	ErrMalformedFace = errors.New("malformed face")
	// ErrUnknownElement is returned for vertices, edges or faces that do not belong to the mesh.
	ErrUnknownElement = errors.New("element does not belong to the mesh")
	// ErrForeignFace is returned when an edge is addressed relative to a face it does not border.
	ErrForeignFace = errors.New("face does not border the edge")
)

func malformedVertexError(v *Vertex, e *Edge) error {
	if e == nil {
		return errors.Wrapf(ErrMalformedFace, "walk around vertex %s is broken", v.id)
	}
	return errors.Wrapf(ErrMalformedFace, "walk around vertex %s reached edge %s", v.id, e.id)
}
