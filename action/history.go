package action

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"go.viam.com/sculpt/winged"
)

// History holds the units that can be undone and redone. A limit of zero keeps every unit.
type History struct {
	logger golog.Logger
	limit  int
	undo   []*Unit
	redo   []*Unit
}

// NewHistory returns an empty history keeping at most limit undoable units.
func NewHistory(limit int, logger golog.Logger) *History {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &History{logger: logger, limit: limit}
}

// Push closes u if it is still open and appends it, discarding everything that could be redone. Empty units
// are not pushed; the returned bool reports whether u was.
func (h *History) Push(u *Unit) (bool, error) {
	if u.State() == Open {
		if err := u.Close(); err != nil {
			return false, err
		}
	}
	if u.State() != Closed {
		return false, errors.Wrapf(ErrInvalidTransition, "cannot push %s unit", u.State())
	}
	if u.IsEmpty() {
		return false, nil
	}
	h.undo = append(h.undo, u)
	h.redo = nil
	if h.limit > 0 && len(h.undo) > h.limit {
		dropped := len(h.undo) - h.limit
		h.undo = append([]*Unit(nil), h.undo[dropped:]...)
		h.logger.Debugw("dropped oldest action units", "count", dropped)
	}
	h.logger.Debugw("pushed action unit", "partials", u.Len(), "undoable", len(h.undo))
	return true, nil
}

// Undo reverts the most recent unit.
func (h *History) Undo(m *winged.Mesh) error {
	if len(h.undo) == 0 {
		return ErrNothingToUndo
	}
	u := h.undo[len(h.undo)-1]
	if err := u.Undo(m); err != nil {
		return err
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, u)
	h.logger.Debugw("undid action unit", "partials", u.Len())
	return nil
}

// Redo applies the most recently undone unit again.
func (h *History) Redo(m *winged.Mesh) error {
	if len(h.redo) == 0 {
		return ErrNothingToRedo
	}
	u := h.redo[len(h.redo)-1]
	if err := u.Redo(m); err != nil {
		return err
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, u)
	h.logger.Debugw("redid action unit", "partials", u.Len())
	return nil
}

// CanUndo reports whether Undo has a unit to revert.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether Redo has a unit to apply.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// NumUndo returns the number of units that can be undone.
func (h *History) NumUndo() int {
	return len(h.undo)
}

// NumRedo returns the number of units that can be redone.
func (h *History) NumRedo() int {
	return len(h.redo)
}

// Reset forgets every unit.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}
