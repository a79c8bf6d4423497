package action

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/sculpt/winged"
)

var (
	// ErrNothingToUndo is returned by History.Undo when no unit can be undone.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned by History.Redo when no unit can be redone.
	ErrNothingToRedo = errors.New("nothing to redo")
	// ErrUnitClosed is returned when recording into a unit that is no longer open.
	ErrUnitClosed = errors.New("action unit is closed")
	// ErrInvalidTransition is returned when a unit is undone, redone or closed out of order.
	ErrInvalidTransition = errors.New("invalid action unit transition")
)

// State is the lifecycle state of a Unit.
type State int

const (
	// Open units record partial actions.
	Open State = iota
	// Closed units are complete and have not been undone.
	Closed
	// Undone units have been reverted.
	Undone
	// Redone units have been applied again after being undone.
	Redone
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	case Undone:
		return "undone"
	case Redone:
		return "redone"
	default:
		return "unknown"
	}
}

// Unit is the list of partial actions making up one user visible edit. It is undone and redone as a whole.
type Unit struct {
	partials []Partial
	state    State
}

// NewUnit returns an open, empty unit.
func NewUnit() *Unit {
	return &Unit{}
}

// State returns the unit's lifecycle state.
func (u *Unit) State() State {
	return u.state
}

// Len returns the number of recorded partial actions.
func (u *Unit) Len() int {
	return len(u.partials)
}

// IsEmpty reports whether nothing was recorded.
func (u *Unit) IsEmpty() bool {
	return len(u.partials) == 0
}

// Run applies p to m and records it. A partial action that fails is not recorded.
func (u *Unit) Run(m *winged.Mesh, p Partial) error {
	if u.state != Open {
		return errors.Wrapf(ErrUnitClosed, "unit is %s", u.state)
	}
	if err := p.Redo(m); err != nil {
		return err
	}
	u.partials = append(u.partials, p)
	return nil
}

// Rollback reverts everything recorded in an open unit and empties it.
func (u *Unit) Rollback(m *winged.Mesh) error {
	if u.state != Open {
		return errors.Wrapf(ErrUnitClosed, "unit is %s", u.state)
	}
	var err error
	for i := len(u.partials) - 1; i >= 0; i-- {
		err = multierr.Append(err, u.partials[i].Undo(m))
	}
	u.partials = nil
	return err
}

// Close ends recording.
func (u *Unit) Close() error {
	if u.state != Open {
		return errors.Wrapf(ErrInvalidTransition, "cannot close %s unit", u.state)
	}
	u.state = Closed
	return nil
}

// Undo reverts the unit in reverse order. If a step fails the steps already reverted are applied again.
func (u *Unit) Undo(m *winged.Mesh) error {
	if u.state != Closed && u.state != Redone {
		return errors.Wrapf(ErrInvalidTransition, "cannot undo %s unit", u.state)
	}
	for i := len(u.partials) - 1; i >= 0; i-- {
		if err := u.partials[i].Undo(m); err != nil {
			for j := i + 1; j < len(u.partials); j++ {
				err = multierr.Append(err, u.partials[j].Redo(m))
			}
			return errors.Wrap(err, "undo failed")
		}
	}
	u.state = Undone
	return nil
}

// Redo applies an undone unit again. If a step fails the steps already applied are reverted.
func (u *Unit) Redo(m *winged.Mesh) error {
	if u.state != Undone {
		return errors.Wrapf(ErrInvalidTransition, "cannot redo %s unit", u.state)
	}
	for i, p := range u.partials {
		if err := p.Redo(m); err != nil {
			for j := i - 1; j >= 0; j-- {
				err = multierr.Append(err, u.partials[j].Undo(m))
			}
			return errors.Wrap(err, "redo failed")
		}
	}
	u.state = Redone
	return nil
}
