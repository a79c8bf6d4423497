package idmap

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

type thing struct {
	id   ID
	name string
}

func (t *thing) ID() ID {
	return t.id
}

func TestMap(t *testing.T) {
	a := &thing{NewID(), "a"}
	b := &thing{NewID(), "b"}
	c := &thing{NewID(), "c"}

	m := New[*thing]()
	test.That(t, m.Len(), test.ShouldEqual, 0)
	test.That(t, m.Has(a.id), test.ShouldBeFalse)

	t.Run("insert and lookup", func(t *testing.T) {
		test.That(t, m.Insert(a), test.ShouldBeNil)
		test.That(t, m.Insert(b), test.ShouldBeNil)
		test.That(t, m.Insert(c), test.ShouldBeNil)
		test.That(t, m.Len(), test.ShouldEqual, 3)

		got, ok := m.Element(b.id)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, got, test.ShouldEqual, b)
		test.That(t, m.IDs(), test.ShouldResemble, []ID{a.id, b.id, c.id})
	})

	t.Run("duplicate", func(t *testing.T) {
		err := m.Insert(&thing{a.id, "a again"})
		test.That(t, errors.Is(err, ErrDuplicateID), test.ShouldBeTrue)
		test.That(t, m.Len(), test.ShouldEqual, 3)
	})

	t.Run("nil id", func(t *testing.T) {
		test.That(t, m.Insert(&thing{}), test.ShouldNotBeNil)
	})

	t.Run("erase moves last element into the hole", func(t *testing.T) {
		test.That(t, m.Erase(a.id), test.ShouldBeTrue)
		test.That(t, m.Erase(a.id), test.ShouldBeFalse)
		test.That(t, m.Has(a.id), test.ShouldBeFalse)
		test.That(t, m.All(), test.ShouldResemble, []*thing{c, b})

		got, ok := m.Element(c.id)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, got, test.ShouldEqual, c)
		_, ok = m.Element(a.id)
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("reset", func(t *testing.T) {
		m.Reset()
		test.That(t, m.Len(), test.ShouldEqual, 0)
		test.That(t, m.Has(b.id), test.ShouldBeFalse)
		test.That(t, m.All(), test.ShouldBeEmpty)
	})
}
