package utils

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestMedian(t *testing.T) {
	test.That(t, math.IsNaN(Median()), test.ShouldBeTrue)
	values := []float64{3, 1, 2}
	test.That(t, Median(values...), test.ShouldEqual, 2.0)
	test.That(t, values, test.ShouldResemble, []float64{3, 1, 2})
	test.That(t, Median(4, 1, 3, 2), test.ShouldEqual, 3.0)
}

func TestFloat64AlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1, 1.0000001, 1e-6), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.1, 1e-6), test.ShouldBeFalse)
}

func TestParseVector(t *testing.T) {
	v, err := ParseVector("1, -2.5,3e1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldResemble, r3.Vector{X: 1, Y: -2.5, Z: 30})

	_, err = ParseVector("1,2")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = ParseVector("1,2,z")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewUnexpectedTypeError(t *testing.T) {
	err := NewUnexpectedTypeError(1, "x")
	test.That(t, err.Error(), test.ShouldEqual, "expected int but got string")
}
