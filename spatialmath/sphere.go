package spatialmath

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Sphere is a solid ball, used by brush queries to select nearby geometry.
type Sphere struct {
	Center r3.Vector
	Radius float64
}

// NewSphere returns a sphere of the given center and radius.
func NewSphere(center r3.Vector, radius float64) (Sphere, error) {
	if !(radius >= 0) {
		return Sphere{}, errors.Errorf("invalid sphere radius (%.2f)", radius)
	}
	return Sphere{Center: center, Radius: radius}, nil
}

// ContainsPoint reports whether pt lies inside or on the sphere.
func (s Sphere) ContainsPoint(pt r3.Vector) bool {
	return pt.Sub(s.Center).Norm2() <= s.Radius*s.Radius
}
