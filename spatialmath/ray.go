package spatialmath

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Ray is a half line starting at Origin. Direction has unit length.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
}

// NewRay returns a ray from origin in the given direction, which is normalized.
func NewRay(origin, direction r3.Vector) (Ray, error) {
	if !(direction.Norm2() >= floatEpsilon*floatEpsilon) {
		return Ray{}, errors.Errorf("invalid ray direction %v", direction)
	}
	return Ray{Origin: origin, Direction: direction.Normalize()}, nil
}

// PointAt returns the point at distance t along the ray.
func (r Ray) PointAt(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}
