package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// AABB is an axis aligned box given by its minimum and maximum corners. Bounds are closed.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// NewCubeAABB returns the cube with the given center and side length.
func NewCubeAABB(center r3.Vector, width float64) AABB {
	half := r3.Vector{X: width / 2, Y: width / 2, Z: width / 2}
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Center returns the center of the box.
func (b AABB) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Contains reports whether pt lies inside or on the box.
func (b AABB) Contains(pt r3.Vector) bool {
	return b.Min.X <= pt.X && pt.X <= b.Max.X &&
		b.Min.Y <= pt.Y && pt.Y <= b.Max.Y &&
		b.Min.Z <= pt.Z && pt.Z <= b.Max.Z
}

// ContainsAABB reports whether other lies entirely inside the box.
func (b AABB) ContainsAABB(other AABB) bool {
	return b.Contains(other.Min) && b.Contains(other.Max)
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: r3.Vector{X: math.Min(b.Min.X, other.Min.X), Y: math.Min(b.Min.Y, other.Min.Y), Z: math.Min(b.Min.Z, other.Min.Z)},
		Max: r3.Vector{X: math.Max(b.Max.X, other.Max.X), Y: math.Max(b.Max.Y, other.Max.Y), Z: math.Max(b.Max.Z, other.Max.Z)},
	}
}

// IntersectsRay performs a slab test of the ray against the box.
func (b AABB) IntersectsRay(ray Ray) bool {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	for i := 0; i < 3; i++ {
		o := component(ray.Origin, i)
		d := component(ray.Direction, i)
		lo := component(b.Min, i)
		hi := component(b.Max, i)
		if d == 0 {
			if o < lo || o > hi {
				return false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return tMax >= 0
}

// IntersectsSphere reports whether the box and the sphere overlap.
func (b AABB) IntersectsSphere(s Sphere) bool {
	closest := r3.Vector{
		X: math.Max(b.Min.X, math.Min(s.Center.X, b.Max.X)),
		Y: math.Max(b.Min.Y, math.Min(s.Center.Y, b.Max.Y)),
		Z: math.Max(b.Min.Z, math.Min(s.Center.Z, b.Max.Z)),
	}
	return s.ContainsPoint(closest)
}
