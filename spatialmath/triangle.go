package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// parallelEpsilon bounds the determinant below which a ray is treated as parallel to a triangle.
const parallelEpsilon = 1e-12

// Triangle is three points in space together with the normal of the plane they span.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle creates a triangle from three points. The normal follows the right hand rule on p0, p1, p2.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
	}
}

// Points returns the corners of the triangle.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the unit normal of the triangle.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// Area returns the area of the triangle.
func (t *Triangle) Area() float64 {
	return 0.5 * t.p1.Sub(t.p0).Cross(t.p2.Sub(t.p0)).Norm()
}

// Centroid returns the mean of the three corners.
func (t *Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3.)
}

// Min returns the minimum corner of the triangle's axis aligned bounding box.
func (t *Triangle) Min() r3.Vector {
	return r3.Vector{
		X: math.Min(t.p0.X, math.Min(t.p1.X, t.p2.X)),
		Y: math.Min(t.p0.Y, math.Min(t.p1.Y, t.p2.Y)),
		Z: math.Min(t.p0.Z, math.Min(t.p1.Z, t.p2.Z)),
	}
}

// Max returns the maximum corner of the triangle's axis aligned bounding box.
func (t *Triangle) Max() r3.Vector {
	return r3.Vector{
		X: math.Max(t.p0.X, math.Max(t.p1.X, t.p2.X)),
		Y: math.Max(t.p0.Y, math.Max(t.p1.Y, t.p2.Y)),
		Z: math.Max(t.p0.Z, math.Max(t.p1.Z, t.p2.Z)),
	}
}

// MaxExtent returns the longest side of the triangle's axis aligned bounding box.
func (t *Triangle) MaxExtent() float64 {
	d := t.Max().Sub(t.Min())
	return math.Max(d.X, math.Max(d.Y, d.Z))
}

// Bounds returns the triangle's axis aligned bounding box.
func (t *Triangle) Bounds() AABB {
	return AABB{Min: t.Min(), Max: t.Max()}
}

// ClosestPointToPoint takes a point, and returns the closest point on the triangle to the given point.
func (t *Triangle) ClosestPointToPoint(point r3.Vector) r3.Vector {
	closestPtInside, inside := t.ClosestInsidePoint(point)
	if inside {
		return closestPtInside
	}

	// If the closest point is outside the triangle, it must be on an edge, so we
	// check each triangle edge for a closest point to the point pt.
	closestPt := ClosestPointSegmentPoint(t.p0, t.p1, point)
	bestDist := point.Sub(closestPt).Norm2()

	newPt := ClosestPointSegmentPoint(t.p1, t.p2, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		closestPt = newPt
		bestDist = newDist
	}

	newPt = ClosestPointSegmentPoint(t.p2, t.p0, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		return newPt
	}
	return closestPt
}

// ClosestInsidePoint returns the closest point on a triangle IF AND ONLY IF the query point's projection overlaps the triangle.
// Otherwise it will return the query point's projection onto the triangle's plane and false.
func (t *Triangle) ClosestInsidePoint(point r3.Vector) (r3.Vector, bool) {
	eps := 1e-6

	// Parametrize the triangle s.t. a point inside the triangle is
	// Q = p0 + u * e0 + v * e1, when 0 <= u <= 1, 0 <= v <= 1, and
	// 0 <= u + v <= 1. Let e0 = (p1 - p0) and e1 = (p2 - p0).
	// We analytically minimize the distance between the point pt and Q.
	e0 := t.p1.Sub(t.p0)
	e1 := t.p2.Sub(t.p0)
	a := e0.Norm2()
	b := e0.Dot(e1)
	c := e1.Norm2()
	d := point.Sub(t.p0)
	// The determinant is 0 only if the angle between e1 and e0 is 0
	// (i.e. the triangle has overlapping lines).
	det := (a*c - b*b)
	if det == 0 {
		return point, false
	}
	u := (c*e0.Dot(d) - b*e1.Dot(d)) / det
	v := (-b*e0.Dot(d) + a*e1.Dot(d)) / det
	inside := (0 <= u+eps) && (u <= 1+eps) && (0 <= v+eps) && (v <= 1+eps) && (u+v <= 1+eps)
	return t.p0.Add(e0.Mul(u)).Add(e1.Mul(v)), inside
}

// IntersectRay returns the point where the ray hits the triangle and its distance from the ray origin.
// Both faces of the triangle are hit; hits behind the origin are not.
func (t *Triangle) IntersectRay(ray Ray) (r3.Vector, float64, bool) {
	e1 := t.p1.Sub(t.p0)
	e2 := t.p2.Sub(t.p0)
	p := ray.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < parallelEpsilon {
		return r3.Vector{}, 0, false
	}
	invDet := 1 / det

	s := ray.Origin.Sub(t.p0)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return r3.Vector{}, 0, false
	}
	q := s.Cross(e1)
	v := ray.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return r3.Vector{}, 0, false
	}
	dist := e2.Dot(q) * invDet
	if dist < 0 {
		return r3.Vector{}, 0, false
	}
	return ray.PointAt(dist), dist, true
}

// IntersectsSphere reports whether any point of the triangle lies within the sphere.
func (t *Triangle) IntersectsSphere(s Sphere) bool {
	closest := t.ClosestPointToPoint(s.Center)
	return closest.Sub(s.Center).Norm2() <= s.Radius*s.Radius
}
