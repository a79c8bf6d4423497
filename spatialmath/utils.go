package spatialmath

import (
	"github.com/golang/geo/r3"
)

const floatEpsilon = 1e-6

// PlaneNormal returns the unit normal of the plane through the three given points, using the right hand rule
// on the order p0, p1, p2. Colinear points produce the zero vector.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

// ClosestPointSegmentPoint returns the point on the segment from start to end that is closest to pt.
func ClosestPointSegmentPoint(start, end, pt r3.Vector) r3.Vector {
	segment := end.Sub(start)
	lengthSq := segment.Norm2()
	if lengthSq < floatEpsilon*floatEpsilon {
		return start
	}
	t := pt.Sub(start).Dot(segment) / lengthSq
	switch {
	case t <= 0:
		return start
	case t >= 1:
		return end
	default:
		return start.Add(segment.Mul(t))
	}
}

// component returns the i'th coordinate of v, with 0, 1 and 2 being X, Y and Z.
func component(v r3.Vector, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
