package winged

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/sculpt/octree"
)

// maxIcosphereSubdivisions keeps the face count within what an editor can hold.
const maxIcosphereSubdivisions = 8

// IcosphereGeometry returns the vertices and counter-clockwise triangles of an icosahedron whose faces were split
// into four the given number of times, projected onto a sphere of the given radius around the origin.
func IcosphereGeometry(subdivisions int, radius float64) ([]r3.Vector, [][3]int, error) {
	if subdivisions < 0 || subdivisions > maxIcosphereSubdivisions {
		return nil, nil, errors.Errorf("subdivisions must be in [0, %d], got %d", maxIcosphereSubdivisions, subdivisions)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, nil, errors.Errorf("radius must be positive, got %v", radius)
	}

	t := (1 + math.Sqrt(5)) / 2
	positions := []r3.Vector{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	triangles := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	for i := range positions {
		positions[i] = positions[i].Normalize()
	}

	for s := 0; s < subdivisions; s++ {
		midpoints := map[vertexPair]int{}
		midpoint := func(a, b int) int {
			key := newVertexPair(a, b)
			if i, ok := midpoints[key]; ok {
				return i
			}
			positions = append(positions, positions[a].Add(positions[b]).Normalize())
			midpoints[key] = len(positions) - 1
			return len(positions) - 1
		}
		split := make([][3]int, 0, 4*len(triangles))
		for _, tri := range triangles {
			a, b, c := tri[0], tri[1], tri[2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			split = append(split, [3]int{a, ab, ca}, [3]int{b, bc, ab}, [3]int{c, ca, bc}, [3]int{ab, bc, ca})
		}
		triangles = split
	}

	for i := range positions {
		positions[i] = positions[i].Mul(radius)
	}
	return positions, triangles, nil
}

// Icosphere builds a closed sphere mesh around the origin.
func Icosphere(cfg octree.Config, logger golog.Logger, subdivisions int, radius float64) (*Mesh, error) {
	positions, triangles, err := IcosphereGeometry(subdivisions, radius)
	if err != nil {
		return nil, err
	}
	return FromIndexed(cfg, logger, positions, triangles)
}
