// Package utils contains small helpers shared by the editor packages and tools.
package utils

import (
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ParseVector parses "x,y,z" into a vector.
func ParseVector(s string) (r3.Vector, error) {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string { return strings.TrimSpace(p) })
	if len(parts) != 3 {
		return r3.Vector{}, errors.Errorf("expected three comma separated components, got %q", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return r3.Vector{}, errors.Wrapf(err, "invalid component %d of %q", i, s)
		}
		xyz[i] = f
	}
	return r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
