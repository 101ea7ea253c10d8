package view

import (
	"math"
	"strings"
)

// MaxStars is the top of the rating scale.
const MaxStars = 5

// Stars renders a rating as filled and empty stars. The point is clamped to
// [0,5] and rounded.
func Stars(point float64) string {
	if math.IsNaN(point) {
		point = 0
	}
	p := int(math.Round(math.Max(0, math.Min(MaxStars, point))))
	return strings.Repeat("★", p) + strings.Repeat("☆", MaxStars-p)
}

// starsOf lets templates pass either an int point or a float average.
func starsOf(v any) string {
	switch n := v.(type) {
	case int:
		return Stars(float64(n))
	case int64:
		return Stars(float64(n))
	case float64:
		return Stars(n)
	default:
		return Stars(0)
	}
}
