// Package collision computes swept time-of-impact between a moving circle and
// static shapes.
//
// Every test answers one question: at which fraction t of the velocity segment
// does the moving body first touch the target? t is in [0, 1] for a hit and
// NoHit otherwise. NoHit is larger than any valid t, so composite tests reduce
// with Min and never need to special-case misses.
package collision

import (
	"github.com/chewxy/math32"

	"github.com/zeusync/duel/internal/core/geometry"
)

// NoHit is the time-of-impact reported when a sweep never touches its target.
const NoHit float32 = 2

// Hit reports whether t is a valid time-of-impact.
func Hit(t float32) bool {
	return t != NoHit
}

// Min returns the earliest time-of-impact, or NoHit when ts is empty or has no hit.
func Min(ts ...float32) float32 {
	earliest := NoHit
	for _, t := range ts {
		if t < earliest {
			earliest = t
		}
	}
	return earliest
}

// IntersectLines returns the parameter t along moving at which it crosses
// static. Both parameters must lie in [0, 1]. Parallel and collinear pairs
// never report a hit, even when they overlap.
func IntersectLines(moving, static geometry.Line) float32 {
	a := moving.End.Sub(moving.Start)
	b := static.Start.Sub(static.End)
	c := moving.Start.Sub(static.Start)

	tNum := b.Y*c.X - b.X*c.Y
	uNum := c.Y*a.X - c.X*a.Y
	den := a.Y*b.X - a.X*b.Y

	// t < 0 or u < 0
	if den > 0 && (tNum < 0 || uNum < 0) {
		return NoHit
	}
	if den < 0 && (tNum > 0 || uNum > 0) {
		return NoHit
	}

	// t > 1 or u > 1
	if den > 0 && (tNum > den || uNum > den) {
		return NoHit
	}
	if den < 0 && (tNum < den || uNum < den) {
		return NoHit
	}

	if den == 0 {
		return NoHit
	}

	return tNum / den
}

// IntersectCircle returns the parameter t along line at which it crosses the
// boundary of circle. The entry root is preferred; the exit root is used only
// when the entry root falls outside the segment (the segment starts inside).
func IntersectCircle(line geometry.Line, circle geometry.Circle) float32 {
	x := line.Start.Sub(circle.Center)
	y := line.End.Sub(line.Start)

	a := geometry.Dot(y, y)
	b := 2 * geometry.Dot(x, y)
	c := geometry.Dot(x, x) - circle.Radius*circle.Radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return NoHit
	}
	disc = math32.Sqrt(disc)

	// a == 0 yields NaN or Inf roots, both of which fail the range checks.
	tMin := (-b - disc) / (2 * a)
	tMax := (-b + disc) / (2 * a)

	switch {
	case tMin >= 0 && tMin <= 1:
		return tMin
	case tMax >= 0 && tMax <= 1:
		return tMax
	default:
		return NoHit
	}
}
