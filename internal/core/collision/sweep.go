package collision

import (
	"github.com/zeusync/duel/internal/core/geometry"
)

// CircleVsCircle sweeps moving along velocity against a static circle.
// A body that already overlaps the target and is not heading into it is
// ignored, so a pawn resting against a circle can leave it.
func CircleVsCircle(moving, static geometry.Circle, velocity geometry.Line) float32 {
	normal := velocity.Start.Sub(static.Center)
	reach := moving.Radius + static.Radius

	if normal.Magsq() <= reach*reach && geometry.Dot(normal, velocity.Direction()) >= 0 {
		return NoHit
	}

	return IntersectCircle(velocity, static.Inflate(moving.Radius))
}

// CircleVsLine sweeps moving against a segment treated as a capsule: two
// sides offset by the moving radius plus a cap circle at each endpoint.
func CircleVsLine(moving geometry.Circle, static geometry.Line, velocity geometry.Line) float32 {
	dir := static.Direction()
	if dir.Magsq() == 0 {
		return IntersectCircle(velocity, moving.At(static.Start))
	}

	side := dir.Unit().Perp().Mul(moving.Radius)

	return Min(
		IntersectLines(velocity, static.Offset(side)),
		IntersectLines(velocity, static.Offset(side.Neg())),
		IntersectCircle(velocity, moving.At(static.Start)),
		IntersectCircle(velocity, moving.At(static.End)),
	)
}

// CircleVsRectangle sweeps moving against the Minkowski sum of rect and the
// moving disc: four edges pushed outward by the radius plus four corner
// circles. A body touching the rectangle and moving away from it is ignored.
func CircleVsRectangle(moving geometry.Circle, rect geometry.Rectangle, velocity geometry.Line) float32 {
	r := moving.Radius

	away := velocity.Start.Sub(rect.ClosestPointTo(velocity.Start))
	if away.Magsq() <= r*r && geometry.Dot(away, velocity.Direction()) >= 0 {
		return NoHit
	}

	top, right, bottom, left := rect.Top(), rect.Right(), rect.Bottom(), rect.Left()

	topLeft := moving.At(top.Start)
	topRight := moving.At(top.End)
	bottomRight := moving.At(bottom.Start)
	bottomLeft := moving.At(bottom.End)

	top.Translate(geometry.Vec(0, -r))
	right.Translate(geometry.Vec(r, 0))
	bottom.Translate(geometry.Vec(0, r))
	left.Translate(geometry.Vec(-r, 0))

	return Min(
		IntersectLines(velocity, top),
		IntersectLines(velocity, right),
		IntersectLines(velocity, bottom),
		IntersectLines(velocity, left),
		IntersectCircle(velocity, topLeft),
		IntersectCircle(velocity, topRight),
		IntersectCircle(velocity, bottomRight),
		IntersectCircle(velocity, bottomLeft),
	)
}

// CircleInsideRectangle reports when moving, travelling inside rect, reaches
// its boundary: the rectangle is shrunk by the radius and the velocity is
// tested against the four shrunken edges.
func CircleInsideRectangle(moving geometry.Circle, rect geometry.Rectangle, velocity geometry.Line) float32 {
	inner := rect.Inset(moving.Radius)
	edges := inner.Edges()

	return Min(
		IntersectLines(velocity, edges[0]),
		IntersectLines(velocity, edges[1]),
		IntersectLines(velocity, edges[2]),
		IntersectLines(velocity, edges[3]),
	)
}
