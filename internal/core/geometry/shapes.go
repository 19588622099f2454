package geometry

import (
	"github.com/chewxy/math32"
)

// Line is a segment from Start to End.
type Line struct {
	Start Vector
	End   Vector
}

// Seg builds a Line from two points.
func Seg(start, end Vector) Line { return Line{Start: start, End: end} }

// Translate shifts both endpoints.
func (l *Line) Translate(d Vector) {
	l.Start.Translate(d)
	l.End.Translate(d)
}

// Offset returns a copy of l shifted by d.
func (l Line) Offset(d Vector) Line {
	l.Translate(d)
	return l
}

func (l Line) Direction() Vector { return l.End.Sub(l.Start) }
func (l Line) Length() float32   { return math32.Sqrt(l.Start.Sub(l.End).Magsq()) }

func (l Line) Center() Vector {
	return Vector{Average(l.Start.X, l.End.X), Average(l.Start.Y, l.End.Y)}
}

// MirrorX reflects the segment across the horizontal line through p.
func (l Line) MirrorX(p Vector) Line {
	return Line{l.Start.MirrorX(p), l.End.MirrorX(p)}
}

// MirrorY reflects the segment across the vertical line through p.
func (l Line) MirrorY(p Vector) Line {
	return Line{l.Start.MirrorY(p), l.End.MirrorY(p)}
}

// Rectangle is an axis-aligned box. Size components are never negative.
type Rectangle struct {
	Origin Vector
	size   Vector
}

// Rect builds a rectangle; negative extents are folded to their absolute value.
func Rect(origin, size Vector) Rectangle {
	return Rectangle{Origin: origin, size: size.Abs()}
}

// RectXYWH is Rect from scalars.
func RectXYWH(x, y, w, h float32) Rectangle {
	return Rect(Vector{x, y}, Vector{w, h})
}

func (r Rectangle) Size() Vector    { return r.size }
func (r Rectangle) Width() float32  { return r.size.X }
func (r Rectangle) Height() float32 { return r.size.Y }
func (r Rectangle) Center() Vector  { return r.Origin.Add(r.size.Div(2)) }
func (r Rectangle) Far() Vector     { return r.Origin.Add(r.size) }

// Translate moves the origin.
func (r *Rectangle) Translate(d Vector) {
	r.Origin.Translate(d)
}

// Grow adds delta to the size. Callers shrinking a rectangle must keep the
// result non-negative themselves; Grow does not fold signs.
func (r *Rectangle) Grow(delta Vector) {
	r.size = r.size.Add(delta)
}

// Inset returns r shrunk by d on every side.
func (r Rectangle) Inset(d float32) Rectangle {
	r.Translate(Vector{d, d})
	r.Grow(Vector{-2 * d, -2 * d})
	return r
}

// Top runs left to right along the top edge.
func (r Rectangle) Top() Line {
	return Line{r.Origin, Vector{r.Origin.X + r.size.X, r.Origin.Y}}
}

// Right runs bottom to top along the right edge.
func (r Rectangle) Right() Line {
	return Line{r.Far(), Vector{r.Origin.X + r.size.X, r.Origin.Y}}
}

// Bottom runs right to left along the bottom edge.
func (r Rectangle) Bottom() Line {
	return Line{r.Far(), Vector{r.Origin.X, r.Origin.Y + r.size.Y}}
}

// Left runs top to bottom along the left edge.
func (r Rectangle) Left() Line {
	return Line{r.Origin, Vector{r.Origin.X, r.Origin.Y + r.size.Y}}
}

// Edges returns Top, Right, Bottom, Left in that order.
func (r Rectangle) Edges() [4]Line {
	return [4]Line{r.Top(), r.Right(), r.Bottom(), r.Left()}
}

// Contain is inclusive of the boundary.
func (r Rectangle) Contain(p Vector) bool {
	d := p.Sub(r.Origin)
	return d.X >= 0 && d.Y >= 0 && d.X <= r.size.X && d.Y <= r.size.Y
}

// ClosestPointTo returns the boundary point nearest p when p is outside,
// and p itself when p is inside.
func (r Rectangle) ClosestPointTo(p Vector) Vector {
	far := r.Far()
	return Vector{
		math32.Min(math32.Max(p.X, r.Origin.X), far.X),
		math32.Min(math32.Max(p.Y, r.Origin.Y), far.Y),
	}
}

// MirrorX reflects the rectangle's centre across the horizontal line through p.
func (r Rectangle) MirrorX(p Vector) Rectangle {
	return Rect(r.Center().MirrorX(p).Sub(r.size.Div(2)), r.size)
}

// MirrorY reflects the rectangle's centre across the vertical line through p.
func (r Rectangle) MirrorY(p Vector) Rectangle {
	return Rect(r.Center().MirrorY(p).Sub(r.size.Div(2)), r.size)
}

// Circle is a disc.
type Circle struct {
	Center Vector
	Radius float32
}

// Disc builds a Circle.
func Disc(center Vector, radius float32) Circle {
	return Circle{Center: center, Radius: radius}
}

func (c *Circle) Translate(d Vector) { c.Center.Translate(d) }
func (c *Circle) Scale(f float32)    { c.Radius *= f }
func (c *Circle) Grow(d float32)     { c.Radius += d }
func (c *Circle) SetCenter(p Vector) { c.Center = p }

// Inflate returns a copy with the radius increased by d (Minkowski sum with a disc of radius d).
func (c Circle) Inflate(d float32) Circle {
	c.Grow(d)
	return c
}

// At returns a copy of c moved to p.
func (c Circle) At(p Vector) Circle {
	c.Center = p
	return c
}

// Contain is inclusive of the boundary.
func (c Circle) Contain(p Vector) bool {
	return p.Sub(c.Center).Magsq() <= c.Radius*c.Radius
}

func (c Circle) MirrorX(p Vector) Circle { return Circle{c.Center.MirrorX(p), c.Radius} }
func (c Circle) MirrorY(p Vector) Circle { return Circle{c.Center.MirrorY(p), c.Radius} }

// Triangle is three vertices; used for the aim direction sign.
type Triangle struct {
	A, B, C Vector
}
