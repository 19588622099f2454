// Package geometry holds the 2D value types the collision engine works on.
// All types are plain values; only the pointer-receiver methods
// (Translate, Scale, Grow, SetCenter, ...) mutate.
package geometry

import (
	"github.com/chewxy/math32"
)

// Vector is a 2D point or displacement.
type Vector struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Vec is a shorthand constructor.
func Vec(x, y float32) Vector { return Vector{X: x, Y: y} }

func (v Vector) Neg() Vector          { return Vector{-v.X, -v.Y} }
func (v Vector) Add(o Vector) Vector  { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector  { return Vector{v.X - o.X, v.Y - o.Y} }
func (v Vector) Mul(f float32) Vector { return Vector{v.X * f, v.Y * f} }
func (v Vector) Div(f float32) Vector { return Vector{v.X / f, v.Y / f} }
func (v Vector) Abs() Vector          { return Vector{math32.Abs(v.X), math32.Abs(v.Y)} }
func (v Vector) Swap() Vector         { return Vector{v.Y, v.X} }
func (v Vector) Perp() Vector         { return Vector{-v.Y, v.X} }
func (v Vector) Magsq() float32       { return v.X*v.X + v.Y*v.Y }
func (v Vector) Equal(o Vector) bool  { return v.X == o.X && v.Y == o.Y }

// Translate moves v in place.
func (v *Vector) Translate(d Vector) {
	v.X += d.X
	v.Y += d.Y
}

// Unit returns v scaled to length one.
// v must not be the zero vector; the result is NaN otherwise.
func (v Vector) Unit() Vector {
	return v.Div(math32.Sqrt(v.Magsq()))
}

// MirrorX reflects v across the horizontal line through p.
func (v Vector) MirrorX(p Vector) Vector {
	return Vector{v.X, 2*p.Y - v.Y}
}

// MirrorY reflects v across the vertical line through p.
func (v Vector) MirrorY(p Vector) Vector {
	return Vector{2*p.X - v.X, v.Y}
}

// ApproxEqual compares component-wise within margin.
func (v Vector) ApproxEqual(o Vector, margin float32) bool {
	return Equal(v.X, o.X, margin) && Equal(v.Y, o.Y, margin)
}

// Dot is the scalar product of a and b.
func Dot(a, b Vector) float32 {
	return a.X*b.X + a.Y*b.Y
}

// Equal reports whether two floats differ by less than margin.
func Equal(a, b, margin float32) bool {
	return math32.Abs(a-b) < margin
}

// Average is the midpoint of two scalars.
func Average(a, b float32) float32 {
	return (a + b) / 2
}
