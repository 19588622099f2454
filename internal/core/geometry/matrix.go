package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Matrix is a 2x2 linear map. The zero value maps everything to the origin.
type Matrix struct {
	m mgl32.Mat2
}

// NewMatrix builds a matrix from its rows:
//
//	| a b |
//	| c d |
func NewMatrix(a, b, c, d float32) Matrix {
	// mgl32 stores column-major.
	return Matrix{m: mgl32.Mat2{a, c, b, d}}
}

var (
	// RotateCCW turns a vector by +90 degrees in screen coordinates (y down).
	RotateCCW = NewMatrix(0, 1, -1, 0)
	// RotateCW turns a vector by -90 degrees in screen coordinates (y down).
	RotateCW = NewMatrix(0, -1, 1, 0)
)

// Apply returns m·v.
func (m Matrix) Apply(v Vector) Vector {
	r := m.m.Mul2x1(mgl32.Vec2{v.X, v.Y})
	return Vector{r[0], r[1]}
}

// Row returns row i (0 or 1) as a vector.
func (m Matrix) Row(i int) Vector {
	r := m.m.Row(i)
	return Vector{r[0], r[1]}
}
