package fan

import (
	"fmt"
	"math"
)

// Transform is a 2D affine transformation in column-vector form:
//
//	| A  B  C |
//	| D  E  F |
//
// which maps a point as
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
//
// Card transforms are expressed in the card's local space with the origin at
// the card center, and the y axis pointing down.
type Transform struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
	E float64 `json:"e"`
	F float64 `json:"f"`
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, E: 1}
}

// Translation returns a pure translation.
func Translation(x, y float64) Transform {
	return Transform{A: 1, C: x, E: 1, F: y}
}

// Scaling returns a pure scale.
func Scaling(sx, sy float64) Transform {
	return Transform{A: sx, E: sy}
}

// Rotation returns a rotation by angle radians. With y pointing down a
// positive angle turns clockwise on screen.
func Rotation(angle float64) Transform {
	sin, cos := math.Sincos(angle)
	return Transform{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Multiply returns m * o: o is applied first, then m.
func (m Transform) Multiply(o Transform) Transform {
	return Transform{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

// Translated prepends a translation in the transform's local space, so that
// chained calls read in application order from the outside in.
func (m Transform) Translated(x, y float64) Transform {
	return m.Multiply(Translation(x, y))
}

// Scaled prepends a scale in the transform's local space.
func (m Transform) Scaled(sx, sy float64) Transform {
	return m.Multiply(Scaling(sx, sy))
}

// Rotated prepends a rotation in the transform's local space.
func (m Transform) Rotated(angle float64) Transform {
	return m.Multiply(Rotation(angle))
}

// Apply maps the point (x, y).
func (m Transform) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// IsIdentity reports whether m is exactly the identity.
func (m Transform) IsIdentity() bool {
	return m == Identity()
}

// ApproxEqual compares all six coefficients within eps.
func (m Transform) ApproxEqual(o Transform, eps float64) bool {
	return math.Abs(m.A-o.A) <= eps && math.Abs(m.B-o.B) <= eps &&
		math.Abs(m.C-o.C) <= eps && math.Abs(m.D-o.D) <= eps &&
		math.Abs(m.E-o.E) <= eps && math.Abs(m.F-o.F) <= eps
}

// SVG formats m as an SVG transform attribute value.
func (m Transform) SVG() string {
	return fmt.Sprintf("matrix(%.4f %.4f %.4f %.4f %.2f %.2f)", m.A, m.D, m.B, m.E, m.C, m.F)
}
