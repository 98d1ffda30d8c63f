package models

import (
	"fmt"
	"math"
)

// ============================================================
// Vectors
// ============================================================

// Vec3 is a size or a point in capture space (metres). For a bounding box
// X is the length, Y the height and Z the thickness.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// ============================================================
// Transforms
// ============================================================

// Mat4 is a 4x4 rigid transform indexed [column][row]. Column 3 holds the
// homogeneous translation; the upper-left 3x3 block is the rotation.
type Mat4 [4][4]float64

// Identity returns the identity transform.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// RotationY returns a rotation of angle radians about the vertical axis.
func RotationY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		{c, 0, -s, 0},
		{0, 1, 0, 0},
		{s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns a pure translation.
func Translation(v Vec3) Mat4 {
	m := Identity()
	m[3][0], m[3][1], m[3][2] = v.X, v.Y, v.Z
	return m
}

// Mat4FromColumns builds a transform from 16 column-major values.
func Mat4FromColumns(values []float64) (Mat4, error) {
	var m Mat4
	if len(values) != 16 {
		return m, fmt.Errorf("transform needs 16 values, got %d", len(values))
	}
	for i, v := range values {
		m[i/4][i%4] = v
	}
	return m, nil
}

// Columns flattens the transform column by column.
func (m Mat4) Columns() [16]float64 {
	var out [16]float64
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = m[c][r]
		}
	}
	return out
}

// Mul returns m*o (o is applied first).
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k][r] * o[c][k]
			}
			out[c][r] = sum
		}
	}
	return out
}

// Position is the translation column.
func (m Mat4) Position() Vec3 {
	return Vec3{m[3][0], m[3][1], m[3][2]}
}

// TransformPoint maps a local point into capture space.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*p.X + m[1][0]*p.Y + m[2][0]*p.Z + m[3][0],
		Y: m[0][1]*p.X + m[1][1]*p.Y + m[2][1]*p.Z + m[3][1],
		Z: m[0][2]*p.X + m[1][2]*p.Y + m[2][2]*p.Z + m[3][2],
	}
}

// EulerAngles decomposes the rotation block into pitch (X), yaw (Y) and
// roll (Z). Components that cannot be recovered come back as 0.
func (m Mat4) EulerAngles() Vec3 {
	return Vec3{
		X: math.Asin(clampUnit(-m[2][1])),
		Y: angle(m[2][0], m[2][2]),
		Z: angle(m[0][1], m[1][1]),
	}
}

// Yaw is the heading of the local forward (Z) column in the horizontal plane.
func (m Mat4) Yaw() float64 {
	return angle(m[2][0], m[2][2])
}

func angle(y, x float64) float64 {
	if math.IsNaN(y) || math.IsNaN(x) || math.IsInf(y, 0) || math.IsInf(x, 0) {
		return 0
	}
	if y == 0 && x == 0 {
		return 0
	}
	return math.Atan2(y, x)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
