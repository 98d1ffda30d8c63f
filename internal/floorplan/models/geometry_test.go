package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMat4FromColumns(t *testing.T) {
	values := []float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 2, 3, 4, 1}
	m, err := Mat4FromColumns(values)
	require.NoError(t, err)

	assert.Equal(t, Vec3{2, 3, 4}, m.Position())
	cols := m.Columns()
	assert.Equal(t, values, cols[:])

	_, err = Mat4FromColumns(values[:15])
	assert.Error(t, err)
}

func TestEulerAngles_Yaw(t *testing.T) {
	for _, yaw := range []float64{0, 0.3, math.Pi / 2, -2.5} {
		e := RotationY(yaw).EulerAngles()
		assert.InDelta(t, yaw, e.Y, 1e-12, "yaw %v", yaw)
		assert.InDelta(t, 0, e.Z, 1e-12)
		assert.InDelta(t, yaw, RotationY(yaw).Yaw(), 1e-12)
	}
}

func TestEulerAngles_Degenerate(t *testing.T) {
	var zero Mat4
	e := zero.EulerAngles()
	assert.Equal(t, 0.0, e.Y)
	assert.Equal(t, 0.0, e.Z)

	nan := Identity()
	nan[2][0] = math.NaN()
	assert.Equal(t, 0.0, nan.EulerAngles().Y)

	assert.Equal(t, Vec3{}, Identity().EulerAngles())
}

func TestTransformPoint(t *testing.T) {
	m := Translation(Vec3{1, 0, 2}).Mul(RotationY(math.Pi / 2))
	p := m.TransformPoint(Vec3{1, 0, 0})

	assert.InDelta(t, 1, p.X, 1e-12)
	assert.InDelta(t, 0, p.Y, 1e-12)
	assert.InDelta(t, 1, p.Z, 1e-12)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, ObjectWasherDryer, ParseObjectCategory("washerDryer"))
	assert.Equal(t, "WasherDryer", ObjectWasherDryer.String())
	assert.Equal(t, ObjectUnknown, ParseObjectCategory("hammock"))
	assert.Equal(t, "Unknown", ObjectCategory(99).String())

	assert.Equal(t, SurfaceDoor, ParseSurfaceCategory("door"))
	assert.Equal(t, SurfaceUnknown, ParseSurfaceCategory("skylight"))
	assert.Equal(t, "Unknown", SurfaceCategory(42).String())
}

func TestSampleRoom(t *testing.T) {
	room := SampleRoom()
	counts := room.Counts()

	assert.Equal(t, 4, counts.Walls)
	assert.Equal(t, 1, counts.Doors)
	assert.Equal(t, 1, counts.Windows)
	assert.Equal(t, 2, counts.Objects)
	assert.Len(t, room.Surfaces(), 6)
}
