package schematic

import (
	"math"
	"testing"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/dimension"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projected(cat models.SurfaceCategory, length float64) projection.ProjectedSurface {
	return projection.ProjectedSurface{
		ProjectedElement: projection.ProjectedElement{
			Dimensions: models.Vec3{X: length, Y: 2, Z: 0.2},
		},
		Category: cat,
	}
}

func kinds(prims []Primitive) []Kind {
	out := make([]Kind, len(prims))
	for i, p := range prims {
		out[i] = p.Kind
	}
	return out
}

func TestSurface_Wall(t *testing.T) {
	prims := Surface(projected(models.SurfaceWall, 3), ScalingFactor, dimension.NewLabeler(dimension.Metric))
	require.Equal(t, []Kind{KindLine, KindDimension, KindLabel}, kinds(prims))

	wall := prims[0]
	assert.Equal(t, PaintWall, wall.Paint)
	assert.Equal(t, wallWidth, wall.Width)
	assert.Equal(t, CapRound, wall.Cap)
	require.Len(t, wall.Paths, 1)
	assert.InDelta(t, -300, wall.Paths[0][0].X(), 1e-9)
	assert.InDelta(t, 300, wall.Paths[0][1].X(), 1e-9)

	// two ticks and two segments either side of the label gap
	dim := prims[1]
	require.Len(t, dim.Paths, 4)
	assert.InDelta(t, -dimensionLineDistFromSurface, dim.Paths[2][0].Y(), 1e-9)
	assert.InDelta(t, -dimensionLabelWidth/2, dim.Paths[2][1].X(), 1e-9)

	label := prims[2]
	assert.Equal(t, "3.00 m", label.Text)
	assert.InDelta(t, -dimensionLineDistFromSurface-labelFontSize/2, label.Anchor.Y(), 1e-9)
}

func TestSurface_ShortWallHasNoGapSegments(t *testing.T) {
	prims := Surface(projected(models.SurfaceWall, 0.1), ScalingFactor, dimension.NewLabeler(dimension.Metric))
	require.Len(t, prims, 3)
	assert.Len(t, prims[1].Paths, 2)
	assert.Equal(t, "10.00 cm", prims[2].Text)
}

func TestSurface_Door(t *testing.T) {
	prims := Surface(projected(models.SurfaceDoor, 0.9), ScalingFactor, dimension.NewLabeler(dimension.Metric))
	require.Equal(t, []Kind{KindLine, KindLine, KindDashedArc, KindDimension, KindLabel}, kinds(prims))

	hide := prims[0]
	assert.Equal(t, LayerHiddenWall, hide.Layer)
	assert.Equal(t, PaintBackground, hide.Paint)
	assert.Equal(t, hideSurfaceWidth, hide.Width)

	leaf := prims[1]
	assert.Equal(t, LayerDoor, leaf.Layer)
	assert.InDelta(t, -90, leaf.Paths[0][0].X(), 1e-9)
	assert.InDelta(t, 180, leaf.Paths[0][1].Y(), 1e-9)

	arc := prims[2]
	assert.Equal(t, LayerDoorArc, arc.Layer)
	assert.NotEmpty(t, arc.Paths)
	for _, dash := range arc.Paths {
		// every dash endpoint lies on the swing radius around the hinge
		for _, p := range dash {
			r := math.Hypot(p.X()+90, p.Y())
			assert.InDelta(t, 180, r, 1e-9)
		}
	}
	last := arc.Paths[len(arc.Paths)-1][1]
	assert.LessOrEqual(t, math.Atan2(last.Y(), last.X()+90), math.Pi/2+1e-12)

	// door annotations sit further from the wall than a wall's
	assert.InDelta(t, -dimensionLineDistFromSurface-doorWindowDimensionOffset, prims[3].Paths[2][0].Y(), 1e-9)
	assert.Equal(t, "90.00 cm", prims[4].Text)
}

func TestSurface_ZeroWidthDoorHasNoArc(t *testing.T) {
	prims := Surface(projected(models.SurfaceDoor, 0), ScalingFactor, dimension.NewLabeler(dimension.Metric))
	assert.NotContains(t, kinds(prims), KindDashedArc)
}

func TestSurface_Window(t *testing.T) {
	prims := Surface(projected(models.SurfaceWindow, 1.2), ScalingFactor, dimension.NewLabeler(dimension.Metric))
	require.Equal(t, []Kind{KindLine, KindLine, KindParallelLines, KindDimension, KindLabel}, kinds(prims))

	glazing := prims[2]
	assert.Equal(t, LayerWindow, glazing.Layer)
	require.Len(t, glazing.Paths, 2)
	assert.InDelta(t, windowLineSpacing, glazing.Paths[0][0].Y()-glazing.Paths[1][0].Y(), 1e-9)
	assert.Equal(t, "1.20 m", prims[4].Text)
}

func TestSurface_OpeningFloorUnknown(t *testing.T) {
	labeler := dimension.NewLabeler(dimension.Metric)

	opening := Surface(projected(models.SurfaceOpening, 1), ScalingFactor, labeler)
	require.Len(t, opening, 1)
	assert.Equal(t, LayerHiddenWall, opening[0].Layer)

	assert.Empty(t, Surface(projected(models.SurfaceFloor, 4), ScalingFactor, labeler))

	unknown := Surface(projected(models.SurfaceUnknown, 2), ScalingFactor, labeler)
	assert.Equal(t, []Kind{KindLine, KindDimension, KindLabel}, kinds(unknown))
}

func TestObject(t *testing.T) {
	el := projection.ProjectedObject{
		ProjectedElement: projection.ProjectedElement{
			Rotation:   math.Pi / 2,
			Dimensions: models.Vec3{X: 1, Y: 0.8, Z: 0.5},
		},
		Category: models.ObjectUnknown,
	}

	prims := Object(el, ScalingFactor)
	require.Len(t, prims, 2)

	fill, outline := prims[0], prims[1]
	assert.True(t, fill.Fill)
	assert.Equal(t, objectFillOpacity, fill.Opacity)
	assert.Equal(t, LayerObject, fill.Layer)
	assert.Equal(t, LayerObjectOutline, outline.Layer)
	assert.True(t, outline.Miter)

	b := fill.Ring.Bound()
	// rotated a quarter turn: the 200 unit length now runs along Y
	assert.InDelta(t, 50, b.Max.X(), 1e-9)
	assert.InDelta(t, 100, b.Max.Y(), 1e-9)
	assert.InDelta(t, 200, b.Max.Y()-b.Min.Y(), 1e-9)
}

func TestBuild_LayerOrder(t *testing.T) {
	plan := Build(models.SampleRoom(), DefaultOptions())
	require.False(t, plan.Empty())

	for i := 1; i < len(plan.Primitives); i++ {
		assert.LessOrEqual(t, plan.Primitives[i-1].Layer, plan.Primitives[i].Layer)
	}
	assert.Equal(t, LayerObjectOutline, plan.Primitives[len(plan.Primitives)-1].Layer)
	assert.Equal(t, 0, plan.Frame.Wall)
}

func TestBuild_WindowInWallListIsNotReference(t *testing.T) {
	room := &models.RoomSnapshot{Walls: []models.Surface{
		{Category: models.SurfaceWall, Dimensions: models.Vec3{X: 3, Y: 2.5, Z: 0.2}, Transform: models.Identity()},
		{Category: models.SurfaceWindow, Dimensions: models.Vec3{X: 5, Y: 1.2, Z: 0.05}, Transform: models.RotationY(math.Pi / 2)},
	}}

	plan := Build(room, DefaultOptions())
	assert.Equal(t, 0, plan.Frame.Wall)
	assert.Equal(t, 0.0, plan.Frame.Angle)
}

func TestBuild_EmptyRoom(t *testing.T) {
	plan := Build(&models.RoomSnapshot{}, DefaultOptions())
	assert.True(t, plan.Empty())
	assert.Equal(t, -1, plan.Frame.Wall)
	assert.True(t, plan.Bound().IsZero())
}

func TestBuild_Deterministic(t *testing.T) {
	a := Build(models.SampleRoom(), DefaultOptions())
	b := Build(models.SampleRoom(), DefaultOptions())
	assert.Equal(t, a, b)
}
