package schematic

import (
	"math"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/dimension"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/projection"

	"github.com/paulmach/orb"
)

// ============================================================
// Surface rules
// ============================================================

// surfaceRule is the per-category drawing policy. annotated surfaces get a
// dimension line pushed extraOffset further from the wall line.
type surfaceRule struct {
	draw        func(pl placer, halfLength float64) []Primitive
	annotated   bool
	extraOffset float64
}

var surfaceRules = map[models.SurfaceCategory]surfaceRule{
	models.SurfaceWall:    {draw: drawWall, annotated: true},
	models.SurfaceDoor:    {draw: drawDoor, annotated: true, extraOffset: doorWindowDimensionOffset},
	models.SurfaceWindow:  {draw: drawWindow, annotated: true, extraOffset: doorWindowDimensionOffset},
	models.SurfaceOpening: {draw: drawOpening},
	models.SurfaceFloor:   {draw: drawFloor},
}

func ruleFor(c models.SurfaceCategory) surfaceRule {
	if rule, ok := surfaceRules[c]; ok {
		return rule
	}
	return surfaceRules[models.SurfaceWall]
}

// Surface returns the primitives for one projected surface in the order they
// were produced; callers sort by layer.
func Surface(el projection.ProjectedSurface, scale float64, labeler dimension.Labeler) []Primitive {
	rule := ruleFor(el.Category)
	pl := newPlacer(el.ProjectedElement)
	halfLength := el.Dimensions.X * scale / 2

	out := rule.draw(pl, halfLength)
	if rule.annotated {
		out = append(out, dimensionLine(pl, halfLength, rule.extraOffset)...)
		out = append(out, dimensionLabel(pl, labeler.Format(el.Dimensions.X), rule.extraOffset))
	}
	return out
}

// ============================================================
// Drawing
// ============================================================

func drawWall(pl placer, h float64) []Primitive {
	return []Primitive{{
		Kind:    KindLine,
		Layer:   LayerWall,
		Paint:   PaintWall,
		Width:   wallWidth,
		Cap:     CapRound,
		Opacity: 1,
		Paths:   []orb.LineString{pl.segment(-h, 0, h, 0)},
	}}
}

func hiddenWall(pl placer, h float64) Primitive {
	return Primitive{
		Kind:    KindLine,
		Layer:   LayerHiddenWall,
		Paint:   PaintBackground,
		Width:   hideSurfaceWidth,
		Opacity: 1,
		Paths:   []orb.LineString{pl.segment(-h, 0, h, 0)},
	}
}

// drawDoor hides the wall, draws the leaf standing open at 90 degrees from
// the hinge at the left end, and a dashed quarter circle for the swing.
func drawDoor(pl placer, h float64) []Primitive {
	radius := 2 * h
	out := []Primitive{
		hiddenWall(pl, h),
		{
			Kind:    KindLine,
			Layer:   LayerDoor,
			Paint:   PaintDoor,
			Width:   doorWidth,
			Opacity: 1,
			Paths:   []orb.LineString{pl.segment(-h, 0, -h, radius)},
		},
	}

	if dashes := swingDashes(pl, orb.Point{-h, 0}, radius); len(dashes) > 0 {
		out = append(out, Primitive{
			Kind:    KindDashedArc,
			Layer:   LayerDoorArc,
			Paint:   PaintDoor,
			Width:   doorArcWidth,
			Opacity: 1,
			Paths:   dashes,
		})
	}
	return out
}

// swingDashes splits the 0..90 degree arc into dash segments of fixed
// length separated by fixed gaps.
func swingDashes(pl placer, center orb.Point, radius float64) []orb.LineString {
	if radius <= 0 {
		return nil
	}
	const end = math.Pi / 2
	at := func(a float64) orb.Point {
		return pl.point(center.X()+radius*math.Cos(a), center.Y()+radius*math.Sin(a))
	}

	var dashes []orb.LineString
	for a := 0.0; a < end; {
		next := math.Min(a+doorArcDashLength/radius, end)
		dashes = append(dashes, orb.LineString{at(a), at(next)})
		a = next + doorArcGapLength/radius
	}
	return dashes
}

// drawWindow hides the wall and draws the glazing as two thin lines either
// side of the centre line over a white backing strip.
func drawWindow(pl placer, h float64) []Primitive {
	half := windowLineSpacing / 2
	return []Primitive{
		hiddenWall(pl, h),
		{
			Kind:    KindLine,
			Layer:   LayerHiddenWall,
			Paint:   PaintWindowBacking,
			Width:   windowWidth + 4,
			Opacity: 1,
			Paths:   []orb.LineString{pl.segment(-h, 0, h, 0)},
		},
		{
			Kind:    KindParallelLines,
			Layer:   LayerWindow,
			Paint:   PaintWindow,
			Width:   windowLineWidth,
			Opacity: 1,
			Paths: []orb.LineString{
				pl.segment(-h, half, h, half),
				pl.segment(-h, -half, h, -half),
			},
		},
	}
}

func drawOpening(pl placer, h float64) []Primitive {
	return []Primitive{hiddenWall(pl, h)}
}

// drawFloor is a placeholder: floors are not drawn.
func drawFloor(placer, float64) []Primitive {
	return nil
}

// ============================================================
// Dimension annotations
// ============================================================

// dimensionLine is the measurement line below the surface: end ticks plus
// two segments leaving a gap for the label in the middle.
func dimensionLine(pl placer, h, extra float64) []Primitive {
	y := -dimensionLineDistFromSurface - extra
	paths := []orb.LineString{
		pl.segment(-h, y-tickHalfLength, -h, y+tickHalfLength),
		pl.segment(h, y-tickHalfLength, h, y+tickHalfLength),
	}
	if gap := dimensionLabelWidth / 2; h > gap {
		paths = append(paths,
			pl.segment(-h, y, -gap, y),
			pl.segment(h, y, gap, y),
		)
	}
	return []Primitive{{
		Kind:    KindDimension,
		Layer:   LayerWall,
		Paint:   PaintAccent,
		Width:   dimensionWidth,
		Cap:     CapRound,
		Opacity: 1,
		Paths:   paths,
	}}
}

func dimensionLabel(pl placer, text string, extra float64) Primitive {
	return Primitive{
		Kind:     KindLabel,
		Layer:    LayerWall,
		Paint:    PaintAccent,
		Opacity:  1,
		Text:     text,
		Anchor:   pl.point(0, -dimensionLineDistFromSurface-extra-labelFontSize/2),
		Rotation: pl.rotation,
		FontSize: labelFontSize,
	}
}
