package schematic

import (
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/projection"

	"github.com/paulmach/orb"
)

// ============================================================
// Primitives
// ============================================================

type Kind int

const (
	KindLine Kind = iota
	KindDashedArc
	KindParallelLines
	KindDimension
	KindRect
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindDashedArc:
		return "dashed-arc"
	case KindParallelLines:
		return "parallel-lines"
	case KindDimension:
		return "dimension"
	case KindRect:
		return "rect"
	case KindLabel:
		return "label"
	}
	return "unknown"
}

// Paint is a colour role; mappers resolve it against their palette.
type Paint int

const (
	PaintWall Paint = iota
	PaintBackground
	PaintWindowBacking
	PaintWindow
	PaintDoor
	PaintAccent
)

type Cap int

const (
	CapButt Cap = iota
	CapRound
)

// Primitive is one drawable unit in plan coordinates (drawing units, y up).
// Stroked kinds carry Paths; KindRect carries Ring; KindLabel carries Text
// at Anchor.
type Primitive struct {
	Kind    Kind
	Layer   Layer
	Paint   Paint
	Width   float64
	Cap     Cap
	Miter   bool
	Fill    bool
	Opacity float64

	Paths []orb.LineString
	Ring  orb.Ring

	Text     string
	Anchor   orb.Point
	Rotation float64
	FontSize float64
}

// Bound covers every point of the primitive.
func (p Primitive) Bound() orb.Bound {
	b := orb.Bound{Min: p.Anchor, Max: p.Anchor}
	first := p.Kind != KindLabel
	extend := func(pt orb.Point) {
		if first {
			b = orb.Bound{Min: pt, Max: pt}
			first = false
			return
		}
		b = b.Extend(pt)
	}
	for _, ls := range p.Paths {
		for _, pt := range ls {
			extend(pt)
		}
	}
	for _, pt := range p.Ring {
		extend(pt)
	}
	return b.Pad(p.Width / 2)
}

// ============================================================
// Local -> plan placement
// ============================================================

// placer maps element-local drawing coordinates into the plan.
type placer struct {
	origin   orb.Point
	rotation float64
}

func newPlacer(el projection.ProjectedElement) placer {
	return placer{origin: el.Position, rotation: el.Rotation}
}

func (pl placer) point(x, y float64) orb.Point {
	p := projection.Rotate(orb.Point{x, y}, orb.Point{}, pl.rotation)
	return orb.Point{p.X() + pl.origin.X(), p.Y() + pl.origin.Y()}
}

func (pl placer) segment(x1, y1, x2, y2 float64) orb.LineString {
	return orb.LineString{pl.point(x1, y1), pl.point(x2, y2)}
}
