package mapper

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/schematic"
)

// ============================================================
// Renderer
// ============================================================

// DefaultMargin is the blank border around the plan, in drawing units.
const DefaultMargin = 40.0

type Renderer struct {
	palette Palette
	margin  float64
	// pixels per drawing unit for raster output
	resolution float64
	maxPixels  int
}

func NewRenderer(palette Palette, margin float64) *Renderer {
	if margin < 0 {
		margin = DefaultMargin
	}
	return &Renderer{
		palette:    palette,
		margin:     margin,
		resolution: 1,
		maxPixels:  4096,
	}
}

// viewport is the plan area being drawn, in plan coordinates (y up).
type viewport struct {
	minX, minY float64
	maxX, maxY float64
}

func (v viewport) width() float64  { return v.maxX - v.minX }
func (v viewport) height() float64 { return v.maxY - v.minY }

func (r *Renderer) viewport(plan schematic.Plan) viewport {
	b := plan.Bound().Pad(r.margin)
	if plan.Empty() {
		b = orb.Bound{}.Pad(math.Max(r.margin, 1))
	}
	return viewport{minX: b.Min.X(), minY: b.Min.Y(), maxX: b.Max.X(), maxY: b.Max.Y()}
}

// SVG renders the plan as a standalone SVG document. The plan's y axis
// points up, so every y is negated on the way out.
func (r *Renderer) SVG(plan schematic.Plan) string {
	vp := r.viewport(plan)

	var elements []string
	elements = append(elements, fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" />`,
		formatFloat(vp.minX), formatFloat(-vp.maxY), formatFloat(vp.width()), formatFloat(vp.height()),
		r.palette.Hex(schematic.PaintBackground)))

	for _, prim := range plan.Primitives {
		if elem := r.renderPrimitive(prim); elem != "" {
			elements = append(elements, elem)
		}
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(vp.width()), formatFloat(vp.height()),
		formatFloat(vp.minX), formatFloat(-vp.maxY), formatFloat(vp.width()), formatFloat(vp.height())))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

// ============================================================
// Element renderers
// ============================================================

// renderPrimitive returns "" for fully transparent primitives, as the raster
// path draws nothing for them either.
func (r *Renderer) renderPrimitive(p schematic.Primitive) string {
	if p.Opacity <= 0 {
		return ""
	}
	switch p.Kind {
	case schematic.KindLabel:
		return r.renderLabel(p)
	case schematic.KindRect:
		return r.renderRect(p)
	default:
		return r.renderStroke(p)
	}
}

func (r *Renderer) renderStroke(p schematic.Primitive) string {
	if len(p.Paths) == 0 {
		return ""
	}

	var d strings.Builder
	for i, ls := range p.Paths {
		if len(ls) < 2 {
			continue
		}
		if i > 0 {
			d.WriteString(" ")
		}
		d.WriteString("M ")
		d.WriteString(formatPoint(ls[0]))
		for _, pt := range ls[1:] {
			d.WriteString(" L ")
			d.WriteString(formatPoint(pt))
		}
	}

	linecap := "butt"
	if p.Cap == schematic.CapRound {
		linecap = "round"
	}

	return fmt.Sprintf(`<path class="%s" d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="%s"%s />`,
		p.Kind, d.String(), r.palette.Hex(p.Paint), formatFloat(p.Width), linecap, opacityAttr("stroke-opacity", p.Opacity))
}

func (r *Renderer) renderRect(p schematic.Primitive) string {
	if len(p.Ring) < 3 {
		return ""
	}

	var path strings.Builder
	path.WriteString(`<path class="`)
	path.WriteString(p.Kind.String())
	path.WriteString(`" d="M `)
	path.WriteString(formatPoint(p.Ring[0]))
	for _, pt := range p.Ring[1:] {
		path.WriteString(" L ")
		path.WriteString(formatPoint(pt))
	}
	path.WriteString(` Z"`)

	if p.Fill {
		path.WriteString(fmt.Sprintf(` fill="%s"%s stroke="none" />`,
			r.palette.Hex(p.Paint), opacityAttr("fill-opacity", p.Opacity)))
		return path.String()
	}

	linejoin := "round"
	if p.Miter {
		linejoin = "miter"
	}
	path.WriteString(fmt.Sprintf(` fill="none" stroke="%s" stroke-width="%s" stroke-linejoin="%s"%s />`,
		r.palette.Hex(p.Paint), formatFloat(p.Width), linejoin, opacityAttr("stroke-opacity", p.Opacity)))
	return path.String()
}

func (r *Renderer) renderLabel(p schematic.Primitive) string {
	if p.Text == "" {
		return ""
	}
	x, y := p.Anchor.X(), -p.Anchor.Y()
	// в SVG положительный угол поворачивает по часовой стрелке
	deg := -p.Rotation * 180 / math.Pi

	return fmt.Sprintf(`<text class="%s" x="%s" y="%s" font-family="sans-serif" font-size="%s" text-anchor="middle" dominant-baseline="middle" fill="%s" transform="rotate(%s %s %s)">%s</text>`,
		p.Kind, formatFloat(x), formatFloat(y), formatFloat(p.FontSize), r.palette.Hex(p.Paint),
		formatFloat(roundTo(deg, 4)), formatFloat(x), formatFloat(y), html.EscapeString(p.Text))
}

// ============================================================
// Formatting helpers
// ============================================================

func opacityAttr(name string, opacity float64) string {
	if opacity >= 1 || opacity <= 0 {
		return ""
	}
	return fmt.Sprintf(` %s="%s"`, name, formatFloat(opacity))
}

func roundTo(val float64, places int) float64 {
	k := math.Pow(10, float64(places))
	r := math.Round(val*k) / k
	if r == 0 {
		return 0
	}
	return r
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

// formatPoint flips y into SVG space and keeps three decimals.
func formatPoint(p orb.Point) string {
	return formatFloat(roundTo(p.X(), 3)) + " " + formatFloat(roundTo(-p.Y(), 3))
}
