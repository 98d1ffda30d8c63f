package mapper

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/paulmach/orb"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/schematic"
)

// ============================================================
// Raster output
// ============================================================

// capSegments is the polygon resolution of round caps.
const capSegments = 12

// canvas maps plan coordinates onto image pixels.
type canvas struct {
	img   *image.NRGBA
	vp    viewport
	scale float64
}

func (c *canvas) pixel(p orb.Point) (float32, float32) {
	return float32((p.X() - c.vp.minX) * c.scale), float32((c.vp.maxY - p.Y()) * c.scale)
}

// Raster draws the plan onto a new image with the palette background.
func (r *Renderer) Raster(plan schematic.Plan) *image.NRGBA {
	vp := r.viewport(plan)

	scale := r.resolution
	if longest := math.Max(vp.width(), vp.height()) * scale; longest > float64(r.maxPixels) {
		scale = float64(r.maxPixels) / math.Max(vp.width(), vp.height())
	}
	w := int(math.Ceil(vp.width()*scale - 1e-9))
	h := int(math.Ceil(vp.height()*scale - 1e-9))

	bg := r.palette.NRGBA(schematic.PaintBackground, 1)
	c := &canvas{img: imaging.New(w, h, bg), vp: vp, scale: scale}

	for _, prim := range plan.Primitives {
		switch prim.Kind {
		case schematic.KindLabel:
			r.rasterLabel(c, prim)
		case schematic.KindRect:
			r.rasterRect(c, prim)
		default:
			r.rasterStroke(c, prim)
		}
	}
	return c.img
}

// PNG encodes the rasterized plan.
func (r *Renderer) PNG(w io.Writer, plan schematic.Plan) error {
	if err := imaging.Encode(w, r.Raster(plan), imaging.PNG); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PlanRaster builds the plan of a room and writes it as PNG. It is the raster
// entry of export bundles.
type PlanRaster struct {
	Renderer *Renderer
	Options  schematic.Options
}

func (r *Renderer) ForRoom(opts schematic.Options) PlanRaster {
	return PlanRaster{Renderer: r, Options: opts}
}

func (p PlanRaster) WritePNG(w io.Writer, room *models.RoomSnapshot) error {
	return p.Renderer.PNG(w, schematic.Build(room, p.Options))
}

// ============================================================
// Primitive rasterizers
// ============================================================

func (r *Renderer) rasterStroke(c *canvas, p schematic.Primitive) {
	hw := p.Width / 2
	if hw <= 0 || len(p.Paths) == 0 {
		return
	}
	z := c.rasterizer()
	for _, ls := range p.Paths {
		for i := 1; i < len(ls); i++ {
			addSegment(z, c, ls[i-1], ls[i], hw, 0)
		}
		if p.Cap == schematic.CapRound && len(ls) > 1 {
			addDisc(z, c, ls[0], hw)
			addDisc(z, c, ls[len(ls)-1], hw)
		}
	}
	c.fill(z, r.palette.NRGBA(p.Paint, p.Opacity))
}

func (r *Renderer) rasterRect(c *canvas, p schematic.Primitive) {
	if len(p.Ring) < 3 {
		return
	}
	z := c.rasterizer()

	if p.Fill {
		x, y := c.pixel(p.Ring[0])
		z.MoveTo(x, y)
		for _, pt := range p.Ring[1:] {
			x, y = c.pixel(pt)
			z.LineTo(x, y)
		}
		z.ClosePath()
		c.fill(z, r.palette.NRGBA(p.Paint, p.Opacity))
		return
	}

	hw := p.Width / 2
	if hw <= 0 {
		return
	}
	// продлеваем рёбра на половину толщины, чтобы углы получились острыми
	extend := 0.0
	if p.Miter {
		extend = hw
	}
	for i := 1; i < len(p.Ring); i++ {
		addSegment(z, c, p.Ring[i-1], p.Ring[i], hw, extend)
	}
	if !p.Miter {
		for _, pt := range p.Ring {
			addDisc(z, c, pt, hw)
		}
	}
	c.fill(z, r.palette.NRGBA(p.Paint, p.Opacity))
}

func (r *Renderer) rasterLabel(c *canvas, p schematic.Primitive) {
	if p.Text == "" {
		return
	}
	face := basicfont.Face7x13
	metrics := face.Metrics()

	width := font.MeasureString(face, p.Text).Ceil() + 2
	height := metrics.Height.Ceil() + 2
	label := image.NewNRGBA(image.Rect(0, 0, width, height))

	d := &font.Drawer{
		Dst:  label,
		Src:  image.NewUniform(r.palette.NRGBA(p.Paint, p.Opacity)),
		Face: face,
		Dot:  fixed.P(1, metrics.Ascent.Ceil()+1),
	}
	d.DrawString(p.Text)

	var img image.Image = label
	if deg := p.Rotation * 180 / math.Pi; math.Abs(deg) > 1e-9 {
		img = imaging.Rotate(label, deg, color.Transparent)
	}

	x, y := c.pixel(p.Anchor)
	b := img.Bounds()
	pos := image.Pt(int(math.Round(float64(x)-float64(b.Dx())/2)), int(math.Round(float64(y)-float64(b.Dy())/2)))
	c.img = imaging.Overlay(c.img, img, pos, 1.0)
}

// ============================================================
// Geometry helpers
// ============================================================

func (c *canvas) rasterizer() *vector.Rasterizer {
	b := c.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

func (c *canvas) fill(z *vector.Rasterizer, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	z.DrawOp = draw.Over
	z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

// addSegment adds the quad covering a stroke of half width hw, lengthened
// by extend at both ends. All quads share one winding so overlaps merge.
func addSegment(z *vector.Rasterizer, c *canvas, a, b orb.Point, hw, extend float64) {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length
	nx, ny := -uy*hw, ux*hw

	a = orb.Point{a.X() - ux*extend, a.Y() - uy*extend}
	b = orb.Point{b.X() + ux*extend, b.Y() + uy*extend}

	corners := []orb.Point{
		{a.X() + nx, a.Y() + ny},
		{b.X() + nx, b.Y() + ny},
		{b.X() - nx, b.Y() - ny},
		{a.X() - nx, a.Y() - ny},
	}
	x, y := c.pixel(corners[0])
	z.MoveTo(x, y)
	for _, pt := range corners[1:] {
		x, y = c.pixel(pt)
		z.LineTo(x, y)
	}
	z.ClosePath()
}

// addDisc adds a round cap, wound the same way as addSegment quads.
func addDisc(z *vector.Rasterizer, c *canvas, center orb.Point, radius float64) {
	for i := 0; i <= capSegments; i++ {
		a := -2 * math.Pi * float64(i) / capSegments
		x, y := c.pixel(orb.Point{center.X() + radius*math.Cos(a), center.Y() + radius*math.Sin(a)})
		if i == 0 {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
	z.ClosePath()
}
