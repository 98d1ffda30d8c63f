package mapper

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/schematic"
)

// ============================================================
// Palette
// ============================================================

// Palette resolves schematic paints to concrete colours.
type Palette struct {
	Background    colorful.Color
	Accent        colorful.Color
	Wall          colorful.Color
	Window        colorful.Color
	WindowBacking colorful.Color
	Door          colorful.Color
}

const (
	DefaultBackground = "#ffffff"
	DefaultAccent     = "#2f4f8f"
)

// DefaultPalette is the light scheme: dark grey walls, pale blue glazing and
// door swings.
func DefaultPalette() Palette {
	p, _ := NewPalette(DefaultBackground, DefaultAccent)
	return p
}

// NewPalette builds a palette from background and accent hex colours
// ("#rrggbb"). The remaining paints are fixed.
func NewPalette(background, accent string) (Palette, error) {
	bg, err := colorful.Hex(background)
	if err != nil {
		return Palette{}, fmt.Errorf("background colour: %w", err)
	}
	ac, err := colorful.Hex(accent)
	if err != nil {
		return Palette{}, fmt.Errorf("accent colour: %w", err)
	}

	return Palette{
		Background:    bg,
		Accent:        ac,
		Wall:          colorful.Color{R: 1.0 / 3, G: 1.0 / 3, B: 1.0 / 3},
		Window:        colorful.Color{R: 0.7, G: 0.9, B: 1.0},
		WindowBacking: colorful.Color{R: 1, G: 1, B: 1},
		Door:          colorful.Color{R: 0.8, G: 0.9, B: 1.0},
	}, nil
}

// Color returns the colour for a paint role.
func (p Palette) Color(paint schematic.Paint) colorful.Color {
	switch paint {
	case schematic.PaintWall:
		return p.Wall
	case schematic.PaintBackground:
		return p.Background
	case schematic.PaintWindowBacking:
		return p.WindowBacking
	case schematic.PaintWindow:
		return p.Window
	case schematic.PaintDoor:
		return p.Door
	}
	return p.Accent
}

// Hex is the "#rrggbb" form used by the SVG mapper.
func (p Palette) Hex(paint schematic.Paint) string {
	return p.Color(paint).Clamped().Hex()
}

// NRGBA is the colour with opacity applied, for the raster mapper.
func (p Palette) NRGBA(paint schematic.Paint, opacity float64) color.NRGBA {
	r, g, b := p.Color(paint).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp(opacity, 0, 1)*255 + 0.5)}
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
