package schematic

import (
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/projection"

	"github.com/paulmach/orb"
)

// Object draws a furniture footprint: a translucent fill and an outline of
// the same bounds, centred on the projected position. Every furniture kind,
// including unknown ones, is drawn the same way.
func Object(el projection.ProjectedObject, scale float64) []Primitive {
	pl := newPlacer(el.ProjectedElement)
	w := el.Dimensions.X * scale / 2
	h := el.Dimensions.Z * scale / 2

	ring := orb.Ring{
		pl.point(-w, -h),
		pl.point(w, -h),
		pl.point(w, h),
		pl.point(-w, h),
		pl.point(-w, -h),
	}

	return []Primitive{
		{
			Kind:    KindRect,
			Layer:   LayerObject,
			Paint:   PaintAccent,
			Fill:    true,
			Opacity: objectFillOpacity,
			Ring:    ring,
		},
		{
			Kind:    KindRect,
			Layer:   LayerObjectOutline,
			Paint:   PaintAccent,
			Width:   objectOutlineWidth,
			Miter:   true,
			Opacity: 1,
			Ring:    ring.Clone(),
		},
	}
}
