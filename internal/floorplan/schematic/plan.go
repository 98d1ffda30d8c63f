package schematic

import (
	"sort"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/dimension"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/projection"

	"github.com/paulmach/orb"
)

// ============================================================
// Plan
// ============================================================

type Options struct {
	Scale   float64
	Labeler dimension.Labeler
}

func DefaultOptions() Options {
	return Options{
		Scale:   ScalingFactor,
		Labeler: dimension.NewLabeler(dimension.Metric),
	}
}

// Plan is the rendered schematic of one room, primitives ordered by layer.
type Plan struct {
	Frame      projection.ReferenceFrame
	Primitives []Primitive
}

// Build resolves the reference frame once and draws every surface and
// object relative to it.
func Build(room *models.RoomSnapshot, opts Options) Plan {
	if opts.Scale <= 0 {
		opts.Scale = ScalingFactor
	}

	frame := projection.ResolveFrame(room.Walls)
	var prims []Primitive

	for _, s := range room.Surfaces() {
		prims = append(prims, Surface(frame.ProjectSurface(s, opts.Scale), opts.Scale, opts.Labeler)...)
	}
	for _, o := range room.Objects {
		prims = append(prims, Object(frame.ProjectObject(o, opts.Scale), opts.Scale)...)
	}

	sort.SliceStable(prims, func(i, j int) bool {
		return prims[i].Layer < prims[j].Layer
	})

	return Plan{Frame: frame, Primitives: prims}
}

// Empty reports whether the plan has nothing to draw.
func (p Plan) Empty() bool {
	return len(p.Primitives) == 0
}

// Bound covers every primitive. An empty plan has a zero bound at the origin.
func (p Plan) Bound() orb.Bound {
	if p.Empty() {
		return orb.Bound{}
	}
	b := p.Primitives[0].Bound()
	for _, prim := range p.Primitives[1:] {
		b = b.Union(prim.Bound())
	}
	return b
}
