package projection

import (
	"math"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"

	"github.com/paulmach/orb"
)

// ============================================================
// Projected elements
// ============================================================

// ProjectedElement is a surface or object placed in the plan: drawing-unit
// position (y up) and rotation relative to the reference frame. It lives for
// one render pass only.
type ProjectedElement struct {
	Position   orb.Point
	Rotation   float64
	Dimensions models.Vec3
}

type ProjectedSurface struct {
	ProjectedElement
	Category models.SurfaceCategory
}

type ProjectedObject struct {
	ProjectedElement
	Category models.ObjectCategory
}

// ============================================================
// Projector
// ============================================================

// ProjectSurface places a surface in the plan. scale converts metres into
// drawing units.
func (f ReferenceFrame) ProjectSurface(s models.Surface, scale float64) ProjectedSurface {
	pos, rot := f.place(s.Transform, scale)
	return ProjectedSurface{
		ProjectedElement: ProjectedElement{Position: pos, Rotation: rot, Dimensions: s.Dimensions},
		Category:         s.Category,
	}
}

// ProjectObject places a furniture object in the plan.
func (f ReferenceFrame) ProjectObject(o models.FurnitureObject, scale float64) ProjectedObject {
	pos, rot := f.place(o.Transform, scale)
	return ProjectedObject{
		ProjectedElement: ProjectedElement{Position: pos, Rotation: rot, Dimensions: o.Dimensions},
		Category:         o.Category,
	}
}

// place mirrors capture X so the plan reads left to right, then removes the
// reference yaw from both position and heading.
func (f ReferenceFrame) place(t models.Mat4, scale float64) (orb.Point, float64) {
	p := t.Position()
	pos := Rotate(orb.Point{-p.X * scale, p.Z * scale}, orb.Point{}, -f.Angle)

	e := t.EulerAngles()
	rot := NormalizeAngle(-(e.Z - e.Y + f.Angle))
	return pos, rot
}

// ============================================================
// Helpers
// ============================================================

// Rotate turns p around center by angle radians (counter-clockwise, y up).
func Rotate(p, center orb.Point, angle float64) orb.Point {
	if angle == 0 {
		return p
	}
	s, c := math.Sincos(angle)
	dx := p.X() - center.X()
	dy := p.Y() - center.Y()
	return orb.Point{
		center.X() + dx*c - dy*s,
		center.Y() + dx*s + dy*c,
	}
}

// NormalizeAngle wraps an angle into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
