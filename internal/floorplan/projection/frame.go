package projection

import (
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
)

// ============================================================
// Reference Frame
// ============================================================

// ReferenceFrame is the global yaw every element of one plan is expressed
// relative to. It is resolved once per plan and passed by value.
type ReferenceFrame struct {
	// Angle is the dominant wall's yaw in radians.
	Angle float64
	// Wall is the index of the dominant wall, -1 when the room has no walls.
	Wall int
}

// ResolveFrame picks the dominant wall and takes its yaw as the reference.
// A room without walls gets a zero angle: elements are then drawn in the raw
// capture orientation, which is a valid plan and not an error.
func ResolveFrame(walls []models.Surface) ReferenceFrame {
	idx := DominantWall(walls)
	if idx < 0 {
		return ReferenceFrame{Angle: 0, Wall: -1}
	}
	return ReferenceFrame{
		Angle: walls[idx].Transform.EulerAngles().Y,
		Wall:  idx,
	}
}

// DominantWall returns the index of the longest entry of category wall. Ties
// keep the first occurrence so identical input always resolves the same wall.
// Doors, windows and unknown categories in the list never qualify.
func DominantWall(walls []models.Surface) int {
	best := -1
	for i, w := range walls {
		if w.Category != models.SurfaceWall {
			continue
		}
		if best < 0 || w.Dimensions.X > walls[best].Dimensions.X {
			best = i
		}
	}
	return best
}
