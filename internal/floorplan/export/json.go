package export

import (
	"encoding/json"
	"math"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
)

// ============================================================
// Generic schema (JSON mirror)
// ============================================================

// Document mirrors the generic XML tree.
type Document struct {
	Walls   []Element `json:"walls"`
	Doors   []Element `json:"doors"`
	Windows []Element `json:"windows"`
	Objects []Element `json:"objects"`
}

type Element struct {
	ID         int         `json:"id"`
	Dimensions models.Vec3 `json:"dimensions"`
	Transform  []float64   `json:"transform"`
	Category   string      `json:"category,omitempty"`
}

// NewDocument builds the mirror with every value rounded to two decimals,
// matching the XML rendering.
func NewDocument(room *models.RoomSnapshot) Document {
	doc := Document{
		Walls:   surfaceElements(room.Walls),
		Doors:   surfaceElements(room.Doors),
		Windows: surfaceElements(room.Windows),
		Objects: make([]Element, 0, len(room.Objects)),
	}
	for i, obj := range room.Objects {
		doc.Objects = append(doc.Objects, Element{
			ID:         i,
			Dimensions: roundVec3(obj.Dimensions),
			Transform:  roundMat4(obj.Transform),
			Category:   obj.Category.String(),
		})
	}
	return doc
}

// JSON renders the mirror document, indented.
func JSON(room *models.RoomSnapshot) ([]byte, error) {
	return json.MarshalIndent(NewDocument(room), "", "  ")
}

func surfaceElements(surfaces []models.Surface) []Element {
	out := make([]Element, 0, len(surfaces))
	for i, s := range surfaces {
		out = append(out, Element{
			ID:         i,
			Dimensions: roundVec3(s.Dimensions),
			Transform:  roundMat4(s.Transform),
		})
	}
	return out
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

func roundVec3(v models.Vec3) models.Vec3 {
	return models.Vec3{X: round2(v.X), Y: round2(v.Y), Z: round2(v.Z)}
}

func roundMat4(m models.Mat4) []float64 {
	cols := m.Columns()
	out := make([]float64, len(cols))
	for i, v := range cols {
		out[i] = round2(v)
	}
	return out
}
