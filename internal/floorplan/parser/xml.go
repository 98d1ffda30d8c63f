package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
)

// ============================================================
// XML Structures (generic export schema)
// ============================================================

type capturedRoom struct {
	XMLName xml.Name     `xml:"CapturedRoom"`
	Walls   []xmlElement `xml:"Walls>Wall"`
	Doors   []xmlElement `xml:"Doors>Door"`
	Windows []xmlElement `xml:"Windows>Window"`
	Objects []xmlElement `xml:"Objects>Object"`
}

type xmlElement struct {
	ID         int    `xml:"id,attr"`
	Category   string `xml:"Category"`
	Dimensions string `xml:"Dimensions"`
	Transform  string `xml:"Transform"`
}

// ============================================================
// Parser
// ============================================================

// ParseGenericXML reads a generic XML export back into a snapshot. Values
// carry the two decimals of the export; openings and floors are not part of
// that schema and come back empty.
func ParseGenericXML(r io.Reader) (*models.RoomSnapshot, error) {
	var doc capturedRoom
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode generic xml: %w", err)
	}

	room := &models.RoomSnapshot{}
	var err error
	if room.Walls, err = xmlSurfaces("Wall", models.SurfaceWall, doc.Walls); err != nil {
		return nil, err
	}
	if room.Doors, err = xmlSurfaces("Door", models.SurfaceDoor, doc.Doors); err != nil {
		return nil, err
	}
	if room.Windows, err = xmlSurfaces("Window", models.SurfaceWindow, doc.Windows); err != nil {
		return nil, err
	}

	for _, el := range doc.Objects {
		dims, transform, err := el.geometry()
		if err != nil {
			return nil, fmt.Errorf("Object %d: %w", el.ID, err)
		}
		room.Objects = append(room.Objects, models.FurnitureObject{
			Category:   models.ParseObjectCategory(el.Category),
			Dimensions: dims,
			Transform:  transform,
		})
	}
	return room, nil
}

func xmlSurfaces(element string, cat models.SurfaceCategory, in []xmlElement) ([]models.Surface, error) {
	var out []models.Surface
	for _, el := range in {
		dims, transform, err := el.geometry()
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", element, el.ID, err)
		}
		out = append(out, models.Surface{Category: cat, Dimensions: dims, Transform: transform})
	}
	return out, nil
}

func (el xmlElement) geometry() (models.Vec3, models.Mat4, error) {
	dims, err := parseCSV(el.Dimensions)
	if err != nil {
		return models.Vec3{}, models.Mat4{}, fmt.Errorf("dimensions: %w", err)
	}
	if len(dims) != 3 {
		return models.Vec3{}, models.Mat4{}, fmt.Errorf("dimensions: expected 3 values, got %d", len(dims))
	}

	values, err := parseCSV(el.Transform)
	if err != nil {
		return models.Vec3{}, models.Mat4{}, fmt.Errorf("transform: %w", err)
	}
	transform, err := parseTransform(values)
	if err != nil {
		return models.Vec3{}, models.Mat4{}, err
	}
	return models.Vec3{X: dims[0], Y: dims[1], Z: dims[2]}, transform, nil
}

// parseCSV читает список чисел через запятую
func parseCSV(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
