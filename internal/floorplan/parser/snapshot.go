package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
)

// ============================================================
// Input formats
// ============================================================

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatXML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatXML:
		return "xml"
	default:
		return "json"
	}
}

// DetectFormat guesses the snapshot format from the file name, then from the
// first non-blank byte of the content.
func DetectFormat(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".xml":
		return FormatXML
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatJSON
	}
	switch trimmed[0] {
	case '{', '[':
		return FormatJSON
	case '<':
		return FormatXML
	}
	return FormatYAML
}

// Parse decodes a snapshot in the given format.
func Parse(data []byte, format Format) (*models.RoomSnapshot, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(bytes.NewReader(data))
	case FormatXML:
		return ParseGenericXML(bytes.NewReader(data))
	default:
		return ParseJSON(bytes.NewReader(data))
	}
}

// ============================================================
// Wire structures
// ============================================================

type snapshotDoc struct {
	Walls    []elementDoc `json:"walls" yaml:"walls"`
	Doors    []elementDoc `json:"doors" yaml:"doors"`
	Windows  []elementDoc `json:"windows" yaml:"windows"`
	Openings []elementDoc `json:"openings" yaml:"openings"`
	Floors   []elementDoc `json:"floors" yaml:"floors"`
	Objects  []elementDoc `json:"objects" yaml:"objects"`
}

// elementDoc accepts both the documented shape and the one produced by the
// capture framework's own encoder: category as {"wall":{}} and dimensions as
// a three element array.
type elementDoc struct {
	Category   category  `json:"category" yaml:"category"`
	Dimensions vector    `json:"dimensions" yaml:"dimensions"`
	Transform  []float64 `json:"transform" yaml:"transform"`
}

type category string

func (c *category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = category(s)
		return nil
	}
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("category: expected string or object")
	}
	*c = category(singleKey(keysOf(tagged)))
	return nil
}

func (c *category) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = category(node.Value)
		return nil
	case yaml.MappingNode:
		var keys []string
		for i := 0; i < len(node.Content); i += 2 {
			keys = append(keys, node.Content[i].Value)
		}
		*c = category(singleKey(keys))
		return nil
	}
	return fmt.Errorf("category: expected string or mapping at line %d", node.Line)
}

type vector models.Vec3

func (v *vector) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		return v.fromSlice(arr)
	}
	var obj models.Vec3
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("dimensions: %w", err)
	}
	*v = vector(obj)
	return nil
}

func (v *vector) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var arr []float64
		if err := node.Decode(&arr); err != nil {
			return fmt.Errorf("dimensions: %w", err)
		}
		return v.fromSlice(arr)
	}
	var obj models.Vec3
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("dimensions: %w", err)
	}
	*v = vector(obj)
	return nil
}

func (v *vector) fromSlice(arr []float64) error {
	if len(arr) != 3 {
		return fmt.Errorf("dimensions: expected 3 values, got %d", len(arr))
	}
	*v = vector{X: arr[0], Y: arr[1], Z: arr[2]}
	return nil
}

func keysOf(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// singleKey returns the only key of a tagged union, "" when there is not
// exactly one.
func singleKey(keys []string) string {
	if len(keys) != 1 {
		return ""
	}
	return keys[0]
}

// ============================================================
// Decoders
// ============================================================

func ParseJSON(r io.Reader) (*models.RoomSnapshot, error) {
	var doc snapshotDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode snapshot json: %w", err)
	}
	return doc.snapshot()
}

func ParseYAML(r io.Reader) (*models.RoomSnapshot, error) {
	var doc snapshotDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return &models.RoomSnapshot{}, nil
		}
		return nil, fmt.Errorf("decode snapshot yaml: %w", err)
	}
	return doc.snapshot()
}

func (d snapshotDoc) snapshot() (*models.RoomSnapshot, error) {
	room := &models.RoomSnapshot{}
	lists := []struct {
		name     string
		implied  models.SurfaceCategory
		elements []elementDoc
		dst      *[]models.Surface
	}{
		{"walls", models.SurfaceWall, d.Walls, &room.Walls},
		{"doors", models.SurfaceDoor, d.Doors, &room.Doors},
		{"windows", models.SurfaceWindow, d.Windows, &room.Windows},
		{"openings", models.SurfaceOpening, d.Openings, &room.Openings},
		{"floors", models.SurfaceFloor, d.Floors, &room.Floors},
	}

	for _, list := range lists {
		for i, el := range list.elements {
			transform, err := parseTransform(el.Transform)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", list.name, i, err)
			}
			cat := list.implied
			if el.Category != "" {
				cat = models.ParseSurfaceCategory(string(el.Category))
			}
			*list.dst = append(*list.dst, models.Surface{
				Category:   cat,
				Dimensions: models.Vec3(el.Dimensions),
				Transform:  transform,
			})
		}
	}

	for i, el := range d.Objects {
		transform, err := parseTransform(el.Transform)
		if err != nil {
			return nil, fmt.Errorf("objects[%d]: %w", i, err)
		}
		room.Objects = append(room.Objects, models.FurnitureObject{
			Category:   models.ParseObjectCategory(string(el.Category)),
			Dimensions: models.Vec3(el.Dimensions),
			Transform:  transform,
		})
	}
	return room, nil
}

// Отсутствующий transform трактуется как единичная матрица
func parseTransform(values []float64) (models.Mat4, error) {
	if len(values) == 0 {
		return models.Identity(), nil
	}
	return models.Mat4FromColumns(values)
}

// ============================================================
// Encoder
// ============================================================

type encodedElement struct {
	Category   string      `json:"category"`
	Dimensions models.Vec3 `json:"dimensions"`
	Transform  []float64   `json:"transform"`
}

type encodedSnapshot struct {
	Walls    []encodedElement `json:"walls"`
	Doors    []encodedElement `json:"doors"`
	Windows  []encodedElement `json:"windows"`
	Openings []encodedElement `json:"openings"`
	Floors   []encodedElement `json:"floors"`
	Objects  []encodedElement `json:"objects"`
}

// EncodeJSON writes the snapshot at full precision in the input shape, so
// ParseJSON gives back the same room.
func EncodeJSON(room *models.RoomSnapshot) ([]byte, error) {
	surfaces := func(in []models.Surface) []encodedElement {
		out := make([]encodedElement, 0, len(in))
		for _, s := range in {
			cols := s.Transform.Columns()
			out = append(out, encodedElement{Category: s.Category.String(), Dimensions: s.Dimensions, Transform: cols[:]})
		}
		return out
	}

	doc := encodedSnapshot{
		Walls:    surfaces(room.Walls),
		Doors:    surfaces(room.Doors),
		Windows:  surfaces(room.Windows),
		Openings: surfaces(room.Openings),
		Floors:   surfaces(room.Floors),
		Objects:  make([]encodedElement, 0, len(room.Objects)),
	}
	for _, o := range room.Objects {
		cols := o.Transform.Columns()
		doc.Objects = append(doc.Objects, encodedElement{Category: o.Category.String(), Dimensions: o.Dimensions, Transform: cols[:]})
	}
	return json.Marshal(doc)
}
