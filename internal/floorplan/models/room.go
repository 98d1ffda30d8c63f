package models

import "strings"

// ============================================================
// Surface categories
// ============================================================

type SurfaceCategory int

const (
	SurfaceUnknown SurfaceCategory = iota
	SurfaceWall
	SurfaceDoor
	SurfaceWindow
	SurfaceOpening
	SurfaceFloor
)

var surfaceNames = map[SurfaceCategory]string{
	SurfaceUnknown: "Unknown",
	SurfaceWall:    "Wall",
	SurfaceDoor:    "Door",
	SurfaceWindow:  "Window",
	SurfaceOpening: "Opening",
	SurfaceFloor:   "Floor",
}

func (c SurfaceCategory) String() string {
	if name, ok := surfaceNames[c]; ok {
		return name
	}
	return surfaceNames[SurfaceUnknown]
}

// ParseSurfaceCategory is case-insensitive; anything unrecognised maps to
// SurfaceUnknown.
func ParseSurfaceCategory(s string) SurfaceCategory {
	for c, name := range surfaceNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return c
		}
	}
	return SurfaceUnknown
}

// ============================================================
// Furniture categories
// ============================================================

type ObjectCategory int

const (
	ObjectUnknown ObjectCategory = iota
	ObjectStorage
	ObjectRefrigerator
	ObjectBathtub
	ObjectBed
	ObjectSink
	ObjectTable
	ObjectChair
	ObjectSofa
	ObjectTelevision
	ObjectToilet
	ObjectWasherDryer
	ObjectFireplace
	ObjectOven
	ObjectDishwasher
	ObjectStove
	ObjectStairs
)

var objectNames = map[ObjectCategory]string{
	ObjectUnknown:      "Unknown",
	ObjectStorage:      "Storage",
	ObjectRefrigerator: "Refrigerator",
	ObjectBathtub:      "Bathtub",
	ObjectBed:          "Bed",
	ObjectSink:         "Sink",
	ObjectTable:        "Table",
	ObjectChair:        "Chair",
	ObjectSofa:         "Sofa",
	ObjectTelevision:   "Television",
	ObjectToilet:       "Toilet",
	ObjectWasherDryer:  "WasherDryer",
	ObjectFireplace:    "Fireplace",
	ObjectOven:         "Oven",
	ObjectDishwasher:   "Dishwasher",
	ObjectStove:        "Stove",
	ObjectStairs:       "Stairs",
}

func (c ObjectCategory) String() string {
	if name, ok := objectNames[c]; ok {
		return name
	}
	return objectNames[ObjectUnknown]
}

// ParseObjectCategory accepts display names ("WasherDryer") as well as
// lower camel case ("washerDryer"); unknown kinds map to ObjectUnknown.
func ParseObjectCategory(s string) ObjectCategory {
	for c, name := range objectNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return c
		}
	}
	return ObjectUnknown
}

// ============================================================
// Captured elements
// ============================================================

// Surface is a planar captured element: wall, door, window, opening or floor.
type Surface struct {
	Category   SurfaceCategory
	Dimensions Vec3
	Transform  Mat4
}

// FurnitureObject is a captured piece of furniture.
type FurnitureObject struct {
	Category   ObjectCategory
	Dimensions Vec3
	Transform  Mat4
}

// RoomSnapshot is the finished capture. It is treated as read-only.
type RoomSnapshot struct {
	Walls    []Surface
	Doors    []Surface
	Windows  []Surface
	Openings []Surface
	Floors   []Surface
	Objects  []FurnitureObject
}

// Surfaces returns every surface in drawing order: walls first so doors,
// windows and openings can hide the wall strokes underneath them.
func (r *RoomSnapshot) Surfaces() []Surface {
	out := make([]Surface, 0, len(r.Walls)+len(r.Doors)+len(r.Windows)+len(r.Openings)+len(r.Floors))
	out = append(out, r.Walls...)
	out = append(out, r.Doors...)
	out = append(out, r.Windows...)
	out = append(out, r.Openings...)
	out = append(out, r.Floors...)
	return out
}

// Counts reports how many elements of each kind the snapshot holds.
type Counts struct {
	Walls    int `json:"walls"`
	Doors    int `json:"doors"`
	Windows  int `json:"windows"`
	Openings int `json:"openings"`
	Floors   int `json:"floors"`
	Objects  int `json:"objects"`
}

func (r *RoomSnapshot) Counts() Counts {
	return Counts{
		Walls:    len(r.Walls),
		Doors:    len(r.Doors),
		Windows:  len(r.Windows),
		Openings: len(r.Openings),
		Floors:   len(r.Floors),
		Objects:  len(r.Objects),
	}
}
