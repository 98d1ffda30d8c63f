package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
)

// ============================================================
// CAD record schema
// ============================================================

// Placeholder attributes the CAD importer expects on every door and window
// record. Captures carry no material or style information.
const (
	cadWallType        = 0
	cadShowLabel       = 1
	cadMode            = 0
	cadMirror          = 0
	cadModelType       = 0
	cadSource          = "default"
	cadNumTexture      = 0
	cadReplaceMaterial = 0
	cadStyle           = 0
	cadMaterial        = "default"
)

// CADXML renders walls, doors and windows as CAD records in integer
// centimetres. The capture's X/Z plane becomes the CAD X/Y plane and the
// capture height becomes CAD Z.
func CADXML(room *models.RoomSnapshot) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString("<Room>\n")
	builder.WriteString(fmt.Sprintf("  <SceneHigh value=\"%d\"/>\n", SceneHeight(room)))

	builder.WriteString(fmt.Sprintf("  <WallInfo num=\"%d\"/>\n", len(room.Walls)))
	for _, w := range room.Walls {
		start := w.Transform.TransformPoint(models.Vec3{})
		end := w.Transform.TransformPoint(models.Vec3{X: w.Dimensions.X})
		builder.WriteString(fmt.Sprintf(
			"  <WallData Type=\"%d\" Width=\"%d\" StartX=\"%d\" StartY=\"%d\" StartZ=\"%d\" EndX=\"%d\" EndY=\"%d\" EndZ=\"%d\" ShowLabel=\"%d\"/>\n",
			cadWallType, centimeters(w.Dimensions.Z),
			centimeters(start.X), centimeters(start.Z), centimeters(start.Y),
			centimeters(end.X), centimeters(end.Z), centimeters(end.Y),
			cadShowLabel,
		))
	}

	builder.WriteString(fmt.Sprintf("  <DoorInfo num=\"%d\"/>\n", len(room.Doors)))
	for _, d := range room.Doors {
		writeOpeningRecord(&builder, "DoorData", "DoorStyle", d)
	}

	builder.WriteString(fmt.Sprintf("  <WinInfo num=\"%d\"/>\n", len(room.Windows)))
	for _, w := range room.Windows {
		writeOpeningRecord(&builder, "WinData", "WinStyle", w)
	}

	builder.WriteString("</Room>")
	return builder.String()
}

// writeOpeningRecord writes a door or window record centred on the
// transformed midpoint of the surface.
func writeOpeningRecord(builder *strings.Builder, element, styleAttr string, s models.Surface) {
	center := s.Transform.TransformPoint(models.Vec3{X: s.Dimensions.X / 2})
	builder.WriteString(fmt.Sprintf(
		"  <%s PosX=\"%d\" PosY=\"%d\" PosZ=\"%d\" Length=\"%d\" Width=\"%d\" Height=\"%d\" Rotate=\"%d\" Mode=\"%d\" Mirror=\"%d\" ModelType=\"%d\" source=\"%s\" numTexture=\"%d\" ReplaceMaterial=\"%d\" %s=\"%d\" Material=\"%s\"><Texture/></%s>\n",
		element,
		centimeters(center.X), centimeters(center.Z), centimeters(center.Y),
		centimeters(s.Dimensions.X), centimeters(s.Dimensions.Z), centimeters(s.Dimensions.Y),
		YawDegrees(s.Transform),
		cadMode, cadMirror, cadModelType, cadSource, cadNumTexture, cadReplaceMaterial,
		styleAttr, cadStyle, cadMaterial,
		element,
	))
}

// SceneHeight is the tallest wall in whole centimetres, 0 without walls.
func SceneHeight(room *models.RoomSnapshot) int {
	var high float64
	for _, w := range room.Walls {
		high = math.Max(high, w.Dimensions.Y)
	}
	return centimeters(high)
}

// YawDegrees is the heading of the forward column in whole degrees, [0, 360).
func YawDegrees(t models.Mat4) int {
	deg := int(math.Round(t.Yaw() * 180 / math.Pi))
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}

// centimeters truncates metres to whole centimetres. The nudge keeps values
// such as 0.29 m, stored as 0.28999..., from dropping a centimetre.
func centimeters(m float64) int {
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0
	}
	return int(math.Trunc(m*100 + math.Copysign(1e-6, m)))
}
