package export

import (
	"fmt"
	"strings"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
)

// ============================================================
// Generic schema (XML)
// ============================================================

// GenericXML renders the snapshot as the generic element tree. Values come
// straight from the captured dimensions and transforms, not from the plan.
func GenericXML(room *models.RoomSnapshot) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString("<CapturedRoom>\n")

	writeSurfaces(&builder, "Walls", "Wall", room.Walls)
	writeSurfaces(&builder, "Doors", "Door", room.Doors)
	writeSurfaces(&builder, "Windows", "Window", room.Windows)

	builder.WriteString("  <Objects>\n")
	for i, obj := range room.Objects {
		builder.WriteString(fmt.Sprintf("    <Object id=\"%d\">\n", i))
		builder.WriteString(fmt.Sprintf("      <Category>%s</Category>\n", obj.Category))
		builder.WriteString(fmt.Sprintf("      <Dimensions>%s</Dimensions>\n", formatVec3(obj.Dimensions)))
		builder.WriteString(fmt.Sprintf("      <Transform>%s</Transform>\n", formatMat4(obj.Transform)))
		builder.WriteString("    </Object>\n")
	}
	builder.WriteString("  </Objects>\n")

	builder.WriteString("</CapturedRoom>")
	return builder.String()
}

func writeSurfaces(builder *strings.Builder, container, element string, surfaces []models.Surface) {
	builder.WriteString(fmt.Sprintf("  <%s>\n", container))
	for i, s := range surfaces {
		builder.WriteString(fmt.Sprintf("    <%s id=\"%d\">\n", element, i))
		builder.WriteString(fmt.Sprintf("      <Dimensions>%s</Dimensions>\n", formatVec3(s.Dimensions)))
		builder.WriteString(fmt.Sprintf("      <Transform>%s</Transform>\n", formatMat4(s.Transform)))
		builder.WriteString(fmt.Sprintf("    </%s>\n", element))
	}
	builder.WriteString(fmt.Sprintf("  </%s>\n", container))
}

// ============================================================
// Formatting helpers
// ============================================================

func formatVec3(v models.Vec3) string {
	return fmt.Sprintf("%.2f,%.2f,%.2f", v.X, v.Y, v.Z)
}

func formatMat4(m models.Mat4) string {
	cols := m.Columns()
	parts := make([]string, len(cols))
	for i, v := range cols {
		parts[i] = fmt.Sprintf("%.2f", v)
	}
	return strings.Join(parts, ",")
}
