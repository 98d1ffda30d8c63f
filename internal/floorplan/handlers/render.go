package handlers

import (
	"bytes"
	"log"

	"github.com/gofiber/fiber/v3"

	apperrors "github.com/codeyu/roomplan-2d-viewer/internal/common/errors"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/export"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/schematic"
)

// ============================================================
// Render Handlers
// ============================================================

// Render строит 2D-план снимка: ?format=svg (по умолчанию) или png.
func (h *Handler) Render(c fiber.Ctx) error {
	log.Printf("[RENDER] Received request")
	log.Printf("[RENDER] Content-Type: %s", c.Get("Content-Type"))
	log.Printf("[RENDER] Content-Length: %d", len(c.Body()))

	room, err := readSnapshot(c)
	if err != nil {
		return respondError(c, err)
	}

	switch format := c.Query("format", "svg"); format {
	case "svg":
		return h.sendSVG(c, room)
	case "png":
		return h.sendPNG(c, room)
	default:
		return respondError(c, apperrors.NewInvalidRequest("unsupported format: "+format))
	}
}

func (h *Handler) sendSVG(c fiber.Ctx, room *models.RoomSnapshot) error {
	plan := schematic.Build(room, h.planOptions(c))
	log.Printf("[RENDER] Plan built: %d primitives, reference wall %d", len(plan.Primitives), plan.Frame.Wall)

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(h.renderer.SVG(plan))
}

func (h *Handler) sendPNG(c fiber.Ctx, room *models.RoomSnapshot) error {
	plan := schematic.Build(room, h.planOptions(c))

	var buf bytes.Buffer
	if err := h.renderer.PNG(&buf, plan); err != nil {
		log.Printf("[RENDER] PNG error: %v", err)
		return respondError(c, apperrors.NewExportFailed("png", err))
	}

	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}

// ============================================================
// Export Handlers
// ============================================================

func (h *Handler) ExportGeneric(c fiber.Ctx) error {
	room, err := readSnapshot(c)
	if err != nil {
		return respondError(c, err)
	}
	return sendGeneric(c, room)
}

func (h *Handler) ExportCAD(c fiber.Ctx) error {
	room, err := readSnapshot(c)
	if err != nil {
		return respondError(c, err)
	}
	return sendCAD(c, room)
}

func (h *Handler) ExportJSON(c fiber.Ctx) error {
	room, err := readSnapshot(c)
	if err != nil {
		return respondError(c, err)
	}
	return sendJSON(c, room)
}

func sendGeneric(c fiber.Ctx, room *models.RoomSnapshot) error {
	c.Set("Content-Type", fiber.MIMEApplicationXMLCharsetUTF8)
	return c.SendString(export.GenericXML(room))
}

func sendCAD(c fiber.Ctx, room *models.RoomSnapshot) error {
	c.Set("Content-Type", fiber.MIMEApplicationXMLCharsetUTF8)
	return c.SendString(export.CADXML(room))
}

func sendJSON(c fiber.Ctx, room *models.RoomSnapshot) error {
	data, err := export.JSON(room)
	if err != nil {
		log.Printf("[EXPORT] JSON error: %v", err)
		return respondError(c, apperrors.NewExportFailed("json", err))
	}
	c.Set("Content-Type", fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(data)
}
