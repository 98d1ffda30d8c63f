package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"

	apperrors "github.com/codeyu/roomplan-2d-viewer/internal/common/errors"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/export"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/preview"
)

// ============================================================
// Room Handlers
// ============================================================

// CreateRoom сохраняет снимок комнаты; имя передаётся в ?name=.
func (h *Handler) CreateRoom(c fiber.Ctx) error {
	room, err := readSnapshot(c)
	if err != nil {
		return respondError(c, err)
	}

	rec, err := h.repo.CreateRoom(c.Context(), c.Query("name"), room)
	if err != nil {
		return respondError(c, apperrors.NewInternal(err))
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *Handler) ListRooms(c fiber.Ctx) error {
	rooms, err := h.repo.ListRooms(c.Context())
	if err != nil {
		return respondError(c, apperrors.NewInternal(err))
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}

func (h *Handler) GetRoom(c fiber.Ctx) error {
	rec, room, err := h.loadRoom(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"room":     rec,
		"elements": export.NewDocument(room),
	})
}

func (h *Handler) DeleteRoom(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.repo.DeleteRoom(c.Context(), id); err != nil {
		return respondError(c, roomError(id, err))
	}
	if err := h.storage.RemoveRoom(id); err != nil {
		log.Printf("[FLOORPLAN] Remove artifacts of %s: %v", id, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================
// Stored room outputs
// ============================================================

func (h *Handler) RoomPlanSVG(c fiber.Ctx) error {
	_, room, err := h.loadRoom(c)
	if err != nil {
		return respondError(c, err)
	}
	return h.sendSVG(c, room)
}

func (h *Handler) RoomPlanPNG(c fiber.Ctx) error {
	_, room, err := h.loadRoom(c)
	if err != nil {
		return respondError(c, err)
	}
	return h.sendPNG(c, room)
}

func (h *Handler) RoomExportGeneric(c fiber.Ctx) error {
	_, room, err := h.loadRoom(c)
	if err != nil {
		return respondError(c, err)
	}
	return sendGeneric(c, room)
}

func (h *Handler) RoomExportCAD(c fiber.Ctx) error {
	_, room, err := h.loadRoom(c)
	if err != nil {
		return respondError(c, err)
	}
	return sendCAD(c, room)
}

func (h *Handler) RoomExportJSON(c fiber.Ctx) error {
	_, room, err := h.loadRoom(c)
	if err != nil {
		return respondError(c, err)
	}
	return sendJSON(c, room)
}

func (h *Handler) ListExports(c fiber.Ctx) error {
	rec, _, err := h.loadRoom(c)
	if err != nil {
		return respondError(c, err)
	}
	exports, err := h.repo.ListExports(c.Context(), rec.ID)
	if err != nil {
		return respondError(c, apperrors.NewInternal(err))
	}
	return c.JSON(fiber.Map{"exports": exports})
}

// Preview отдаёт HTML-страницу со сводкой, планом и XML.
func (h *Handler) Preview(c fiber.Ctx) error {
	rec, room, err := h.loadRoom(c)
	if err != nil {
		return respondError(c, err)
	}

	title := rec.Name
	if title == "" {
		title = "Room " + rec.ID
	}
	page, err := preview.Render(preview.Page{
		Title:     title,
		Room:      room,
		PlanURL:   "plan.svg",
		CreatedAt: rec.CreatedAt,
		Labeler:   h.planOptions(c).Labeler,
	})
	if err != nil {
		return respondError(c, apperrors.NewInternal(err))
	}

	c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(page)
}
