package handlers

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v3"

	apperrors "github.com/codeyu/roomplan-2d-viewer/internal/common/errors"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/export"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
)

// ============================================================
// Bundle Handlers
// ============================================================

// ExportBundle упаковывает снимок без сохранения: multipart с полями
// snapshot и model. Архив собирается во временном каталоге и удаляется
// после отправки.
func (h *Handler) ExportBundle(c fiber.Ctx) error {
	log.Printf("[EXPORT] Bundle request, Content-Length: %d", len(c.Body()))

	room, err := readSnapshot(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.storage.EnsureScratchDir(); err != nil {
		return respondError(c, apperrors.NewInternal(err))
	}

	name := export.NewBundleName()
	path, err := h.writeBundle(c, h.storage.ScratchDir(), name, room)
	if err != nil {
		return respondError(c, err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return respondError(c, apperrors.NewExportFailed("bundle", err))
	}

	setAttachment(c, export.ArchiveName(name))
	return c.Send(data)
}

// RoomBundle пишет архив сохранённой комнаты в её каталог экспорта и
// добавляет запись в историю.
func (h *Handler) RoomBundle(c fiber.Ctx) error {
	rec, room, err := h.loadRoom(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.storage.EnsureExportsDir(rec.ID); err != nil {
		return respondError(c, apperrors.NewInternal(err))
	}

	name := export.NewBundleName()
	path, err := h.writeBundle(c, h.storage.ExportsDir(rec.ID), name, room)
	if err != nil {
		return respondError(c, err)
	}

	size, err := h.storage.Size(path)
	if err != nil {
		return respondError(c, apperrors.NewInternal(err))
	}
	exp, err := h.repo.AddExport(c.Context(), rec.ID, name, path, size)
	if err != nil {
		os.Remove(path)
		return respondError(c, roomError(rec.ID, err))
	}

	log.Printf("[EXPORT] Room %s exported as %s (%d bytes)", rec.ID, exp.Name, size)
	c.Set("X-Export-ID", exp.ID)
	setAttachment(c, export.ArchiveName(name))
	return c.SendFile(path)
}

func (h *Handler) writeBundle(c fiber.Ctx, dir, name string, room *models.RoomSnapshot) (string, error) {
	model, err := c.FormFile("model")
	if err != nil {
		return "", apperrors.NewInvalidRequest("model file required in multipart/form-data")
	}
	f, err := model.Open()
	if err != nil {
		return "", apperrors.NewInvalidRequest("failed to open model file")
	}
	defer f.Close()

	path, err := export.WriteBundle(c.Context(), dir, export.Bundle{
		Name:   name,
		Room:   room,
		Raster: h.renderer.ForRoom(h.planOptions(c)),
		Model:  f,
	})
	if err != nil {
		return "", apperrors.NewExportFailed("bundle", err)
	}
	return path, nil
}

func setAttachment(c fiber.Ctx, filename string) {
	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}
