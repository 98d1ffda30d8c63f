package handlers

import (
	"errors"
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"

	apperrors "github.com/codeyu/roomplan-2d-viewer/internal/common/errors"
	"github.com/codeyu/roomplan-2d-viewer/internal/common/middleware"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/dimension"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/mapper"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/parser"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/repository"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/schematic"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/storage"
)

// ============================================================
// Floor Plan Handler
// ============================================================

type Handler struct {
	repo     *repository.Repository
	storage  *storage.FileStorage
	renderer *mapper.Renderer
	units    dimension.Mode
}

func New(repo *repository.Repository, fs *storage.FileStorage, renderer *mapper.Renderer, units dimension.Mode) *Handler {
	return &Handler{
		repo:     repo,
		storage:  fs,
		renderer: renderer,
		units:    units,
	}
}

// Register mounts every floor-plan route on r.
func (h *Handler) Register(r fiber.Router) {
	r.Post("/render", h.Render)
	r.Post("/export/generic", h.ExportGeneric)
	r.Post("/export/cad", h.ExportCAD)
	r.Post("/export/json", h.ExportJSON)
	r.Post("/export/bundle", h.ExportBundle)

	r.Post("/rooms", h.CreateRoom)
	r.Get("/rooms", h.ListRooms)
	r.Get("/rooms/:id", h.GetRoom)
	r.Delete("/rooms/:id", h.DeleteRoom)
	r.Get("/rooms/:id/plan.svg", h.RoomPlanSVG)
	r.Get("/rooms/:id/plan.png", h.RoomPlanPNG)
	r.Get("/rooms/:id/export.xml", h.RoomExportGeneric)
	r.Get("/rooms/:id/export.cad.xml", h.RoomExportCAD)
	r.Get("/rooms/:id/export.json", h.RoomExportJSON)
	r.Get("/rooms/:id/exports", h.ListExports)
	r.Post("/rooms/:id/bundle", h.RoomBundle)
	r.Get("/rooms/:id/preview", h.Preview)
}

// ============================================================
// Request helpers
// ============================================================

// planOptions reads ?units=, falling back to the service default.
func (h *Handler) planOptions(c fiber.Ctx) schematic.Options {
	opts := schematic.DefaultOptions()
	mode := h.units
	if units := c.Query("units"); units != "" {
		mode = dimension.ParseMode(units)
	}
	opts.Labeler = dimension.NewLabeler(mode)
	return opts
}

// readSnapshot decodes the snapshot from the raw body or, for multipart
// requests, from the "snapshot" file or field.
func readSnapshot(c fiber.Ctx) (*models.RoomSnapshot, error) {
	var (
		data     []byte
		filename string
	)

	if strings.HasPrefix(c.Get("Content-Type"), fiber.MIMEMultipartForm) {
		if file, err := c.FormFile("snapshot"); err == nil {
			f, err := file.Open()
			if err != nil {
				return nil, apperrors.NewInvalidRequest("failed to open snapshot file")
			}
			defer f.Close()
			if data, err = io.ReadAll(f); err != nil {
				return nil, apperrors.NewInvalidRequest("failed to read snapshot file")
			}
			filename = file.Filename
		} else {
			data = []byte(c.FormValue("snapshot"))
		}
	} else {
		data = c.Body()
		filename = filenameForContentType(c.Get("Content-Type"))
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, apperrors.NewInvalidRequest("snapshot required")
	}

	format := parser.DetectFormat(filename, data)
	room, err := parser.Parse(data, format)
	if err != nil {
		log.Printf("[FLOORPLAN] Decode error (%s): %v", format, err)
		return nil, apperrors.NewInvalidRequest("invalid snapshot: " + err.Error())
	}

	log.Printf("[FLOORPLAN] Snapshot decoded (%s): %+v", format, room.Counts())
	return room, nil
}

func filenameForContentType(ct string) string {
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "yaml"):
		return "snapshot.yaml"
	case strings.Contains(ct, "xml"):
		return "snapshot.xml"
	case strings.Contains(ct, "json"):
		return "snapshot.json"
	}
	return ""
}

// loadRoom fetches a stored room or answers 404.
func (h *Handler) loadRoom(c fiber.Ctx) (*models.RoomRecord, *models.RoomSnapshot, error) {
	id := c.Params("id")
	rec, room, err := h.repo.GetRoom(c.Context(), id)
	if err != nil {
		return nil, nil, roomError(id, err)
	}
	return rec, room, nil
}

// roomError maps repository failures for room id, wrapped or not, to 404 or 500.
func roomError(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("room", id)
	}
	return apperrors.NewInternal(err)
}

func respondError(c fiber.Ctx, err error) error {
	return middleware.RespondError(c, err)
}
