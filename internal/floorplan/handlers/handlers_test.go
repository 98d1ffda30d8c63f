package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/klauspost/compress/zip"

	apperrors "github.com/codeyu/roomplan-2d-viewer/internal/common/errors"
	"github.com/codeyu/roomplan-2d-viewer/internal/common/middleware"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/dimension"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/mapper"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/parser"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/repository"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app     *fiber.App
	repo    *repository.Repository
	storage *storage.FileStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := repository.OpenSQLite(filepath.Join(dir, "db", "floorplan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))

	fs := storage.NewFileStorage(filepath.Join(dir, "exports"))
	h := New(repo, fs, mapper.NewRenderer(mapper.DefaultPalette(), mapper.DefaultMargin), dimension.Metric)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	h.Register(app)
	return &testEnv{app: app, repo: repo, storage: fs}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, fiber.TestConfig{Timeout: 30 * time.Second})
	require.NoError(t, err)
	return resp
}

func sampleJSON(t *testing.T) []byte {
	t.Helper()
	data, err := parser.EncodeJSON(models.SampleRoom())
	require.NoError(t, err)
	return data
}

func jsonRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func bundleRequest(t *testing.T, target string, snapshot []byte, model string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if snapshot != nil {
		part, err := w.CreateFormFile("snapshot", "room.json")
		require.NoError(t, err)
		_, err = part.Write(snapshot)
		require.NoError(t, err)
	}
	if model != "" {
		part, err := w.CreateFormFile("model", "room.usdz")
		require.NoError(t, err)
		_, err = part.Write([]byte(model))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return data
}

func createRoom(t *testing.T, env *testEnv) models.RoomRecord {
	t.Helper()
	resp := env.do(t, jsonRequest("POST", "/rooms?name=Kitchen", sampleJSON(t)))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var rec models.RoomRecord
	require.NoError(t, json.Unmarshal(readBody(t, resp), &rec))
	return rec
}

// ============================================================
// Stateless endpoints
// ============================================================

func TestRender_SVG(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, jsonRequest("POST", "/render", sampleJSON(t)))
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	body := string(readBody(t, resp))
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "4.00 m")

	resp = env.do(t, jsonRequest("POST", "/render?units=imperial", sampleJSON(t)))
	assert.Contains(t, string(readBody(t, resp)), "13&#39; 1&#34;")
}

func TestRender_PNG(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, jsonRequest("POST", "/render?format=png", sampleJSON(t)))
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	_, err := png.Decode(bytes.NewReader(readBody(t, resp)))
	assert.NoError(t, err)
}

func TestRender_BadInput(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, jsonRequest("POST", "/render", nil))
	assert.Equal(t, 400, resp.StatusCode)

	resp = env.do(t, jsonRequest("POST", "/render", []byte(`{"walls": [{"transform": [1]}]}`)))
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, string(readBody(t, resp)), "INVALID_REQUEST")

	resp = env.do(t, jsonRequest("POST", "/render?format=gif", sampleJSON(t)))
	assert.Equal(t, 400, resp.StatusCode)
}

func TestExports(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, jsonRequest("POST", "/export/generic", sampleJSON(t)))
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(readBody(t, resp)), "<CapturedRoom>")

	resp = env.do(t, jsonRequest("POST", "/export/cad", sampleJSON(t)))
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(readBody(t, resp)), `<WallInfo num="4"/>`)

	resp = env.do(t, jsonRequest("POST", "/export/json", sampleJSON(t)))
	require.Equal(t, 200, resp.StatusCode)
	var doc map[string][]any
	require.NoError(t, json.Unmarshal(readBody(t, resp), &doc))
	assert.Len(t, doc["walls"], 4)
	assert.Len(t, doc["objects"], 2)
}

func TestExport_YAMLBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("POST", "/export/cad", strings.NewReader("walls:\n  - dimensions: {x: 3, y: 2.5, z: 0.2}\n"))
	req.Header.Set("Content-Type", "application/x-yaml")

	resp := env.do(t, req)
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(readBody(t, resp)), `Width="20" StartX="0" StartY="0" StartZ="0" EndX="300" EndY="0"`)
}

func TestExportBundle(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, bundleRequest(t, "/export/bundle", sampleJSON(t), "usdz"))
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="CapturedRoom_`)

	data := readBody(t, resp)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 4)
	assert.True(t, strings.HasSuffix(zr.File[3].Name, ".usdz"))

	// nothing is left behind in the scratch directory
	entries, err := os.ReadDir(env.storage.ScratchDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportBundle_RequiresModel(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, bundleRequest(t, "/export/bundle", sampleJSON(t), ""))
	assert.Equal(t, 400, resp.StatusCode)

	resp = env.do(t, bundleRequest(t, "/export/bundle", nil, "usdz"))
	assert.Equal(t, 400, resp.StatusCode)
}

// ============================================================
// Stored rooms
// ============================================================

func TestRooms_CRUD(t *testing.T) {
	env := newTestEnv(t)
	rec := createRoom(t, env)
	assert.Equal(t, "Kitchen", rec.Name)
	assert.Equal(t, 4, rec.Counts.Walls)

	resp := env.do(t, httptest.NewRequest("GET", "/rooms", nil))
	require.Equal(t, 200, resp.StatusCode)
	var list struct {
		Rooms []models.RoomRecord `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(readBody(t, resp), &list))
	require.Len(t, list.Rooms, 1)
	assert.Equal(t, rec.ID, list.Rooms[0].ID)

	resp = env.do(t, httptest.NewRequest("GET", "/rooms/"+rec.ID, nil))
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(readBody(t, resp)), `"elements"`)

	for _, path := range []string{"plan.svg", "plan.png", "export.xml", "export.cad.xml", "export.json", "exports", "preview"} {
		resp = env.do(t, httptest.NewRequest("GET", "/rooms/"+rec.ID+"/"+path, nil))
		assert.Equal(t, 200, resp.StatusCode, path)
	}

	resp = env.do(t, httptest.NewRequest("DELETE", "/rooms/"+rec.ID, nil))
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = env.do(t, httptest.NewRequest("GET", "/rooms/"+rec.ID, nil))
	assert.Equal(t, 404, resp.StatusCode)
	assert.Contains(t, string(readBody(t, resp)), "NOT_FOUND")

	resp = env.do(t, httptest.NewRequest("DELETE", "/rooms/"+rec.ID, nil))
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRoomPreview(t *testing.T) {
	env := newTestEnv(t)
	rec := createRoom(t, env)

	resp := env.do(t, httptest.NewRequest("GET", "/rooms/"+rec.ID+"/preview", nil))
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body := string(readBody(t, resp))
	assert.Contains(t, body, "<h1>Kitchen</h1>")
	assert.Contains(t, body, `src="plan.svg"`)
}

func TestRoomBundle_RecordsExport(t *testing.T) {
	env := newTestEnv(t)
	rec := createRoom(t, env)

	resp := env.do(t, bundleRequest(t, "/rooms/"+rec.ID+"/bundle", nil, "usdz"))
	require.Equal(t, 200, resp.StatusCode)
	exportID := resp.Header.Get("X-Export-ID")
	require.NotEmpty(t, exportID)
	assert.NotEmpty(t, readBody(t, resp))

	resp = env.do(t, httptest.NewRequest("GET", "/rooms/"+rec.ID+"/exports", nil))
	require.Equal(t, 200, resp.StatusCode)
	var list struct {
		Exports []models.ExportRecord `json:"exports"`
	}
	require.NoError(t, json.Unmarshal(readBody(t, resp), &list))
	require.Len(t, list.Exports, 1)
	assert.Equal(t, exportID, list.Exports[0].ID)
	assert.True(t, strings.HasPrefix(list.Exports[0].Name, "CapturedRoom_"))

	entries, err := os.ReadDir(env.storage.ExportsDir(rec.ID))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	resp = env.do(t, httptest.NewRequest("DELETE", "/rooms/"+rec.ID, nil))
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	_, err = os.Stat(env.storage.RoomDir(rec.ID))
	assert.True(t, os.IsNotExist(err))
}

func TestRoomBundle_UnknownRoom(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, bundleRequest(t, "/rooms/nope/bundle", nil, "usdz"))
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRoomError_MapsWrappedNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"sentinel", repository.ErrNotFound, apperrors.ErrNotFound},
		{"wrapped", fmt.Errorf("load room: %w", repository.ErrNotFound), apperrors.ErrNotFound},
		{"other", errors.New("disk I/O error"), apperrors.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := roomError("r1", tt.err)
			assert.True(t, apperrors.Is(err, tt.code))
		})
	}
}
