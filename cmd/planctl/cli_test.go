package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes planctl with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newCLIApp(strings.NewReader(stdin), &out)
	err := app.Run(append([]string{"planctl"}, args...))
	return out.String(), err
}

// writeSample stores the sample room as a snapshot file.
func writeSample(t *testing.T) string {
	t.Helper()
	data, err := parser.EncodeJSON(models.SampleRoom())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "room.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSample_RoundTrips(t *testing.T) {
	out, err := run(t, "", "sample")
	require.NoError(t, err)

	room, err := parser.Parse([]byte(out), parser.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, models.SampleRoom(), room)
}

func TestRender(t *testing.T) {
	path := writeSample(t)

	out, err := run(t, "", "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, "<svg xmlns=")
	assert.Contains(t, out, "4.00 m")

	out, err = run(t, "", "render", "--units", "imperial", path)
	require.NoError(t, err)
	assert.Contains(t, out, "13&#39; 1&#34;")

	png := filepath.Join(t.TempDir(), "plan.png")
	_, err = run(t, "", "render", "--format", "png", "--out", png, path)
	require.NoError(t, err)
	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRender_Errors(t *testing.T) {
	path := writeSample(t)

	_, err := run(t, "", "render")
	assert.ErrorContains(t, err, "INVALID_REQUEST")

	_, err = run(t, "", "render", "--format", "gif", path)
	assert.ErrorContains(t, err, "unsupported format")

	_, err = run(t, "", "render", "--accent", "blue", path)
	assert.ErrorContains(t, err, "INVALID_REQUEST")

	_, err = run(t, `{"walls": [{"transform": [1, 2]}]}`, "render", "-")
	assert.ErrorContains(t, err, "invalid snapshot")
}

func TestExport_Stdin(t *testing.T) {
	yaml := "walls:\n  - dimensions: {x: 3, y: 2.5, z: 0.2}\n"

	out, err := run(t, yaml, "export", "--format", "cad", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `Width="20" StartX="0" StartY="0" StartZ="0" EndX="300" EndY="0"`)

	out, err = run(t, yaml, "export", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "\n<CapturedRoom>\n")

	out, err = run(t, yaml, "export", "--format", "json", "-")
	require.NoError(t, err)
	var doc map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc["walls"], 1)
}

func TestExport_GenericRoundTrip(t *testing.T) {
	path := writeSample(t)
	xmlPath := filepath.Join(t.TempDir(), "room.xml")

	_, err := run(t, "", "export", "--out", xmlPath, path)
	require.NoError(t, err)

	first, err := os.ReadFile(xmlPath)
	require.NoError(t, err)

	again, err := run(t, "", "export", xmlPath)
	require.NoError(t, err)
	assert.Equal(t, string(first), again)
}

func TestBundle(t *testing.T) {
	path := writeSample(t)
	dir := t.TempDir()
	model := filepath.Join(dir, "room.usdz")
	require.NoError(t, os.WriteFile(model, []byte("usdz"), 0o644))

	out, err := run(t, "", "bundle", "--model", model, "--dir", dir, "--name", "CapturedRoom_cli", path)
	require.NoError(t, err)
	archive := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "CapturedRoom_cli.zip"), archive)

	zr, err := zip.OpenReader(archive)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 4)
	assert.Equal(t, "CapturedRoom_cli.usdz", zr.File[3].Name)

	_, err = run(t, "", "bundle", "--model", filepath.Join(dir, "missing.usdz"), "--dir", dir, path)
	assert.ErrorContains(t, err, "open model")

	_, err = run(t, "", "bundle", path)
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	path := writeSample(t)

	out, err := run(t, "", "inspect", path)
	require.NoError(t, err)

	var summary inspectSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 4, summary.Counts.Walls)
	assert.Equal(t, 2, summary.Counts.Objects)
	assert.Equal(t, 0, summary.ReferenceWall)
	assert.Equal(t, 250, summary.SceneHeight)
	assert.Equal(t, []string{"4.00 m", "3.00 m", "4.00 m", "3.00 m"}, summary.Walls)
	assert.Less(t, summary.Bounds[0], summary.Bounds[2])
}
