package preview

import (
	"strings"
	"testing"
	"time"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/dimension"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render(Page{
		Title:     "Kitchen",
		Room:      models.SampleRoom(),
		PlanURL:   "plan.svg",
		CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Labeler:   dimension.NewLabeler(dimension.Metric),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Kitchen</title>")
	assert.Contains(t, out, "<h1>Kitchen</h1>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>Walls</td>")
	assert.Contains(t, out, `<img src="plan.svg" alt="plan">`)
	assert.Contains(t, out, `<code class="language-xml">`)
	// the XML is escaped inside the code block
	assert.Contains(t, out, "&lt;CapturedRoom&gt;")
	assert.Contains(t, out, "2024-05-01 09:30 UTC")
	assert.Contains(t, out, "4.00 m")
}

func TestRender_EscapesTitle(t *testing.T) {
	out, err := Render(Page{Title: "<script>x</script>", Room: &models.RoomSnapshot{}})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<h2>Walls</h2>")
}

func TestRender_NilRoom(t *testing.T) {
	_, err := Render(Page{})
	assert.Error(t, err)
}
