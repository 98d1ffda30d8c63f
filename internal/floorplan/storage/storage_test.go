package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	s := NewFileStorage("data")
	assert.Equal(t, filepath.Join("data", "rooms", "r1", "exports"), s.ExportsDir("r1"))
	assert.Equal(t, filepath.Join("data", "rooms", "r1", "exports", "CapturedRoom_x.zip"), s.ArchivePath("r1", "CapturedRoom_x"))
	assert.Equal(t, filepath.Join("data", "scratch"), s.ScratchDir())
}

func TestEnsureAndRemove(t *testing.T) {
	s := NewFileStorage(t.TempDir())

	require.NoError(t, s.EnsureExportsDir("r1"))
	path := s.ArchivePath("r1", "a")
	require.NoError(t, os.WriteFile(path, []byte("zip"), 0o644))

	size, err := s.Size(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)

	require.NoError(t, s.RemoveRoom("r1"))
	_, err = os.Stat(s.RoomDir("r1"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.RemoveRoom("never-existed"))
	assert.Error(t, s.RemoveRoom(""))

	require.NoError(t, s.EnsureScratchDir())
	info, err := os.Stat(s.ScratchDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
