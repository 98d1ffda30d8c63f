package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/export"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage lays out export artifacts on disk:
//
//	<root>/rooms/<roomID>/exports/<name>.zip
//	<root>/scratch/<name>.zip
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) Root() string {
	return s.root
}

func (s *FileStorage) RoomDir(roomID string) string {
	return filepath.Join(s.root, "rooms", roomID)
}

func (s *FileStorage) ExportsDir(roomID string) string {
	return filepath.Join(s.RoomDir(roomID), "exports")
}

func (s *FileStorage) ArchivePath(roomID, name string) string {
	return filepath.Join(s.ExportsDir(roomID), export.ArchiveName(name))
}

// ScratchDir holds bundles for unsaved snapshots. They are removed after
// they have been sent.
func (s *FileStorage) ScratchDir() string {
	return filepath.Join(s.root, "scratch")
}

func (s *FileStorage) EnsureExportsDir(roomID string) error {
	path := s.ExportsDir(roomID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir exports dir: %w", err)
	}
	return nil
}

func (s *FileStorage) EnsureScratchDir() error {
	if err := os.MkdirAll(s.ScratchDir(), 0o755); err != nil {
		return fmt.Errorf("mkdir scratch dir: %w", err)
	}
	return nil
}

// RemoveRoom deletes every artifact of a room. A missing directory is not an
// error.
func (s *FileStorage) RemoveRoom(roomID string) error {
	if roomID == "" {
		return fmt.Errorf("empty room id")
	}
	if err := os.RemoveAll(s.RoomDir(roomID)); err != nil {
		return fmt.Errorf("remove room dir: %w", err)
	}
	return nil
}

// Size reports the size of a written artifact.
func (s *FileStorage) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
