package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/oklog/ulid/v2"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
)

// ============================================================
// Bundle archive
// ============================================================

const bundlePrefix = "CapturedRoom_"

// Rasterizer renders the plan of a room as a PNG image.
type Rasterizer interface {
	WritePNG(w io.Writer, room *models.RoomSnapshot) error
}

// Bundle is everything that goes into one archive.
type Bundle struct {
	Name   string
	Room   *models.RoomSnapshot
	Raster Rasterizer
	// Model is the opaque 3D artifact, copied verbatim.
	Model io.Reader
}

// NewBundleName returns a time-sortable archive name.
func NewBundleName() string {
	return bundlePrefix + ulid.Make().String()
}

// ArchiveName is the file name of the archive written for a bundle name.
func ArchiveName(name string) string {
	return name + ".zip"
}

// WriteBundle writes <name>.zip into dir and returns its path. Entries are
// written one after another; on any failure the partial archive is removed
// and only the first error is returned.
func WriteBundle(ctx context.Context, dir string, b Bundle) (string, error) {
	if err := validateBundle(b); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, "."+b.Name+"-*.zip.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp archive: %w", err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) (string, error) {
		tmp.Close()
		os.Remove(tmpPath)
		log.Printf("[EXPORT] Bundle %s aborted: %v", b.Name, err)
		return "", err
	}

	if err := writeArchive(ctx, tmp, b); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("sync archive: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close archive: %w", err)
	}

	target := filepath.Join(dir, ArchiveName(b.Name))
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("move archive into place: %w", err)
	}

	log.Printf("[EXPORT] Bundle written: %s", target)
	return target, nil
}

func validateBundle(b Bundle) error {
	switch {
	case b.Name == "":
		return errors.New("bundle name is empty")
	case strings.ContainsAny(b.Name, `/\`) || b.Name == "." || b.Name == "..":
		return fmt.Errorf("bundle name %q is not a plain file name", b.Name)
	case b.Room == nil:
		return errors.New("bundle has no room")
	case b.Raster == nil:
		return errors.New("bundle has no rasterizer")
	case b.Model == nil:
		return errors.New("bundle has no 3D model")
	}
	return nil
}

type bundleEntry struct {
	ext   string
	write func(w io.Writer) error
}

func writeArchive(ctx context.Context, w io.Writer, b Bundle) error {
	entries := []bundleEntry{
		{".xml", func(w io.Writer) error {
			_, err := io.WriteString(w, GenericXML(b.Room))
			return err
		}},
		{".json", func(w io.Writer) error {
			data, err := JSON(b.Room)
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		}},
		{".png", func(w io.Writer) error {
			return b.Raster.WritePNG(w, b.Room)
		}},
		{".usdz", func(w io.Writer) error {
			_, err := io.Copy(w, b.Model)
			return err
		}},
	}

	zw := zip.NewWriter(w)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}
		name := b.Name + entry.ext
		fw, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return fmt.Errorf("create entry %s: %w", name, err)
		}
		if err := entry.write(fw); err != nil {
			zw.Close()
			return fmt.Errorf("write entry %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}
