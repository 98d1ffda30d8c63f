package repository

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/parser"
)

// ErrNotFound is returned when a room does not exist.
var ErrNotFound = errors.New("not found")

//go:embed migrations/001_init.sql
var initMigration string

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Init применяет встроенную миграцию.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, initMigration); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// CreateRoom stores a snapshot under a new UUID.
func (r *Repository) CreateRoom(ctx context.Context, name string, room *models.RoomSnapshot) (*models.RoomRecord, error) {
	data, err := parser.EncodeJSON(room)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	rec := &models.RoomRecord{
		ID:        uuid.NewString(),
		Name:      name,
		Counts:    room.Counts(),
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}
	c := rec.Counts

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO rooms (id, name, snapshot, walls, doors, windows, openings, floors, objects, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, rec.ID, rec.Name, data, c.Walls, c.Doors, c.Windows, c.Openings, c.Floors, c.Objects, rec.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}

	log.Printf("[REPO] Room stored: %s (%d walls, %d objects)", rec.ID, c.Walls, c.Objects)
	return rec, nil
}

// GetRoom returns the record and the decoded snapshot.
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.RoomRecord, *models.RoomSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, walls, doors, windows, openings, floors, objects, created_at, snapshot
        FROM rooms
        WHERE id = ?
    `, id)

	var data []byte
	rec, err := scanRoom(row, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	room, err := parser.ParseJSON(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("decode stored snapshot %s: %w", id, err)
	}
	return rec, room, nil
}

// ListRooms returns every room, newest first.
func (r *Repository) ListRooms(ctx context.Context) ([]models.RoomRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, walls, doors, windows, openings, floors, objects, created_at
        FROM rooms
        ORDER BY created_at DESC, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RoomRecord{}
	for rows.Next() {
		rec, err := scanRoom(rows, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// DeleteRoom removes the room and its export history.
func (r *Repository) DeleteRoom(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM exports WHERE room_id = ?`, id); err != nil {
		return fmt.Errorf("delete exports: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ============================================================
// Export history
// ============================================================

// AddExport records a written bundle under a new ULID.
func (r *Repository) AddExport(ctx context.Context, roomID, name, path string, size int64) (*models.ExportRecord, error) {
	id, err := generateULID(r.now())
	if err != nil {
		return nil, err
	}
	rec := &models.ExportRecord{
		ID:        id,
		RoomID:    roomID,
		Name:      name,
		Path:      path,
		Size:      size,
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}

	res, err := r.db.ExecContext(ctx, `
        INSERT INTO exports (id, room_id, name, path, size, created_at)
        SELECT ?, id, ?, ?, ?, ? FROM rooms WHERE id = ?
    `, rec.ID, rec.Name, rec.Path, rec.Size, rec.CreatedAt.UnixMilli(), roomID)
	if err != nil {
		return nil, fmt.Errorf("insert export: %w", err)
	}

	// INSERT ... SELECT пишет ноль строк, если комнаты нет
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return rec, nil
}

// ListExports returns the export history of a room, oldest first.
func (r *Repository) ListExports(ctx context.Context, roomID string) ([]models.ExportRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, room_id, name, path, size, created_at
        FROM exports
        WHERE room_id = ?
        ORDER BY id
    `, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ExportRecord{}
	for rows.Next() {
		var rec models.ExportRecord
		var created int64
		if err := rows.Scan(&rec.ID, &rec.RoomID, &rec.Name, &rec.Path, &rec.Size, &created); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ============================================================
// Helpers
// ============================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanRoom(s scanner, snapshot *[]byte) (*models.RoomRecord, error) {
	var rec models.RoomRecord
	var created int64
	c := &rec.Counts
	dest := []any{&rec.ID, &rec.Name, &c.Walls, &c.Doors, &c.Windows, &c.Openings, &c.Floors, &c.Objects, &created}
	if snapshot != nil {
		dest = append(dest, snapshot)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.UnixMilli(created).UTC()
	return &rec, nil
}

func generateULID(t time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
