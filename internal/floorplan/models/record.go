package models

import "time"

// ============================================================
// Stored records
// ============================================================

// RoomRecord is a stored capture without its geometry.
type RoomRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Counts    Counts    `json:"counts"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportRecord is one bundle written for a stored room.
type ExportRecord struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Name      string    `json:"name"`
	Path      string    `json:"-"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
