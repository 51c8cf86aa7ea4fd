// Package database persists the generation history: one row per produced
// artifact (generated deck, edited deck, PDF conversion).
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryEntry is one produced artifact.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Slides    int       `json:"slides"`
	Kind      string    `json:"kind"` // generated, edited, converted
	CreatedAt time.Time `json:"created_at"`
}

// HistoryService stores history rows in a sqlite database.
type HistoryService struct {
	db *sql.DB
}

// NewHistoryService opens (and if needed creates) the history database.
func NewHistoryService(dbPath string) (*HistoryService, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %v", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		title TEXT,
		slides INTEGER,
		kind TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %v", err)
	}
	return &HistoryService{db: db}, nil
}

// Record inserts one entry. CreatedAt defaults to now when zero.
func (s *HistoryService) Record(entry HistoryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO history (id, filename, title, slides, kind, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Filename, entry.Title, entry.Slides, entry.Kind, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record history entry: %v", err)
	}
	return nil
}

// List returns the most recent entries, newest first. limit <= 0 means a
// default of 50.
func (s *HistoryService) List(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, filename, title, slides, kind, created_at FROM history ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %v", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Filename, &e.Title, &e.Slides, &e.Kind, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %v", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *HistoryService) Close() error {
	return s.db.Close()
}
