package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// Store records dispatched bot requests for the admin interface. It is an
// audit log only: the HTTP contract never depends on it, and the server
// runs fine without one.
type Store struct {
	*sql.DB
}

func Open(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	slog.Info("request log opened", "path", path)
	return &Store{sqlDB}, nil
}

// Request is one dispatched bot request.
type Request struct {
	ID        string    `json:"id"`
	Bot       string    `json:"bot"`
	Message   string    `json:"message"`
	Fragments int       `json:"fragments"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Store) RecordRequest(id, botName, message, status string, fragments int) error {
	_, err := s.Exec(`
		INSERT INTO requests (id, bot, message, fragments, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, botName, message, fragments, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record request: %w", err)
	}
	return nil
}

// RecentRequests returns the most recently dispatched requests, newest
// first.
func (s *Store) RecentRequests(limit int) ([]Request, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.Query(`
		SELECT id, bot, message, fragments, status, created_at
		FROM requests
		ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.ID, &r.Bot, &r.Message, &r.Fragments, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
