// Package history provides an optional sqlite-backed sink for completed
// transfer records (§11.2). It is wired into the receiver as a Hooks
// implementation: every completed
// transfer is appended as one row, queryable later via List.
package history

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite" // pure Go sqlite driver

	"github.com/dnstun/dnstun/internal/helpers"
)

// defaultListLimit and maxListLimit bound the page size List will ever run,
// regardless of what a caller (including an HTTP query parameter, in
// internal/statusapi) passes in.
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Record is one completed transfer as stored by Store.
type Record struct {
	ID          int64
	Path        string
	PeerAddr    string
	SizeBytes   int
	CompletedAt time.Time
}

// Store wraps a sqlite database holding the transfer history table.
type Store struct {
	conn *sql.DB
	mu   sync.RWMutex
}

// Open opens or creates a sqlite database at path and runs migrations.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	s := &Store{conn: conn}
	if err := s.runMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) runMigrations() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := sqlite.WithInstance(s.conn, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Health checks database connectivity.
func (s *Store) Health() error {
	return s.conn.Ping()
}

// Record inserts one completed-transfer row.
func (s *Store) Record(path, peerAddr string, sizeBytes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(
		`INSERT INTO transfers (path, peer_addr, size_bytes) VALUES (?, ?, ?)`,
		path, peerAddr, sizeBytes,
	)
	if err != nil {
		return fmt.Errorf("history: record transfer: %w", err)
	}
	return nil
}

// List returns the most recent transfers, newest first, capped at limit.
func (s *Store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = helpers.ClampInt(limit, 1, maxListLimit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query(
		`SELECT id, path, peer_addr, size_bytes, completed_at
		 FROM transfers ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: list transfers: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Path, &r.PeerAddr, &r.SizeBytes, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("history: scan transfer row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate transfer rows: %w", err)
	}
	return records, nil
}
