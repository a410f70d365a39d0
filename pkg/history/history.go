package history

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/richard-senior/edutune/internal/logger"
	_ "modernc.org/sqlite"
)

// Source records where a batch of commands came from
type Source string

const (
	Typed Source = "typed"
	SVG   Source = "svg"
)

// Entry is one executed batch of GeoGebra commands
type Entry struct {
	ID        int64     `json:"id"`
	Commands  string    `json:"commands"`
	Source    Source    `json:"source"`
	Accepted  int       `json:"accepted"`
	Rejected  int       `json:"rejected"`
	CreatedAt time.Time `json:"createdAt"`
}

// Age is the human readable time since the entry was recorded
func (e Entry) Age() string {
	return humanize.Time(e.CreatedAt)
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS command_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	commands TEXT NOT NULL,
	source TEXT NOT NULL,
	accepted INTEGER NOT NULL DEFAULT 0,
	rejected INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
)`

// Store keeps command history in a sqlite database
type Store struct {
	db    *sql.DB
	limit int
	now   func() time.Time
}

// Open opens (or creates) the history database at dsn.
// limit caps the number of rows kept, 0 means unlimited.
func Open(dsn string, limit int) (*Store, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}
	logger.Info("History database initialized", dsn)
	return &Store{db: db, limit: limit, now: time.Now}, nil
}

// Add records a batch and trims the oldest rows beyond the store limit
func (s *Store) Add(commands string, source Source, accepted, rejected int) (*Entry, error) {
	commands = strings.TrimSpace(commands)
	if commands == "" {
		return nil, fmt.Errorf("nothing to record")
	}
	e := &Entry{Commands: commands, Source: source, Accepted: accepted, Rejected: rejected, CreatedAt: s.now()}
	res, err := s.db.Exec(
		"INSERT INTO command_history (commands, source, accepted, rejected, created_at) VALUES (?, ?, ?, ?, ?)",
		e.Commands, string(e.Source), e.Accepted, e.Rejected, e.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to insert history: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read history id: %w", err)
	}
	if s.limit > 0 {
		if _, err := s.db.Exec(
			"DELETE FROM command_history WHERE id NOT IN (SELECT id FROM command_history ORDER BY id DESC LIMIT ?)",
			s.limit); err != nil {
			logger.Warn("Failed to trim history", err)
		}
	}
	return e, nil
}

// List returns up to limit entries, newest first. limit <= 0 returns everything.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		"SELECT id, commands, source, accepted, rejected, created_at FROM command_history ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var src string
		var created int64
		if err := rows.Scan(&e.ID, &e.Commands, &src, &e.Accepted, &e.Rejected, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Source = Source(src)
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Export joins every recorded command, oldest first, one per line
func (s *Store) Export() (string, error) {
	entries, err := s.List(0)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		lines = append(lines, entries[i].Commands)
	}
	return strings.Join(lines, "\n"), nil
}

// Clear removes every entry and returns how many were deleted
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec("DELETE FROM command_history")
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var (
	defaultStore *Store
	defaultErr   error
	defaultOnce  sync.Once
)

// Default lazily opens the process wide store
func Default(dsn string, limit int) (*Store, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = Open(dsn, limit)
	})
	return defaultStore, defaultErr
}
