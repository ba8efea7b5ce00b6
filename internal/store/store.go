package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"vidctl/internal/config"
	"vidctl/internal/logging"
)

// ErrNotFound is returned by the Get and Delete operations when no row has
// the requested identifier.
var ErrNotFound = errors.New("record not found")

// Store persists entity records in a SQLite database.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	busy   busyPolicy
}

// Open creates or opens the database at cfg.Store.Path and verifies its
// schema. A nil logger discards output.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	db, err := sql.Open("sqlite", dataSourceName(cfg.Store))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	s := &Store{
		db:     db,
		path:   cfg.Store.Path,
		logger: logging.NewComponentLogger(logger, "store"),
		busy:   busyPolicy{attempts: max(cfg.Store.BusyRetries, 0) + 1},
	}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// dataSourceName carries the pragmas in the DSN so every pooled connection
// gets them, not only the first. Without a file: prefix the driver strips
// the query before opening the path.
func dataSourceName(cfg config.Store) string {
	pragmas := url.Values{"_pragma": {
		"foreign_keys(1)",
		"journal_mode(WAL)",
		fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeoutMillis),
	}}
	return cfg.Path + "?" + pragmas.Encode()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// busyPolicy bounds how often a write is retried while another connection
// holds the database lock. The delay doubles from 10ms up to 200ms.
type busyPolicy struct {
	attempts int
}

const (
	busyInitialDelay = 10 * time.Millisecond
	busyMaxDelay     = 200 * time.Millisecond
)

func isBusy(err error) bool {
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code()&0xff == sqlite3.SQLITE_BUSY
	}
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	delay := busyInitialDelay
	for attempt := 1; ; attempt++ {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err == nil || !isBusy(err) || attempt >= s.busy.attempts {
			return res, err
		}
		s.logger.Debug("database busy, retrying", "attempt", attempt, "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay = min(delay*2, busyMaxDelay)
	}
}
