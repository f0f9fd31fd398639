// Package audit provides an append-only diagnostic log backed by SQLite.
// Entries can be written and read back but never updated or removed.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/JaimeStill/redline/pkg/lifecycle"
	"github.com/JaimeStill/redline/pkg/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
    entry_id    TEXT PRIMARY KEY,
    timestamp   INTEGER NOT NULL,
    component   TEXT NOT NULL,
    operation   TEXT NOT NULL,
    subject     TEXT NOT NULL DEFAULT '',
    error_code  TEXT NOT NULL DEFAULT '',
    message     TEXT NOT NULL DEFAULT '',
    remote_addr TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp DESC);`

// Entry is a single diagnostic record.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Component  string    `json:"component"`
	Operation  string    `json:"operation"`
	Subject    string    `json:"subject,omitempty"`
	ErrorCode  string    `json:"error_code,omitempty"`
	Message    string    `json:"message,omitempty"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
}

// System appends and reads diagnostic entries.
type System interface {
	// Start registers a shutdown hook that closes the audit database.
	Start(lc *lifecycle.Coordinator) error
	// Record appends entry, assigning an ID and timestamp when unset.
	Record(ctx context.Context, entry Entry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
	// Close releases the database handle.
	Close() error
}

type sqliteLog struct {
	db     *sql.DB
	logger *slog.Logger
}

// New opens the audit database at cfg.Path and ensures the schema exists.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	// a single connection keeps in-memory databases alive and serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init audit schema: %w", err)
	}

	return &sqliteLog{
		db:     db,
		logger: logger.With("system", "audit"),
	}, nil
}

func (s *sqliteLog) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting audit log")

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := s.Close(); err != nil {
			s.logger.Error("audit close failed", "error", err)
			return
		}
		s.logger.Info("audit log closed")
	})

	return nil
}

func (s *sqliteLog) Record(ctx context.Context, entry Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	err := repository.ExecExpectOne(
		ctx, s.db,
		`INSERT INTO audit_log(entry_id, timestamp, component, operation, subject, error_code, message, remote_addr)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.String(),
		entry.Timestamp.UnixMilli(),
		entry.Component,
		entry.Operation,
		entry.Subject,
		entry.ErrorCode,
		entry.Message,
		entry.RemoteAddr,
	)
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}

	return nil
}

func (s *sqliteLog) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	q := `SELECT entry_id, timestamp, component, operation, subject, error_code, message, remote_addr
		  FROM audit_log ORDER BY timestamp DESC, rowid DESC LIMIT ?`

	entries, err := repository.QueryMany(ctx, s.db, q, []any{limit}, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	return entries, nil
}

func (s *sqliteLog) Close() error {
	return s.db.Close()
}

func scanEntry(sc repository.Scanner) (Entry, error) {
	var (
		e  Entry
		id string
		ts int64
	)

	if err := sc.Scan(&id, &ts, &e.Component, &e.Operation, &e.Subject, &e.ErrorCode, &e.Message, &e.RemoteAddr); err != nil {
		return e, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return e, fmt.Errorf("parse entry id: %w", err)
	}

	e.ID = parsed
	e.Timestamp = time.UnixMilli(ts)
	return e, nil
}
