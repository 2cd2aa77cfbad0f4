package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sazzer/newlanding/internal/platform/storage/sqlitemigrate"
	"github.com/sazzer/newlanding/internal/services/web/session"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store is a session.Store backed by SQLite.
type Store struct {
	sqlDB       *sql.DB
	maxLifetime time.Duration
	now         func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for creation times and lifetime checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxLifetime bounds how long a session is served after creation.
func WithMaxLifetime(maxLifetime time.Duration) Option {
	return func(s *Store) {
		if maxLifetime > 0 {
			s.maxLifetime = maxLifetime
		}
	}
}

// Open opens and migrates a session store at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrationFS, "migrations"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	store := &Store{sqlDB: sqlDB, maxLifetime: session.DefaultMaxLifetime, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Create inserts a new session under a fresh ID.
func (s *Store) Create(ctx context.Context, record session.Record) (session.Record, error) {
	if err := s.ready(); err != nil {
		return session.Record{}, err
	}
	id, err := session.NewID()
	if err != nil {
		return session.Record{}, fmt.Errorf("generate session id: %w", err)
	}
	record.ID = id
	record.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO web_sessions (id, subject, display_name, access_token, refresh_token, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Subject,
		record.DisplayName,
		record.AccessToken,
		record.RefreshToken,
		toMillis(record.ExpiresAt),
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return session.Record{}, fmt.Errorf("create session: %w", err)
	}
	return record, nil
}

// Get loads a session. Sessions older than the maximum lifetime are removed
// and reported as missing.
func (s *Store) Get(ctx context.Context, id string) (session.Record, bool, error) {
	if err := s.ready(); err != nil {
		return session.Record{}, false, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return session.Record{}, false, nil
	}

	var record session.Record
	var expiresAt, createdAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, subject, display_name, access_token, refresh_token, expires_at, created_at
		 FROM web_sessions WHERE id = ?`,
		id,
	).Scan(
		&record.ID,
		&record.Subject,
		&record.DisplayName,
		&record.AccessToken,
		&record.RefreshToken,
		&expiresAt,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Record{}, false, nil
	}
	if err != nil {
		return session.Record{}, false, fmt.Errorf("get session: %w", err)
	}
	record.ExpiresAt = fromMillis(expiresAt)
	record.CreatedAt = fromMillis(createdAt)

	if s.now().After(record.CreatedAt.Add(s.maxLifetime)) {
		if err := s.Delete(ctx, id); err != nil {
			return session.Record{}, false, err
		}
		return session.Record{}, false, nil
	}
	return record, true, nil
}

// Update replaces the tokens and profile of an existing session.
func (s *Store) Update(ctx context.Context, record session.Record) error {
	if err := s.ready(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE web_sessions
		 SET subject = ?, display_name = ?, access_token = ?, refresh_token = ?, expires_at = ?
		 WHERE id = ?`,
		record.Subject,
		record.DisplayName,
		record.AccessToken,
		record.RefreshToken,
		toMillis(record.ExpiresAt),
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if affected == 0 {
		return session.ErrNotFound
	}
	return nil
}

// Delete removes a session. Missing sessions are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM web_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session past the maximum lifetime and returns
// how many were removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-s.maxLifetime)
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM web_sessions WHERE created_at < ?`, toMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	return nil
}

func toMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ session.Store = (*Store)(nil)
