package translate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS translations (
    provider    TEXT NOT NULL,
    source_lang TEXT NOT NULL,
    target_lang TEXT NOT NULL,
    source_text TEXT NOT NULL,
    translated  TEXT NOT NULL,
    created_at  TEXT NOT NULL,
    PRIMARY KEY (provider, source_lang, target_lang, source_text)
)`

// Key identifies one cached translation.
type Key struct {
	Provider string
	Source   string
	Target   string
	Text     string
}

// Store is a SQLite-backed translation memory.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates the cache database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached translation for key.
func (s *Store) Get(ctx context.Context, key Key) (string, bool, error) {
	var translated string
	err := s.db.QueryRowContext(ctx,
		`SELECT translated FROM translations
         WHERE provider = ? AND source_lang = ? AND target_lang = ? AND source_text = ?`,
		key.Provider, key.Source, key.Target, key.Text,
	).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query translation: %w", err)
	}
	return translated, true, nil
}

// Put stores or replaces the translation for key.
func (s *Store) Put(ctx context.Context, key Key, translated string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translations (provider, source_lang, target_lang, source_text, translated, created_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT (provider, source_lang, target_lang, source_text)
         DO UPDATE SET translated = excluded.translated, created_at = excluded.created_at`,
		key.Provider, key.Source, key.Target, key.Text, translated,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store translation: %w", err)
	}
	return nil
}

// Count returns the number of cached translations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count translations: %w", err)
	}
	return n, nil
}

// Cached consults a Store before delegating to the wrapped Translator and
// records successful results. Store failures are logged and otherwise ignored.
type Cached struct {
	next     Translator
	store    *Store
	provider string
	logger   *slog.Logger
}

// NewCached wraps next. provider namespaces the cache entries.
func NewCached(next Translator, store *Store, provider string, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{next: next, store: store, provider: provider, logger: logger}
}

// Translate implements Translator.
func (c *Cached) Translate(ctx context.Context, text, source, target string) (string, error) {
	key := Key{Provider: c.provider, Source: source, Target: target, Text: text}

	if hit, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Warn("translation cache lookup failed", "err", err)
	} else if ok {
		return hit, nil
	}

	translated, err := c.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}

	if err := c.store.Put(ctx, key, translated); err != nil {
		c.logger.Warn("translation cache write failed", "err", err)
	}
	return translated, nil
}
