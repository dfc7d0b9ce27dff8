package philofeed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultSlotKey names the row or file holding the serialized state.
const DefaultSlotKey = "userContents"

// Slot is a single named location holding the entire serialized store state.
// Save always overwrites the previous value wholesale.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// SQLiteSlot keeps the slot as one row of a SQLite key/value table.
type SQLiteSlot struct {
	db  *sql.DB
	key string
}

// NewSQLiteSlot opens (or creates) the SQLite database at path, ensures the
// data directory exists, and creates the slots table.
func NewSQLiteSlot(path, key string) (*SQLiteSlot, error) {
	if key == "" {
		key = DefaultSlotKey
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL keeps readers off the writer's back; busy_timeout makes a second
	// writer wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	s := &SQLiteSlot{db: db, key: key}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSlot) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS slots (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`)
	return err
}

// Load returns the stored value, or ErrSlotEmpty if the row does not exist.
func (s *SQLiteSlot) Load(ctx context.Context) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Save upserts the slot row.
func (s *SQLiteSlot) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, string(data), time.Now().UTC().Format(time.RFC3339))
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

// FileSlot keeps the slot as a single JSON file.
type FileSlot struct {
	path string
}

// NewFileSlot returns a slot stored at path. The parent directory is created
// on first Save.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Load reads the file, returning ErrSlotEmpty when it does not exist.
func (f *FileSlot) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	return data, err
}

// Save atomically replaces the file: temp file, fsync, rename.
func (f *FileSlot) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("slot: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".philofeed-tmp-*")
	if err != nil {
		return fmt.Errorf("slot: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("slot: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("slot: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("slot: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("slot: rename: %w", err)
	}
	success = true
	return nil
}

// Close is a no-op; FileSlot holds no open handles between calls.
func (f *FileSlot) Close() error { return nil }

// OpenSlot builds the slot named by cfg.
func OpenSlot(cfg StorageConfig) (Slot, error) {
	switch cfg.Driver {
	case StorageDriverFile:
		return NewFileSlot(cfg.Path), nil
	case StorageDriverSQLite, "":
		s, err := NewSQLiteSlot(cfg.Path, cfg.Key)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
