package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nixdoc/internal/extractor"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			description TEXT,
			content_hash TEXT,
			size INTEGER,
			scanned_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS entries (
			file TEXT NOT NULL,
			position INTEGER NOT NULL,
			category TEXT NOT NULL,
			name TEXT NOT NULL,
			doc JSON,
			fn_type TEXT,
			example TEXT,
			args JSON,
			PRIMARY KEY (file, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_category ON entries(category);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveFile(ctx context.Context, file FileRecord, entries []extractor.ManualEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO files (path, category, description, content_hash, size, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			category=excluded.category,
			description=excluded.description,
			content_hash=excluded.content_hash,
			size=excluded.size,
			scanned_at=excluded.scanned_at
	`, file.Path, file.Category, file.Description, file.ContentHash, file.Size, file.ScannedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to save file %s: %w", file.Path, err)
	}

	// Entries of a file are replaced as a whole snapshot.
	if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE file = ?", file.Path); err != nil {
		return fmt.Errorf("failed to clear entries of %s: %w", file.Path, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (file, position, category, name, doc, fn_type, example, args)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		doc, err := json.Marshal(e.Description)
		if err != nil {
			return err
		}
		args, err := extractor.MarshalArgs(e.Args)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, file.Path, i, e.Category, e.Name, doc, e.FnType, e.Example, args); err != nil {
			return fmt.Errorf("failed to save entry %s: %w", e.Name, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) DeleteFile(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE file = ?", path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) FileHash(ctx context.Context, path string) (string, bool, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, "SELECT content_hash FROM files WHERE path = ?", path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return hash, true, nil
}

func (s *SQLiteStore) ListFiles(ctx context.Context) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, category, description, content_hash, size, scanned_at FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		var scannedAt string
		if err := rows.Scan(&f.Path, &f.Category, &f.Description, &f.ContentHash, &f.Size, &scannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, scannedAt); err == nil {
			f.ScannedAt = t
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT category FROM files ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *SQLiteStore) LoadCategory(ctx context.Context, category string) ([]extractor.ManualEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, name, doc, fn_type, example, args FROM entries
		WHERE category = ?
		ORDER BY file, position
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []extractor.ManualEntry
	for rows.Next() {
		var e extractor.ManualEntry
		var doc, args []byte
		if err := rows.Scan(&e.Category, &e.Name, &doc, &e.FnType, &e.Example, &args); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if err := json.Unmarshal(doc, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to decode description of %s: %w", e.Name, err)
		}
		if e.Args, err = extractor.UnmarshalArgs(args); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
