// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry records every published newsletter campaign in a SQLite
// database so the archive can be listed and exported without walking the
// site tree.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/newsletter-pages/pkg/types"
)

// DefaultPath is the registry database used when none is configured.
const DefaultPath = "newsletters/registry.db"

// ErrNotFound is returned by Get for an unknown campaign.
var ErrNotFound = errors.New("campaign not found")

// Store manages the registry database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the registry at cfg.Path, creating its parent
// directory and schema when missing.
func NewStore(cfg types.RegistryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating registry directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS campaigns (
			name TEXT PRIMARY KEY,
			number INTEGER NOT NULL,
			pdf_path TEXT NOT NULL,
			images INTEGER NOT NULL,
			elements INTEGER NOT NULL,
			status TEXT NOT NULL,
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_campaigns_number ON campaigns(number)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts c or replaces the row with the same name.
func (s *Store) Record(ctx context.Context, c types.Campaign) error {
	if c.ConvertedAt.IsZero() {
		c.ConvertedAt = time.Now()
	}
	if c.Status == "" {
		c.Status = types.ConversionDone
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO campaigns (name, number, pdf_path, images, elements, status, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			number = excluded.number,
			pdf_path = excluded.pdf_path,
			images = excluded.images,
			elements = excluded.elements,
			status = excluded.status,
			converted_at = excluded.converted_at`,
		c.Name, c.Number, c.PDFPath, c.Images, c.Elements, string(c.Status),
		c.ConvertedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording campaign %s: %w", c.Name, err)
	}
	return nil
}

// Get returns the campaign called name.
func (s *Store) Get(ctx context.Context, name string) (types.Campaign, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, number, pdf_path, images, elements, status, converted_at
		 FROM campaigns WHERE name = ?`, name)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Campaign{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return c, err
}

// List returns all campaigns, newest issue number first.
func (s *Store) List(ctx context.Context) ([]types.Campaign, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, number, pdf_path, images, elements, status, converted_at
		 FROM campaigns ORDER BY number DESC, name DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying campaigns: %w", err)
	}
	defer rows.Close()

	var out []types.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row scanner) (types.Campaign, error) {
	var (
		c           types.Campaign
		status      string
		convertedAt string
	)
	if err := row.Scan(&c.Name, &c.Number, &c.PDFPath, &c.Images, &c.Elements, &status, &convertedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scanning campaign: %w", err)
	}
	c.Status = types.ConversionStatus(status)
	t, err := time.Parse(time.RFC3339Nano, convertedAt)
	if err != nil {
		return c, fmt.Errorf("parsing converted_at for %s: %w", c.Name, err)
	}
	c.ConvertedAt = t
	return c, nil
}
