// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the user's paper collection in SQLite. It supplies
// the PaperReference when a connect action starts from a saved paper rather
// than from ad-hoc search text.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mkweon/paperweb/pkg/types"
)

// Store manages the paper collection database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the SQLite database at cfg.Path and creates the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "papers.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS papers (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		authors TEXT,
		year INTEGER,
		citation_count INTEGER NOT NULL DEFAULT 0,
		arxiv_id TEXT,
		doi TEXT,
		url TEXT,
		abstract TEXT,
		added_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Save upserts a paper. A zero AddedAt is stamped with the current time;
// re-saving an existing id keeps the original AddedAt.
func (s *Store) Save(ctx context.Context, p types.Paper) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.AddedAt.IsZero() {
		p.AddedAt = time.Now().UTC()
	}

	authorsJSON, _ := json.Marshal(p.Authors)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (id, title, authors, year, citation_count, arxiv_id, doi, url, abstract, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, year=excluded.year,
			citation_count=excluded.citation_count, arxiv_id=excluded.arxiv_id,
			doi=excluded.doi, url=excluded.url, abstract=excluded.abstract`,
		p.ID, p.Title, string(authorsJSON), p.Year, p.CitationCount,
		p.ArxivID, p.DOI, p.URL, p.Abstract, p.AddedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", p.ID, err)
	}
	return nil
}

// Get returns the paper with the given id, or types.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (types.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, authors, year, citation_count, arxiv_id, doi, url, abstract, added_at
		 FROM papers WHERE id = ?`, id)

	p, err := scanPaper(row)
	if err == sql.ErrNoRows {
		return types.Paper{}, fmt.Errorf("paper %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return types.Paper{}, fmt.Errorf("reading paper %s: %w", id, err)
	}
	return p, nil
}

// List returns all papers ordered by most recently added.
func (s *Store) List(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, year, citation_count, arxiv_id, doi, url, abstract, added_at
		 FROM papers ORDER BY added_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// Delete removes the paper with the given id, or returns types.ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM papers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting paper %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting paper %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("paper %s: %w", id, types.ErrNotFound)
	}
	return nil
}

// Count returns the number of stored papers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(row scanner) (types.Paper, error) {
	var p types.Paper
	var authorsJSON, addedAt string
	var year sql.NullInt64
	var arxivID, doi, u, abstract sql.NullString

	err := row.Scan(&p.ID, &p.Title, &authorsJSON, &year, &p.CitationCount,
		&arxivID, &doi, &u, &abstract, &addedAt)
	if err != nil {
		return types.Paper{}, err
	}

	if authorsJSON != "" {
		json.Unmarshal([]byte(authorsJSON), &p.Authors)
	}
	p.Year = int(year.Int64)
	p.ArxivID = arxivID.String
	p.DOI = doi.String
	p.URL = u.String
	p.Abstract = abstract.String
	if t, err := time.Parse(time.RFC3339, addedAt); err == nil {
		p.AddedAt = t
	}
	return p, nil
}
