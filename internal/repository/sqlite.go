package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quote-templater/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite (pure Go).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path and
// makes sure the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quotes (
		id             INTEGER PRIMARY KEY,
		site_id        INTEGER NOT NULL DEFAULT 0,
		destination_id INTEGER NOT NULL DEFAULT 0,
		date_quoted    TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS destinations (
		id            INTEGER PRIMARY KEY,
		country_name  TEXT NOT NULL DEFAULT '',
		conjunction   TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL DEFAULT '',
		computer_name TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS sites (
		id  INTEGER PRIMARY KEY,
		url TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) QuoteByID(ctx context.Context, id int64) (model.Quote, error) {
	var (
		q      model.Quote
		quoted string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, site_id, destination_id, date_quoted FROM quotes WHERE id = ?`, id,
	).Scan(&q.ID, &q.SiteID, &q.DestinationID, &quoted)
	if err != nil {
		return q, notFound(err)
	}
	if quoted != "" {
		t, err := time.Parse(time.RFC3339, quoted)
		if err != nil {
			return q, fmt.Errorf("quote %d date_quoted: %w", id, err)
		}
		q.DateQuoted = t
	}
	return q, nil
}

func (s *SQLiteStore) DestinationByID(ctx context.Context, id int64) (model.Destination, error) {
	var d model.Destination
	err := s.db.QueryRowContext(ctx,
		`SELECT id, country_name, conjunction, name, computer_name FROM destinations WHERE id = ?`, id,
	).Scan(&d.ID, &d.CountryName, &d.Conjunction, &d.Name, &d.ComputerName)
	return d, notFound(err)
}

func (s *SQLiteStore) SiteByID(ctx context.Context, id int64) (model.Site, error) {
	var st model.Site
	err := s.db.QueryRowContext(ctx, `SELECT id, url FROM sites WHERE id = ?`, id).Scan(&st.ID, &st.URL)
	return st, notFound(err)
}

func (s *SQLiteStore) UserByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email)
	return u, notFound(err)
}

// Seed upserts all fixtures in one transaction.
func (s *SQLiteStore) Seed(ctx context.Context, f model.Fixtures) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range f.Quotes {
		quoted := ""
		if !q.DateQuoted.IsZero() {
			quoted = q.DateQuoted.UTC().Format(time.RFC3339)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO quotes (id, site_id, destination_id, date_quoted) VALUES (?, ?, ?, ?)`,
			q.ID, q.SiteID, q.DestinationID, quoted,
		); err != nil {
			return err
		}
	}
	for _, d := range f.Destinations {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO destinations (id, country_name, conjunction, name, computer_name) VALUES (?, ?, ?, ?, ?)`,
			d.ID, d.CountryName, d.Conjunction, d.Name, d.ComputerName,
		); err != nil {
			return err
		}
	}
	for _, st := range f.Sites {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO sites (id, url) VALUES (?, ?)`, st.ID, st.URL); err != nil {
			return err
		}
	}
	for _, u := range f.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO users (id, first_name, last_name, email) VALUES (?, ?, ?, ?)`,
			u.ID, u.FirstName, u.LastName, u.Email,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
