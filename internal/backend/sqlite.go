package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jotter/jotter/pkg/models"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash BLOB NOT NULL,
	created_at    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	content    TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS notes_user_updated ON notes(user_id, updated_at DESC);
`

// SQLiteStore keeps users and notes in a SQLite file. Timestamps are stored
// as unix nanoseconds.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt.UnixNano())
	if err != nil && isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email))
}

func (s *SQLiteStore) UserByID(ctx context.Context, id string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (User, error) {
	var (
		u       User
		created int64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.CreatedAt = fromUnixNano(created)
	return u, nil
}

func (s *SQLiteStore) ListNotes(ctx context.Context, owner string, order []models.Order) ([]Note, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	q := `SELECT id, user_id, title, content, created_at, updated_at FROM notes WHERE user_id = ?`
	if len(order) > 0 {
		terms := make([]string, 0, len(order))
		for _, o := range order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			terms = append(terms, noteColumns[o.Field]+" "+dir)
		}
		q += " ORDER BY " + strings.Join(terms, ", ") + ", rowid ASC"
	} else {
		q += " ORDER BY rowid ASC"
	}

	rows, err := s.db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *SQLiteStore) GetNote(ctx context.Context, owner, id string) (Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at FROM notes WHERE id = ? AND user_id = ?`,
		id, owner)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	return n, err
}

func (s *SQLiteStore) InsertNote(ctx context.Context, n Note) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Content, n.CreatedAt.UnixNano(), n.UpdatedAt.UnixNano())
	if err != nil && isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (s *SQLiteStore) UpdateNote(ctx context.Context, n Note) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		n.Title, n.Content, n.UpdatedAt.UnixNano(), n.ID, n.UserID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *SQLiteStore) DeleteNote(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, owner)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(sc scanner) (Note, error) {
	var (
		n                Note
		content          sql.NullString
		created, updated int64
	)
	if err := sc.Scan(&n.ID, &n.UserID, &n.Title, &content, &created, &updated); err != nil {
		return Note{}, err
	}
	if content.Valid {
		n.Content = &content.String
	}
	n.CreatedAt = fromUnixNano(created)
	n.UpdatedAt = fromUnixNano(updated)
	return n, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func fromUnixNano(ns int64) models.CustomDateTime {
	return models.CustomDateTime{Time: time.Unix(0, ns).UTC()}
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed: UNIQUE")
}
