// Package session persists the bearer token the editor authenticates with.
// The token is written by `repsedit login` and read once when an editing
// session starts; the editor itself never writes it.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNoToken is returned when no token is stored for a server.
var ErrNoToken = errors.New("session: no token stored for server; run `repsedit login`")

// Store is a SQLite-backed token store keyed by server URL.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database at dir/session.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "session.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tokens (
		server_url TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		saved_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tokens table: %w", err)
	}

	return &Store{db: db}, nil
}

func normalize(serverURL string) string {
	return strings.TrimRight(serverURL, "/")
}

// SaveToken stores token for serverURL, replacing any previous one.
func (s *Store) SaveToken(ctx context.Context, serverURL, token string) error {
	if token == "" {
		return fmt.Errorf("session: empty token")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO tokens (server_url, token, saved_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		normalize(serverURL), token,
	)
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Token returns the token stored for serverURL.
func (s *Store) Token(ctx context.Context, serverURL string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx,
		`SELECT token FROM tokens WHERE server_url = ?`, normalize(serverURL),
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return token, nil
}

// DeleteToken forgets the token for serverURL. Deleting a missing token is not an error.
func (s *Store) DeleteToken(ctx context.Context, serverURL string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE server_url = ?`, normalize(serverURL)); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}

// Close closes the session database.
func (s *Store) Close() error {
	return s.db.Close()
}
