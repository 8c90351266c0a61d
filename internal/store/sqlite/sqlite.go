package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/heetpatel0310/Chat-Clone-App/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	message  TEXT NOT NULL
);
`

// Store implements store.MessageStore for SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and bootstraps the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; this also serializes writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append durably records a message and returns its assigned id.
func (s *Store) Append(ctx context.Context, username, text string) (int64, error) {
	query := `INSERT INTO messages (username, message) VALUES (?, ?)`
	result, err := s.db.ExecContext(ctx, query, username, text)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}

	return id, nil
}

// ListAll returns every stored message in ascending id order.
func (s *Store) ListAll(ctx context.Context) ([]store.Message, error) {
	return s.ListSince(ctx, 0)
}

// ListSince returns messages with id > lastID in ascending id order.
func (s *Store) ListSince(ctx context.Context, lastID int64) ([]store.Message, error) {
	query := `
		SELECT id, username, message
		FROM messages
		WHERE id > ?
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, lastID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]store.Message, 0)
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.ID, &msg.Username, &msg.Text); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// DeleteIfOwnedBy deletes the message only if its author equals requester
// exactly. A missing id and a wrong owner both report false.
func (s *Store) DeleteIfOwnedBy(ctx context.Context, id int64, requester string) (bool, error) {
	var author string
	err := s.db.QueryRowContext(ctx, `SELECT username FROM messages WHERE id = ?`, id).Scan(&author)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query message author: %w", err)
	}

	if author != requester {
		return false, nil
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}

	return true, nil
}
