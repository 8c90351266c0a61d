package store

import "context"

// Message is a persisted chat message. The JSON tags match the wire shape
// returned to bridge clients for GET_MESSAGES.
type Message struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Text     string `json:"message"`
}

// MessageStore handles message persistence. Implementations must be safe for
// concurrent use from multiple sessions; writes are serialized and reads see
// a consistent snapshot at call time.
type MessageStore interface {
	// Append durably records a message and returns its assigned id.
	// Ids start at 1 and are strictly increasing.
	Append(ctx context.Context, username, text string) (int64, error)

	// ListAll returns every stored message in ascending id order.
	ListAll(ctx context.Context) ([]Message, error)

	// ListSince returns messages with id > lastID in ascending id order.
	// ListSince(0) is equivalent to ListAll.
	ListSince(ctx context.Context, lastID int64) ([]Message, error)

	// DeleteIfOwnedBy deletes the message only if its author equals requester
	// exactly. A missing id reports false, same as a wrong owner.
	DeleteIfOwnedBy(ctx context.Context, id int64, requester string) (bool, error)

	// Close closes the underlying database connection.
	Close() error
}
