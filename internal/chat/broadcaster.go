package chat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/heetpatel0310/Chat-Clone-App/internal/store"
)

// Broadcaster persists a published message and fans it out to every
// registered participant except the sender's identity.
type Broadcaster struct {
	store    store.MessageStore
	registry *Registry
	log      *zerolog.Logger
}

// NewBroadcaster wires a broadcaster to its store and registry.
func NewBroadcaster(st store.MessageStore, registry *Registry, logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{store: st, registry: registry, log: logger}
}

// Publish appends the message to the store, then delivers it to every
// participant not registered under author. Exclusion is by username, so two
// participants sharing an identity never see each other's messages; this
// mirrors the original wire behavior and is kept for compatibility.
// Delivery is best-effort: a failed send evicts that participant and closes
// its connection, and never rolls back the append.
func (b *Broadcaster) Publish(ctx context.Context, author, text string) error {
	id, err := b.store.Append(ctx, author, text)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	b.log.Debug().Int64("id", id).Str("author", author).Msg("message stored")

	line := fmt.Sprintf("%s: %s\n", author, text)
	for _, p := range b.registry.SnapshotExcluding(author) {
		if err := p.Send(line); err != nil {
			b.log.Warn().Err(err).Str("recipient", p.Username).Msg("send failed, evicting participant")
			b.registry.Remove(p)
			_ = p.Close()
		}
	}

	return nil
}
