package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateLookupDestroy(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	token := store.Create("alice")
	req.NotEmpty(token)

	username, ok := store.Lookup(token)
	req.True(ok)
	req.Equal("alice", username)

	store.Destroy(token)
	_, ok = store.Lookup(token)
	req.False(ok)

	// Destroying an unknown token is a no-op.
	store.Destroy(token)
}

func TestTokensAreUniquePerSession(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	first := store.Create("alice")
	second := store.Create("alice")
	req.NotEqual(first, second)

	// Both sessions resolve independently.
	store.Destroy(first)
	username, ok := store.Lookup(second)
	req.True(ok)
	req.Equal("alice", username)
}
