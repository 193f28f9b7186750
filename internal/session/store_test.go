package session_test

import (
	"context"
	"testing"

	"market/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	key, err := store.Issue(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, key)

	// The issued key is a 128-bit token
	_, err = uuid.Parse(key)
	assert.NoError(t, err)

	ok, err := store.Exists(ctx, key)
	assert.NoError(t, err)
	assert.True(t, ok)

	// Keys we never issued are not sessions
	ok, err = store.Exists(ctx, "forged-key")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Refresh(ctx, key))

	// Issued keys are unique
	other, err := store.Issue(ctx)
	assert.NoError(t, err)
	assert.NotEqual(t, key, other)
}
