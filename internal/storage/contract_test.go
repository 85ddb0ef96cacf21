package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwmail/lpaste/internal/models"
)

// runStoreContract exercises the behaviour every Storage implementation must
// share. malformedID must be syntactically invalid for the backend.
func runStoreContract(t *testing.T, store Storage, malformedID string) {
	t.Helper()
	ctx := context.Background()

	createdAt := time.Date(2012, time.March, 5, 13, 14, 15, 0, time.UTC)
	input := &models.Paste{
		Content:   "print(1)\n<b>&</b>",
		Language:  "Python",
		Poster:    "a",
		Title:     "t",
		CreatedAt: createdAt,
	}

	t.Run("create then get", func(t *testing.T) {
		id, err := store.Create(ctx, input)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		lookup, err := store.Get(ctx, id)
		require.NoError(t, err)
		require.True(t, lookup.Found())

		got := lookup.Paste
		assert.Equal(t, id, got.ID)
		assert.Equal(t, input.Content, got.Content)
		assert.Equal(t, input.Language, got.Language)
		assert.Equal(t, input.Poster, got.Poster)
		assert.Equal(t, input.Title, got.Title)
		assert.WithinDuration(t, createdAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("ids are unique", func(t *testing.T) {
		id1, err := store.Create(ctx, input)
		require.NoError(t, err)
		id2, err := store.Create(ctx, input)
		require.NoError(t, err)
		assert.NotEqual(t, id1, id2)
	})

	t.Run("create ignores caller id", func(t *testing.T) {
		withID := *input
		withID.ID = "chosen-by-caller"
		id, err := store.Create(ctx, &withID)
		require.NoError(t, err)
		assert.NotEqual(t, "chosen-by-caller", id)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		lookup, err := store.Get(ctx, malformedID)
		require.NoError(t, err)
		assert.False(t, lookup.Found())
	})

	t.Run("delete removes paste", func(t *testing.T) {
		id, err := store.Create(ctx, input)
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, id))

		lookup, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.False(t, lookup.Found())
	})

	t.Run("delete missing is not an error", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, malformedID))
	})
}
