package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoStorageInterfaceCompliance(t *testing.T) {
	var _ Storage = (*MongoStorage)(nil)
}

// Malformed ids never reach the collection, so a zero MongoStorage is enough.
func TestMongoStorage_MalformedID(t *testing.T) {
	store := &MongoStorage{}

	for _, id := range []string{"", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz", "4f3b2a1c00000000000000001"} {
		t.Run(id, func(t *testing.T) {
			lookup, err := store.Get(context.Background(), id)
			require.NoError(t, err)
			assert.False(t, lookup.Found())

			assert.NoError(t, store.Delete(context.Background(), id))
		})
	}
}
