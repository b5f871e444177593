package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "doc:1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "doc:1", "a"))
	require.NoError(t, s.Set(ctx, "doc:2", "b"))
	require.NoError(t, s.Set(ctx, "notes:1", "c"))

	val, err := s.Get(ctx, "doc:1")
	require.NoError(t, err)
	assert.Equal(t, "a", val)

	keys, err := s.List(ctx, "doc:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc:1", "doc:2"}, keys)

	require.NoError(t, s.Delete(ctx, "doc:1"))
	_, err = s.Get(ctx, "doc:1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error.
	require.NoError(t, s.Delete(ctx, "doc:1"))
	assert.Equal(t, 2, s.Len())
}
