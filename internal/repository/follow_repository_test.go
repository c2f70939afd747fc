package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/wordstack/internal/testutil"
)

func TestFollowIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "alice", "bob"))
	require.NoError(t, repo.Create(ctx, "alice", "bob"))
	require.NoError(t, repo.Create(ctx, "carol", "bob"))

	ok, err := repo.Exists(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	followers, err := repo.ListFollowers(ctx, "bob", 0, 10)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := repo.ListFollowings(ctx, "alice", 0, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].FolloweeID)

	require.NoError(t, repo.Delete(ctx, "alice", "bob"))
	ok, err = repo.Exists(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}
