package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/internal/testutil"
)

func TestFollowService(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFollowService(repository.NewFollowRepository(db), repository.NewProfileRepository(db))
	ctx := context.Background()
	bob := testutil.Profile(t, db, "bob", false)

	assert.ErrorIs(t, svc.Follow(ctx, "", bob.ID), ErrUnauthenticated)
	assert.ErrorIs(t, svc.Follow(ctx, bob.ID, bob.ID), ErrFollowSelf)

	require.NoError(t, svc.Follow(ctx, "alice", bob.ID))
	ok, err := svc.IsFollowing(ctx, "alice", bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	following, err := svc.ListFollowing(ctx, "alice", 1, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)

	followers, err := svc.ListFollowers(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].ID)
	assert.Equal(t, "Anonymous", followers[0].Name())

	require.NoError(t, svc.Unfollow(ctx, "alice", bob.ID))
	ok, err = svc.IsFollowing(ctx, "alice", bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
