package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/internal/testutil"
)

func TestLikeToggleScenario(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewLikeService(repository.NewLikeRepository(db), nil)
	ctx := context.Background()
	poem := testutil.Poem(t, db, "sonnet-18")

	steps := []struct {
		actor string
		want  LikeStatus
	}{
		{"alice", LikeStatus{Liked: true, Count: 1}},
		{"alice", LikeStatus{Liked: false, Count: 0}},
		{"bob", LikeStatus{Liked: true, Count: 1}},
	}
	for _, st := range steps {
		got, err := svc.Toggle(ctx, repository.SubjectPoem, poem.ID, st.actor)
		require.NoError(t, err)
		assert.Equal(t, st.want, got, "actor %s", st.actor)
	}

	status, err := svc.Status(ctx, repository.SubjectPoem, poem.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, LikeStatus{Liked: true, Count: 1}, status)

	status, err = svc.Status(ctx, repository.SubjectPoem, poem.ID, "")
	require.NoError(t, err)
	assert.Equal(t, LikeStatus{Count: 1}, status)
}

func TestLikeToggleUnauthenticatedTouchesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	likes := &countingLikes{LikeRepository: repository.NewLikeRepository(db)}
	svc := NewLikeService(likes, nil)
	poem := testutil.Poem(t, db, "untouched")

	_, err := svc.Toggle(context.Background(), repository.SubjectPoem, poem.ID, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, likes.toggles)

	var n int64
	require.NoError(t, db.Model(&model.PoemLike{}).Count(&n).Error)
	assert.Zero(t, n)
	var stored model.Poem
	require.NoError(t, db.First(&stored, "id = ?", poem.ID).Error)
	assert.Zero(t, stored.LikeCount)
}

func TestLikeToggleErrors(t *testing.T) {
	db := testutil.NewDB(t)
	likes := &countingLikes{LikeRepository: repository.NewLikeRepository(db)}
	svc := NewLikeService(likes, nil)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, repository.SubjectPoem, "", "alice")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "subjectId")

	_, err = svc.Toggle(ctx, repository.SubjectPoem, "missing", "alice")
	assert.ErrorIs(t, err, ErrSubjectNotFound)

	likes.err = errors.New("connection refused")
	_, err = svc.Toggle(ctx, repository.SubjectPoem, "any", "alice")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, "connection refused", errors.Cause(err).Error())
}

func TestLikeToggleInvalidatesRecentFeed(t *testing.T) {
	db := testutil.NewDB(t)
	store, mr := newCache(t)
	svc := NewLikeService(repository.NewLikeRepository(db), store)
	ctx := context.Background()
	author := testutil.Profile(t, db, "writer", false)
	poem := testutil.ModernPoem(t, db, author.ID)

	store.SetRecentFeed(ctx, 1, 50, []string{"stale"})
	require.True(t, mr.Exists("modern:recent:1:50"))

	got, err := svc.Toggle(ctx, repository.SubjectModernPoem, poem.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, LikeStatus{Liked: true, Count: 1}, got)
	assert.False(t, mr.Exists("modern:recent:1:50"))
}

func TestLikedPoemIDs(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewLikeService(repository.NewLikeRepository(db), nil)
	ctx := context.Background()
	poem := testutil.Poem(t, db, "liked")
	_, err := svc.Toggle(ctx, repository.SubjectPoem, poem.ID, "alice")
	require.NoError(t, err)

	ids, err := svc.LikedPoemIDs(ctx, "alice", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{poem.ID}, ids)

	_, err = svc.LikedPoemIDs(ctx, "", 1, 20)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
