package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/wordstack/internal/cache"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/internal/testutil"
)

type modernFixture struct {
	db     *gorm.DB
	svc    ModernPoemService
	likes  LikeService
	follow FollowService
	fanout *FanoutWorker
}

func newModernFixture(t *testing.T, store *cache.Store) *modernFixture {
	db := testutil.NewDB(t)
	likeRepo := repository.NewLikeRepository(db)
	profiles := repository.NewProfileRepository(db)
	follows := repository.NewFollowRepository(db)
	return &modernFixture{
		db:     db,
		svc:    NewModernPoemService(repository.NewModernPoemRepository(db), likeRepo, profiles, NewPublisher(db), store),
		likes:  NewLikeService(likeRepo, store),
		follow: NewFollowService(follows, profiles),
		fanout: NewFanoutWorker(db, follows, 1, 10, 10, 0),
	}
}

func TestModernSubmitAndRecentFeed(t *testing.T) {
	store, _ := newCache(t)
	f := newModernFixture(t, store)
	ctx := context.Background()
	author := testutil.Profile(t, f.db, "writer", false)

	_, err := f.svc.Submit(ctx, "", SubmitModernPoemRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.Submit(ctx, author.ID, SubmitModernPoemRequest{Title: "   ", Content: "c"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")

	view, err := f.svc.Submit(ctx, author.ID, SubmitModernPoemRequest{Title: " Rain ", Content: "falls"})
	require.NoError(t, err)
	assert.Equal(t, "Rain", view.Title)
	assert.Equal(t, "writer", view.AuthorName)

	feed, err := f.svc.Feed(ctx, FeedRecent, "", 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.False(t, feed[0].Liked)

	// 点赞会清掉缓存的页面，liked 按当前用户计算
	_, err = f.likes.Toggle(ctx, repository.SubjectModernPoem, view.ID, "reader")
	require.NoError(t, err)

	store.ResetCounters()
	feed, err = f.svc.Feed(ctx, FeedRecent, "reader", 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.True(t, feed[0].Liked)
	assert.EqualValues(t, 1, feed[0].LikesCount)

	feed, err = f.svc.Feed(ctx, FeedRecent, "", 1, 20)
	require.NoError(t, err)
	assert.False(t, feed[0].Liked)
	assert.EqualValues(t, 1, store.Counters().Hits)

	_, err = f.svc.Feed(ctx, "popular", "", 1, 20)
	require.ErrorAs(t, err, &verr)
	_, err = f.svc.Feed(ctx, FeedFollowing, "", 1, 20)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestModernFollowingFeed(t *testing.T) {
	f := newModernFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.follow.Follow(ctx, "reader", "writer"))
	view, err := f.svc.Submit(ctx, "writer", SubmitModernPoemRequest{Title: "Dawn", Content: "light"})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "stranger", SubmitModernPoemRequest{Title: "Noise", Content: "static"})
	require.NoError(t, err)

	n, err := f.fanout.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	feed, err := f.svc.Feed(ctx, FeedFollowing, "reader", 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, view.ID, feed[0].ID)
	assert.Equal(t, "Anonymous", feed[0].AuthorName)
}

func TestModernDeletePermissions(t *testing.T) {
	f := newModernFixture(t, nil)
	ctx := context.Background()
	author := testutil.Profile(t, f.db, "author", false)
	other := testutil.Profile(t, f.db, "other", false)
	admin := testutil.Profile(t, f.db, "admin", true)

	first, err := f.svc.Submit(ctx, author.ID, SubmitModernPoemRequest{Title: "one", Content: "x"})
	require.NoError(t, err)
	second, err := f.svc.Submit(ctx, author.ID, SubmitModernPoemRequest{Title: "two", Content: "y"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, first.ID, ""), ErrUnauthenticated)
	assert.ErrorIs(t, f.svc.Delete(ctx, first.ID, other.ID), ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, first.ID, author.ID))
	require.NoError(t, f.svc.Delete(ctx, second.ID, admin.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, second.ID, admin.ID), ErrNotFound)

	_, err = f.svc.Get(ctx, first.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)
}
