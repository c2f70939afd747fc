package presenter

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleConfirmsServerState(t *testing.T) {
	s := NewLikeState(Snapshot{Liked: false, Count: 4})

	res, err := s.Toggle(context.Background(), func(ctx context.Context) (Snapshot, error) {
		// 请求进行中，界面已经是乐观值
		assert.Equal(t, Snapshot{Liked: true, Count: 5}, s.Current())
		assert.Equal(t, Pending, s.Phase())
		// 服务端的计数可能包含其他人的点赞
		return Snapshot{Liked: true, Count: 7}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Liked: true, Count: 7}, res)
	assert.Equal(t, Confirmed, s.Phase())
}

func TestToggleRollsBackOnFailure(t *testing.T) {
	s := NewLikeState(Snapshot{Liked: true, Count: 1})
	boom := errors.New("store unavailable")

	res, err := s.Toggle(context.Background(), func(context.Context) (Snapshot, error) {
		assert.Equal(t, Snapshot{Liked: false, Count: 0}, s.Current())
		return Snapshot{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Snapshot{Liked: true, Count: 1}, res)
	assert.Equal(t, Failed, s.Phase())
	assert.ErrorIs(t, s.Err(), boom)

	// 失败后可以再次切换
	_, err = s.Begin()
	require.NoError(t, err)
	assert.Nil(t, s.Err())
}

func TestBeginWhilePending(t *testing.T) {
	s := NewLikeState(Snapshot{})
	first, err := s.Begin()
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Liked: true, Count: 1}, first)

	cur, err := s.Begin()
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, first, cur)

	_, err = s.Toggle(context.Background(), func(context.Context) (Snapshot, error) {
		t.Fatal("must not call server while pending")
		return Snapshot{}, nil
	})
	assert.ErrorIs(t, err, ErrBusy)
}

func TestUnlikeNeverGoesNegative(t *testing.T) {
	s := NewLikeState(Snapshot{Liked: true, Count: -3})
	next, err := s.Begin()
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Liked: false, Count: 0}, next)

	assert.Equal(t, Snapshot{Liked: true, Count: 0}, s.Fail(errors.New("x")))
	assert.Equal(t, "failed", s.Phase().String())
	assert.Equal(t, "unknown", Phase(9).String())
}
