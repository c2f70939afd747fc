package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/wordstack/internal/cache"
	"github.com/d60-Lab/wordstack/internal/repository"
)

// countingLikes 记录对存储的调用次数，可注入错误
type countingLikes struct {
	repository.LikeRepository
	toggles int
	err     error
}

func (c *countingLikes) Toggle(ctx context.Context, kind repository.SubjectKind, subjectID, actorID string) (repository.ToggleResult, error) {
	c.toggles++
	if c.err != nil {
		return repository.ToggleResult{}, c.err
	}
	return c.LikeRepository.Toggle(ctx, kind, subjectID, actorID)
}

func newCache(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client, time.Minute), mr
}
