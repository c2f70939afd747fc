package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/wordstack/pkg/logger"
)

const recentFeedIndex = "modern:recent:keys"

// Store 页面数据的 Redis 缓存；client 为 nil 时不缓存，redis 出错按未命中处理
type Store struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func New(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Enabled() bool { return s != nil && s.client != nil }

func PoemKey(slug string) string { return "poem:slug:" + slug }

func RecentFeedKey(page, size int) string { return fmt.Sprintf("modern:recent:%d:%d", page, size) }

// Poem 读取缓存的诗歌详情到 dst
func (s *Store) Poem(ctx context.Context, slug string, dst interface{}) bool {
	return s.getJSON(ctx, PoemKey(slug), dst)
}

func (s *Store) SetPoem(ctx context.Context, slug string, v interface{}) {
	s.setJSON(ctx, PoemKey(slug), v)
}

func (s *Store) InvalidatePoem(ctx context.Context, slugs ...string) {
	if !s.Enabled() || len(slugs) == 0 {
		return
	}
	keys := make([]string, len(slugs))
	for i, slug := range slugs {
		keys[i] = PoemKey(slug)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("cache invalidate poem failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *Store) RecentFeed(ctx context.Context, page, size int, dst interface{}) bool {
	return s.getJSON(ctx, RecentFeedKey(page, size), dst)
}

// SetRecentFeed 写入一页最新动态，并把 key 记入索引集合以便整体失效
func (s *Store) SetRecentFeed(ctx context.Context, page, size int, v interface{}) {
	if !s.Enabled() {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	key := RecentFeedKey(page, size)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, payload, s.ttl)
	pipe.SAdd(ctx, recentFeedIndex, key)
	pipe.Expire(ctx, recentFeedIndex, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("cache set feed failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateRecentFeed 清掉最新动态的全部缓存页
func (s *Store) InvalidateRecentFeed(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	keys, err := s.client.SMembers(ctx, recentFeedIndex).Result()
	if err != nil {
		logger.Warn("cache list feed keys failed", zap.Error(err))
		return
	}
	keys = append(keys, recentFeedIndex)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("cache invalidate feed failed", zap.Error(err))
	}
}

func (s *Store) getJSON(ctx context.Context, key string, dst interface{}) bool {
	if !s.Enabled() {
		return false
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		s.misses.Add(1)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.misses.Add(1)
		return false
	}
	s.hits.Add(1)
	return true
}

func (s *Store) setJSON(ctx context.Context, key string, v interface{}) {
	if !s.Enabled() {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// ResetCounters 清零命中统计
func (s *Store) ResetCounters() {
	s.hits.Store(0)
	s.misses.Store(0)
}

// Counters 上次清零以来的命中与未命中次数
func (s *Store) Counters() Counters {
	return Counters{Hits: s.hits.Load(), Misses: s.misses.Load()}
}

type Counters struct {
	Hits   int64
	Misses int64
}
