// feedbench 发布现代诗并测量扇出到关注者 inbox 的落地延迟
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/wordstack/config"
	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/internal/service"
	"github.com/d60-Lab/wordstack/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range vs {
		sum += d
	}
	return sum / time.Duration(len(vs))
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := model.AutoMigrate(db); err != nil {
		panic(err)
	}

	n := envInt("N", 5000)          // 关注者数量
	posts := envInt("POSTS", 50)    // 发布篇数
	workers := envInt("WORKERS", 4) // 扇出 worker
	batch := envInt("BATCH", 1000)  // inbox 批量写入
	claim := envInt("CLAIM", 64)    // 每轮认领

	ctx := context.Background()
	followRepo := repository.NewFollowRepository(db)
	modernRepo := repository.NewModernPoemRepository(db)
	publisher := service.NewPublisher(db)

	author := uuid.NewString()
	followers := make([]string, n)
	for i := range followers {
		followers[i] = uuid.NewString()
		if err := followRepo.Create(ctx, followers[i], author); err != nil {
			panic(err)
		}
	}

	worker := service.NewFanoutWorker(db, followRepo, workers, batch, claim, 20*time.Millisecond)
	stop := worker.Start()
	defer stop(context.Background())

	pub := make([]time.Duration, 0, posts)
	for i := 0; i < posts; i++ {
		st := time.Now()
		if _, err := publisher.Publish(ctx, author, fmt.Sprintf("bench %d", i), "line one\nline two"); err != nil {
			panic(err)
		}
		pub = append(pub, time.Since(st))
	}

	land := make([]time.Duration, 0, posts)
	timeout := time.After(2 * time.Minute)
wait:
	for len(land) < posts {
		select {
		case d := <-worker.Metrics():
			land = append(land, d)
		case <-timeout:
			fmt.Printf("timeout while waiting for fanout: got=%d want=%d\n", len(land), posts)
			break wait
		}
	}

	fmt.Printf("driver=%s N=%d POSTS=%d WORKERS=%d BATCH=%d CLAIM=%d\n", db.Dialector.Name(), n, posts, workers, batch, claim)
	fmt.Printf("publish tx latency: avg=%v p95=%v p99=%v\n", avg(pub), pct(pub, 0.95), pct(pub, 0.99))
	fmt.Printf("fanout landing (outbox->done): samples=%d avg=%v p95=%v p99=%v\n", len(land), avg(land), pct(land, 0.95), pct(land, 0.99))

	if n > 0 {
		st := time.Now()
		feed := must(modernRepo.ListFollowing(ctx, followers[0], 0, 50))
		fmt.Printf("following feed read (limit=50): %v, rows=%d\n", time.Since(st), len(feed))
	}
}
