// likebench 并发点赞切换压测，结束后校验每个主体的计数等于关系行数
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
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

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	check(model.AutoMigrate(db))

	ops := envInt("OPS", 20000)
	conc := envInt("CONC", 16)
	actors := envInt("ACTORS", 200)
	subjects := envInt("SUBJECTS", 20)

	likeRepo := repository.NewLikeRepository(db)
	likes := service.NewLikeService(likeRepo, nil)
	reconciler := service.NewCounterReconciler(likeRepo, 1000, 0)
	ctx := context.Background()

	// 主体：一半经典诗歌，一半现代诗
	type subject struct {
		kind repository.SubjectKind
		id   string
	}
	subs := make([]subject, subjects)
	now := time.Now()
	for i := range subs {
		id := uuid.NewString()
		if i%2 == 0 {
			p := model.Poem{ID: id, Title: "bench " + id[:8], Slug: "bench-" + id, Text: "-", IsPublished: true, CreatedAt: now, UpdatedAt: now}
			check(db.Omit("Poet", "Themes").Create(&p).Error)
			subs[i] = subject{repository.SubjectPoem, id}
		} else {
			p := model.ModernPoem{ID: id, UserID: uuid.NewString(), Title: "bench", Content: "-", CreatedAt: now, UpdatedAt: now}
			check(db.Create(&p).Error)
			subs[i] = subject{repository.SubjectModernPoem, id}
		}
	}
	actorIDs := make([]string, actors)
	for i := range actorIDs {
		actorIDs[i] = uuid.NewString()
	}

	feed := make(chan int, ops)
	for i := 0; i < ops; i++ {
		feed <- i
	}
	close(feed)

	var (
		mu      sync.Mutex
		lat     = make([]time.Duration, 0, ops)
		failed  atomic.Int64
		wg      sync.WaitGroup
		started = time.Now()
	)
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			local := make([]time.Duration, 0, ops/conc+1)
			for range feed {
				s := subs[rnd.Intn(len(subs))]
				actor := actorIDs[rnd.Intn(len(actorIDs))]
				st := time.Now()
				if _, err := likes.Toggle(ctx, s.kind, s.id, actor); err != nil {
					failed.Add(1)
					continue
				}
				local = append(local, time.Since(st))
			}
			mu.Lock()
			lat = append(lat, local...)
			mu.Unlock()
		}(int64(w) + 1)
	}
	wg.Wait()
	total := time.Since(started)

	// 校验：冗余计数 == COUNT(*)
	drift := 0
	for _, s := range subs {
		counter := must(likeRepo.Counter(ctx, s.kind, s.id))
		count := must(likeRepo.Count(ctx, s.kind, s.id))
		if counter != count {
			drift++
			fmt.Printf("DRIFT %s %s counter=%d count=%d\n", s.kind, s.id, counter, count)
		}
	}
	repaired := must(reconciler.Sweep(ctx))

	pct := func(vs []time.Duration, p float64) time.Duration {
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

	fmt.Printf("driver=%s OPS=%d CONC=%d ACTORS=%d SUBJECTS=%d\n", db.Dialector.Name(), ops, conc, actors, subjects)
	fmt.Printf("toggle total: %v, throughput: %.0f/s, failed: %d\n", total, float64(len(lat))/total.Seconds(), failed.Load())
	fmt.Printf("toggle latency p50: %v, p95: %v, p99: %v\n", pct(lat, 0.50), pct(lat, 0.95), pct(lat, 0.99))
	fmt.Printf("subjects with drift: %d, repaired by sweep: %d\n", drift, repaired)
	if drift > 0 {
		os.Exit(1)
	}
}
