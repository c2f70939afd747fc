package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/d60-Lab/wordstack/internal/testutil"
)

func BenchmarkToggle(b *testing.B) {
	db := testutil.NewDB(b)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	poems := make([]string, 50)
	for i := range poems {
		poems[i] = testutil.Poem(b, db, fmt.Sprintf("bench-%02d", i)).ID
	}
	rnd := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		subject := poems[rnd.Intn(len(poems))]
		actor := fmt.Sprintf("u%04d", rnd.Intn(1000))
		if _, err := repo.Toggle(ctx, SubjectPoem, subject, actor); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLikedAmong(b *testing.B) {
	db := testutil.NewDB(b)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	// 一个用户点赞了一半的诗
	const n = 200
	ids := make([]string, n)
	for i := range ids {
		ids[i] = testutil.Poem(b, db, fmt.Sprintf("p-%03d", i)).ID
		if i%2 == 0 {
			if _, err := repo.Toggle(ctx, SubjectPoem, ids[i], "u0"); err != nil {
				b.Fatal(err)
			}
		}
	}

	b.ResetTimer()
	b.Run("LikedAmong50", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repo.LikedAmong(ctx, SubjectPoem, "u0", ids[:50])
		}
	})
	b.Run("Counter", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repo.Counter(ctx, SubjectPoem, ids[0])
		}
	})
}
