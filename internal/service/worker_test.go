package service

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/gorm"

	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/internal/testutil"
)

var ignoreDBOpener = goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener")

func TestReconcilerRepairsDrift(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreDBOpener)

	db := testutil.NewDB(t)
	likes := repository.NewLikeRepository(db)
	ctx := context.Background()
	poem := testutil.Poem(t, db, "drift")
	author := testutil.Profile(t, db, "writer", false)
	modern := testutil.ModernPoem(t, db, author.ID)

	_, err := likes.Toggle(ctx, repository.SubjectPoem, poem.ID, "alice")
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.Poem{}).Where("id = ?", poem.ID).Update("like_count", 7).Error)
	require.NoError(t, db.Model(&model.ModernPoem{}).Where("id = ?", modern.ID).Update("likes_count", 3).Error)

	r := NewCounterReconciler(likes, 8, 0)
	n, err := r.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	counter, err := likes.Counter(ctx, repository.SubjectPoem, poem.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counter)
	counter, err = likes.Counter(ctx, repository.SubjectModernPoem, modern.ID)
	require.NoError(t, err)
	assert.Zero(t, counter)

	// 队列任务在停止时会被排空
	require.NoError(t, db.Model(&model.Poem{}).Where("id = ?", poem.ID).Update("like_count", 9).Error)
	stop := r.Start(1)
	assert.True(t, r.Enqueue(repository.SubjectPoem, poem.ID))
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, stop(stopCtx))

	counter, err = likes.Counter(ctx, repository.SubjectPoem, poem.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counter)
	assert.Zero(t, r.QueueLen())
}

func TestReconcilerQueueFull(t *testing.T) {
	r := NewCounterReconciler(nil, 1, 0)
	assert.True(t, r.Enqueue(repository.SubjectPoem, "a"))
	assert.False(t, r.Enqueue(repository.SubjectPoem, "b"))

	r.TriggerSweep()
	r.TriggerSweep()
	assert.Len(t, r.sweepCh, 1)
}

func TestFanoutWorkerDeliversToFollowers(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreDBOpener)

	db := testutil.NewDB(t)
	follows := repository.NewFollowRepository(db)
	ctx := context.Background()
	for _, f := range []string{"f1", "f2", "f3"} {
		require.NoError(t, follows.Create(ctx, f, "writer"))
	}

	poem, err := NewPublisher(db).Publish(ctx, "writer", "Dusk", "shadows")
	require.NoError(t, err)

	w := NewFanoutWorker(db, follows, 2, 2, 10, 10*time.Millisecond)
	stop := w.Start()
	require.Eventually(t, func() bool {
		var ev model.Outbox
		return db.First(&ev, "poem_id = ?", poem.ID).Error == nil && ev.Status == model.OutboxDone
	}, 5*time.Second, 20*time.Millisecond)
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, stop(stopCtx))

	var ev model.Outbox
	require.NoError(t, db.First(&ev, "poem_id = ?", poem.ID).Error)
	assert.EqualValues(t, 3, ev.FanoutCount)
	assert.NotNil(t, ev.ProcessedAt)

	var inbox []model.Inbox
	require.NoError(t, db.Where("poem_id = ?", poem.ID).Find(&inbox).Error)
	assert.Len(t, inbox, 3)

	select {
	case d := <-w.Metrics():
		assert.GreaterOrEqual(t, d, time.Duration(0))
	default:
		t.Fatal("expected a latency sample")
	}

	// 再跑一轮不会重复投递
	n, err := w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFanoutRetriesWhenMarkDoneFails(t *testing.T) {
	db := testutil.NewDB(t)
	follows := repository.NewFollowRepository(db)
	ctx := context.Background()
	for _, f := range []string{"f1", "f2"} {
		require.NoError(t, follows.Create(ctx, f, "writer"))
	}
	pub := NewPublisher(db)
	for _, title := range []string{"Dawn", "Noon"} {
		_, err := pub.Publish(ctx, "writer", title, "light")
		require.NoError(t, err)
	}

	// 第一次写 done 失败
	failed := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_done", func(tx *gorm.DB) {
		if failed || tx.Statement.Table != "outbox" {
			return
		}
		if m, ok := tx.Statement.Dest.(map[string]any); ok && m["status"] == model.OutboxDone {
			failed = true
			_ = tx.AddError(errors.New("connection reset"))
		}
	}))

	w := NewFanoutWorker(db, follows, 1, 10, 10, time.Millisecond)
	n, err := w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, failed)

	var pending int64
	require.NoError(t, db.Model(&model.Outbox{}).Where("status = ?", model.OutboxPending).Count(&pending).Error)
	assert.EqualValues(t, 1, pending)

	n, err = w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var events []model.Outbox
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, model.OutboxDone, ev.Status)
		assert.EqualValues(t, 2, ev.FanoutCount)
	}
	var inbox int64
	require.NoError(t, db.Model(&model.Inbox{}).Count(&inbox).Error)
	assert.EqualValues(t, 4, inbox)
}

func TestFanoutReclaimsExpiredLease(t *testing.T) {
	db := testutil.NewDB(t)
	follows := repository.NewFollowRepository(db)
	ctx := context.Background()
	require.NoError(t, follows.Create(ctx, "f1", "writer"))
	pub := NewPublisher(db)
	stale, err := pub.Publish(ctx, "writer", "Stale", "dust")
	require.NoError(t, err)
	fresh, err := pub.Publish(ctx, "writer", "Fresh", "dew")
	require.NoError(t, err)

	// 模拟 worker 认领后退出：一条租期已过，一条仍在租期内
	old := time.Now().Add(-time.Hour)
	now := time.Now()
	require.NoError(t, db.Model(&model.Outbox{}).Where("poem_id = ?", stale.ID).
		Updates(map[string]any{"status": model.OutboxProcessing, "claimed_at": old}).Error)
	require.NoError(t, db.Model(&model.Outbox{}).Where("poem_id = ?", fresh.ID).
		Updates(map[string]any{"status": model.OutboxProcessing, "claimed_at": now}).Error)

	w := NewFanoutWorker(db, follows, 1, 10, 10, time.Millisecond).WithLease(time.Minute)
	n, err := w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var ev model.Outbox
	require.NoError(t, db.First(&ev, "poem_id = ?", stale.ID).Error)
	assert.Equal(t, model.OutboxDone, ev.Status)
	require.NoError(t, db.First(&ev, "poem_id = ?", fresh.ID).Error)
	assert.Equal(t, model.OutboxProcessing, ev.Status)
}
