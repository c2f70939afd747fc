package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/pkg/logger"
)

// FanoutWorker 从 outbox 拉取现代诗发布事件，写入关注者的 inbox
type FanoutWorker struct {
	db           *gorm.DB
	followRepo   repository.FollowRepository
	batchSize    int
	claimLimit   int
	pollInterval time.Duration
	lease        time.Duration
	workers      int
	metricsCh    chan time.Duration // outbox -> done 的延迟
}

func NewFanoutWorker(db *gorm.DB, followRepo repository.FollowRepository, workers, batchSize, claimLimit int, pollInterval time.Duration) *FanoutWorker {
	if workers <= 0 {
		workers = 2
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	if claimLimit <= 0 {
		claimLimit = 64
	}
	if pollInterval <= 0 {
		pollInterval = 200 * time.Millisecond
	}
	return &FanoutWorker{
		db:           db,
		followRepo:   followRepo,
		workers:      workers,
		batchSize:    batchSize,
		claimLimit:   claimLimit,
		pollInterval: pollInterval,
		lease:        2 * time.Minute,
		metricsCh:    make(chan time.Duration, 4096),
	}
}

// WithLease 设置 processing 租期，超时未完成的事件会被重新认领
func (w *FanoutWorker) WithLease(d time.Duration) *FanoutWorker {
	if d > 0 {
		w.lease = d
	}
	return w
}

func (w *FanoutWorker) Metrics() <-chan time.Duration { return w.metricsCh }

// Start 启动 worker 轮询 outbox；返回的停止函数等待所有 worker 退出
func (w *FanoutWorker) Start() func(context.Context) error {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(stop)
		}()
	}
	return func(ctx context.Context) error {
		close(stop)
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *FanoutWorker) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := w.ProcessOnce(ctx); err != nil {
				logger.Warn("fanout pass failed", zap.Error(err))
			}
			cancel()
		}
	}
}

type claimedEvent struct {
	ID        string
	PoemID    string
	AuthorID  string
	CreatedAt time.Time
}

// ProcessOnce 认领一批事件并扇出，返回完成的事件数
func (w *FanoutWorker) ProcessOnce(ctx context.Context) (int, error) {
	batch, err := w.claim(ctx)
	if err != nil || len(batch) == 0 {
		return 0, err
	}

	done := 0
	for _, ev := range batch {
		written, err := w.deliver(ctx, ev)
		if err != nil {
			// 放回 pending，下一轮重试；inbox 唯一键保证重复投递幂等
			logger.Warn("fanout deliver failed", zap.String("poem", ev.PoemID), zap.Error(err))
			w.release(ctx, ev.ID)
			continue
		}
		now := time.Now()
		if err := w.db.WithContext(ctx).Model(&model.Outbox{}).
			Where("id = ? AND status = ?", ev.ID, model.OutboxProcessing).
			Updates(map[string]any{"status": model.OutboxDone, "processed_at": now, "fanout_count": written}).Error; err != nil {
			logger.Warn("mark outbox done failed", zap.String("poem", ev.PoemID), zap.Error(err))
			w.release(ctx, ev.ID)
			continue
		}
		done++
		if !ev.CreatedAt.IsZero() {
			select {
			case w.metricsCh <- now.Sub(ev.CreatedAt):
			default:
			}
		}
	}
	return done, nil
}

// release 失败时只记录日志，租期到期后仍会被重新认领
func (w *FanoutWorker) release(ctx context.Context, id string) {
	err := w.db.WithContext(ctx).Model(&model.Outbox{}).
		Where("id = ? AND status = ?", id, model.OutboxProcessing).
		Updates(map[string]any{"status": model.OutboxPending, "claimed_at": nil}).Error
	if err != nil {
		logger.Warn("release outbox failed", zap.String("event", id), zap.Error(err))
	}
}

// claim 认领 pending 事件以及租期已过的 processing 事件
// postgres 下用 FOR UPDATE SKIP LOCKED 让多个 worker 互不阻塞；sqlite 单连接天然串行
func (w *FanoutWorker) claim(ctx context.Context) ([]claimedEvent, error) {
	var batch []claimedEvent
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.Outbox{}).
			Select("id, poem_id, author_id, created_at").
			Where("status = ? OR (status = ? AND claimed_at < ?)", model.OutboxPending, model.OutboxProcessing, time.Now().Add(-w.lease)).
			Order("created_at").
			Limit(w.claimLimit)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		if err := q.Scan(&batch).Error; err != nil {
			return errors.Wrap(err, "claim outbox")
		}
		if len(batch) == 0 {
			return nil
		}
		ids := make([]string, len(batch))
		for i, b := range batch {
			ids[i] = b.ID
		}
		err := tx.Model(&model.Outbox{}).Where("id IN ?", ids).
			Updates(map[string]any{"status": model.OutboxProcessing, "claimed_at": time.Now()}).Error
		return errors.Wrap(err, "mark outbox processing")
	})
	return batch, err
}

func (w *FanoutWorker) deliver(ctx context.Context, ev claimedEvent) (int64, error) {
	var written int64
	score := ev.CreatedAt.UnixNano()
	for offset := 0; ; offset += w.batchSize {
		followers, err := w.followRepo.ListFollowers(ctx, ev.AuthorID, offset, w.batchSize)
		if err != nil {
			return written, err
		}
		if len(followers) == 0 {
			break
		}
		now := time.Now()
		records := make([]model.Inbox, len(followers))
		for i, f := range followers {
			records[i] = model.Inbox{ID: uuid.NewString(), UserID: f.FollowerID, PoemID: ev.PoemID, Score: score, CreatedAt: now}
		}
		if err := w.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&records).Error; err != nil {
			return written, errors.Wrap(err, "write inbox")
		}
		written += int64(len(records))
		if len(followers) < w.batchSize {
			break
		}
	}
	return written, nil
}
