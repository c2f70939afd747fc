package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/pkg/logger"
)

type reconcileJob struct {
	kind      repository.SubjectKind
	subjectID string
	enqAt     time.Time
}

// CounterReconciler 本地异步计数校准：按关系表 COUNT(*) 重写冗余计数。
// 写入的值与点赞切换写入的值相同，只会修复导入数据或手工修改造成的偏差。
type CounterReconciler struct {
	likeRepo  repository.LikeRepository
	ch        chan reconcileJob
	sweepCh   chan struct{}
	metricsCh chan time.Duration
	interval  time.Duration
	sweepSize int
}

func NewCounterReconciler(likeRepo repository.LikeRepository, queueSize int, interval time.Duration) *CounterReconciler {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &CounterReconciler{
		likeRepo:  likeRepo,
		ch:        make(chan reconcileJob, queueSize),
		sweepCh:   make(chan struct{}, 1),
		metricsCh: make(chan time.Duration, 4096),
		interval:  interval,
		sweepSize: 500,
	}
}

// Start 启动 workers 个消费者和一个定时全量扫描；返回的停止函数会先排空队列
func (r *CounterReconciler) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-r.ch:
					r.handle(job)
				case <-stopCh:
					// 退出前处理完已入队的任务
					for {
						select {
						case job := <-r.ch:
							r.handle(job)
						default:
							return
						}
					}
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		r.sweepLoop(stopCh)
	}()

	return func(ctx context.Context) error {
		close(stopCh)
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

func (r *CounterReconciler) sweepLoop(stopCh <-chan struct{}) {
	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		select {
		case <-stopCh:
			return
		case <-tick:
		case <-r.sweepCh:
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		n, err := r.Sweep(ctx)
		cancel()
		if err != nil {
			logger.Warn("counter sweep failed", zap.Error(err))
			continue
		}
		if n > 0 {
			logger.Info("counter sweep repaired drift", zap.Int("subjects", n))
		}
	}
}

func (r *CounterReconciler) handle(job reconcileJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.likeRepo.Recount(ctx, job.kind, job.subjectID); err != nil {
		logger.Warn("recount failed", zap.String("kind", string(job.kind)), zap.String("subject", job.subjectID), zap.Error(err))
	}
	if !job.enqAt.IsZero() {
		select {
		case r.metricsCh <- time.Since(job.enqAt):
		default:
		}
	}
}

// Enqueue 提交单个主体的重算任务；队列满时丢弃，由下一次全量扫描兜底
func (r *CounterReconciler) Enqueue(kind repository.SubjectKind, subjectID string) bool {
	select {
	case r.ch <- reconcileJob{kind: kind, subjectID: subjectID, enqAt: time.Now()}:
		return true
	default:
		logger.Warn("reconciler queue full, drop", zap.String("kind", string(kind)), zap.String("subject", subjectID))
		return false
	}
}

// TriggerSweep 请求一次全量扫描；已有待执行的扫描时合并
func (r *CounterReconciler) TriggerSweep() {
	select {
	case r.sweepCh <- struct{}{}:
	default:
	}
}

// Sweep 同步扫描所有主体类型，重算有偏差的计数，返回修复的主体数
func (r *CounterReconciler) Sweep(ctx context.Context) (int, error) {
	repaired := 0
	for _, kind := range repository.Kinds() {
		for {
			ids, err := r.likeRepo.Drifted(ctx, kind, r.sweepSize)
			if err != nil {
				return repaired, err
			}
			for _, id := range ids {
				if _, err := r.likeRepo.Recount(ctx, kind, id); err != nil {
					return repaired, err
				}
				repaired++
			}
			if len(ids) < r.sweepSize {
				break
			}
		}
	}
	return repaired, nil
}

// Metrics 返回任务入队到完成的耗时
func (r *CounterReconciler) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 当前队列长度（采样值）
func (r *CounterReconciler) QueueLen() int { return len(r.ch) }
