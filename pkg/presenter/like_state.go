// Package presenter 描述点赞按钮的乐观更新：先翻转本地状态，服务端确认后以其结果为准，失败则回滚。
package presenter

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Phase 一次交互所处的阶段
type Phase int

const (
	Idle Phase = iota
	Pending
	Confirmed
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ErrBusy 上一次切换尚未返回
var ErrBusy = errors.New("toggle already in flight")

// Snapshot 展示给用户的点赞状态
type Snapshot struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// ToggleFunc 实际调用服务端切换
type ToggleFunc func(ctx context.Context) (Snapshot, error)

// LikeState 单个点赞按钮的状态，可并发使用
type LikeState struct {
	mu       sync.Mutex
	phase    Phase
	current  Snapshot
	previous Snapshot
	lastErr  error
}

func NewLikeState(initial Snapshot) *LikeState {
	if initial.Count < 0 {
		initial.Count = 0
	}
	return &LikeState{current: initial}
}

// Begin 乐观翻转：liked 取反，计数 ±1（不低于 0）
func (s *LikeState) Begin() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Pending {
		return s.current, ErrBusy
	}
	s.previous = s.current
	s.lastErr = nil
	next := Snapshot{Liked: !s.current.Liked, Count: s.current.Count}
	if next.Liked {
		next.Count++
	} else if next.Count > 0 {
		next.Count--
	}
	s.current = next
	s.phase = Pending
	return next, nil
}

// Confirm 采用服务端返回的权威状态
func (s *LikeState) Confirm(res Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = res
	s.phase = Confirmed
	return s.current
}

// Fail 回滚到交互前的状态
func (s *LikeState) Fail(err error) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Pending {
		s.current = s.previous
	}
	s.lastErr = err
	s.phase = Failed
	return s.current
}

// Toggle 完整执行一次 Begin -> fn -> Confirm/Fail
func (s *LikeState) Toggle(ctx context.Context, fn ToggleFunc) (Snapshot, error) {
	if _, err := s.Begin(); err != nil {
		return s.Current(), err
	}
	res, err := fn(ctx)
	if err != nil {
		return s.Fail(err), err
	}
	return s.Confirm(res), nil
}

func (s *LikeState) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *LikeState) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err 最近一次失败的原因
func (s *LikeState) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
