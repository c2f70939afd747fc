package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/d60-Lab/wordstack/internal/cache"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/pkg/logger"
)

// LikeStatus 当前用户对某内容的点赞状态与计数
type LikeStatus struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// LikeService 点赞切换服务
type LikeService interface {
	Toggle(ctx context.Context, kind repository.SubjectKind, subjectID, actorID string) (LikeStatus, error)
	Status(ctx context.Context, kind repository.SubjectKind, subjectID, actorID string) (LikeStatus, error)
	LikedPoemIDs(ctx context.Context, actorID string, pageNum, pageSize int) ([]string, error)
}

type likeService struct {
	likeRepo repository.LikeRepository
	cache    *cache.Store
}

func NewLikeService(likeRepo repository.LikeRepository, store *cache.Store) LikeService {
	return &likeService{likeRepo: likeRepo, cache: store}
}

// Toggle 翻转 actor 对 subject 的点赞；未登录直接拒绝且不触碰存储
func (s *likeService) Toggle(ctx context.Context, kind repository.SubjectKind, subjectID, actorID string) (LikeStatus, error) {
	if actorID == "" {
		return LikeStatus{}, ErrUnauthenticated
	}
	if subjectID == "" {
		return LikeStatus{}, invalid("subjectId", "is required")
	}

	start := time.Now()
	res, err := s.likeRepo.Toggle(ctx, kind, subjectID, actorID)
	if err != nil {
		err = storeFailure("toggle like", err)
		if errors.Is(err, ErrStoreUnavailable) {
			logger.Error("toggle like failed",
				zap.String("kind", string(kind)),
				zap.String("subject", subjectID),
				zap.String("actor", actorID),
				zap.Error(err))
		}
		return LikeStatus{}, err
	}

	if kind == repository.SubjectModernPoem {
		s.cache.InvalidateRecentFeed(ctx)
	}
	logger.Debug("like toggled",
		zap.String("kind", string(kind)),
		zap.String("subject", subjectID),
		zap.Bool("liked", res.Liked),
		zap.Int64("count", res.Count),
		zap.Duration("took", time.Since(start)))
	return LikeStatus{Liked: res.Liked, Count: res.Count}, nil
}

// Status 读取冗余计数；actor 为空时 Liked 恒为 false
func (s *likeService) Status(ctx context.Context, kind repository.SubjectKind, subjectID, actorID string) (LikeStatus, error) {
	count, err := s.likeRepo.Counter(ctx, kind, subjectID)
	if err != nil {
		return LikeStatus{}, storeFailure("like status", err)
	}
	st := LikeStatus{Count: count}
	if actorID == "" {
		return st, nil
	}
	liked, err := s.likeRepo.Exists(ctx, kind, subjectID, actorID)
	if err != nil {
		return LikeStatus{}, storeFailure("like status", err)
	}
	st.Liked = liked
	return st, nil
}

func (s *likeService) LikedPoemIDs(ctx context.Context, actorID string, pageNum, pageSize int) ([]string, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	offset, limit := page(pageNum, pageSize, 50, 200)
	ids, err := s.likeRepo.ListByActor(ctx, repository.SubjectPoem, actorID, offset, limit)
	if err != nil {
		return nil, storeFailure("list liked poems", err)
	}
	return ids, nil
}
