package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/d60-Lab/wordstack/internal/cache"
	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/pkg/logger"
)

const MaxCommentLength = 2000

type CommentService interface {
	Add(ctx context.Context, kind repository.SubjectKind, subjectID, actorID, content string) (*model.CommentView, error)
	List(ctx context.Context, kind repository.SubjectKind, subjectID string, pageNum, pageSize int) ([]model.CommentView, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	cache       *cache.Store
}

func NewCommentService(commentRepo repository.CommentRepository, store *cache.Store) CommentService {
	return &commentService{commentRepo: commentRepo, cache: store}
}

func (s *commentService) Add(ctx context.Context, kind repository.SubjectKind, subjectID, actorID, content string) (*model.CommentView, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	switch {
	case content == "":
		return nil, invalid("content", "is required")
	case utf8.RuneCountInString(content) > MaxCommentLength:
		return nil, invalid("content", "must be at most 2000 characters")
	}

	view, err := s.commentRepo.Create(ctx, kind, subjectID, actorID, content)
	if err != nil {
		err = storeFailure("add comment", err)
		logger.Warn("add comment failed", zap.String("subject", subjectID), zap.Error(err))
		return nil, err
	}
	if kind == repository.SubjectModernPoem {
		s.cache.InvalidateRecentFeed(ctx)
	}
	return view, nil
}

// List 最新的在前
func (s *commentService) List(ctx context.Context, kind repository.SubjectKind, subjectID string, pageNum, pageSize int) ([]model.CommentView, error) {
	offset, limit := page(pageNum, pageSize, 50, 200)
	items, err := s.commentRepo.List(ctx, kind, subjectID, offset, limit)
	if err != nil {
		return nil, storeFailure("list comments", err)
	}
	if items == nil {
		items = []model.CommentView{}
	}
	return items, nil
}
