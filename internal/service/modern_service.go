package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/wordstack/internal/cache"
	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/pkg/logger"
)

const (
	FeedRecent    = "recent"
	FeedFollowing = "following"
)

// SubmitModernPoemRequest 投稿表单
type SubmitModernPoemRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=20000"`
}

type ModernPoemService interface {
	Feed(ctx context.Context, tab, actorID string, pageNum, pageSize int) ([]model.ModernPoemView, error)
	Get(ctx context.Context, id, actorID string) (*model.ModernPoemView, error)
	Submit(ctx context.Context, actorID string, req SubmitModernPoemRequest) (*model.ModernPoemView, error)
	Delete(ctx context.Context, id, actorID string) error
	ListByAuthor(ctx context.Context, authorID, actorID string, pageNum, pageSize int) ([]model.ModernPoemView, error)
}

type modernPoemService struct {
	poemRepo    repository.ModernPoemRepository
	likeRepo    repository.LikeRepository
	profileRepo repository.ProfileRepository
	publisher   *Publisher
	cache       *cache.Store
}

func NewModernPoemService(
	poemRepo repository.ModernPoemRepository,
	likeRepo repository.LikeRepository,
	profileRepo repository.ProfileRepository,
	publisher *Publisher,
	store *cache.Store,
) ModernPoemService {
	return &modernPoemService{poemRepo: poemRepo, likeRepo: likeRepo, profileRepo: profileRepo, publisher: publisher, cache: store}
}

// Feed recent 为全站最新；following 读 actor 的 inbox
func (s *modernPoemService) Feed(ctx context.Context, tab, actorID string, pageNum, pageSize int) ([]model.ModernPoemView, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	offset, limit := page(pageNum, pageSize, 50, 100)

	switch tab {
	case "", FeedRecent:
		var views []model.ModernPoemView
		if s.cache.RecentFeed(ctx, pageNum, limit, &views) {
			return s.markLiked(ctx, actorID, views)
		}
		poems, err := s.poemRepo.ListRecent(ctx, offset, limit)
		if err != nil {
			return nil, storeFailure("recent feed", err)
		}
		views, err = s.present(ctx, poems)
		if err != nil {
			return nil, err
		}
		s.cache.SetRecentFeed(ctx, pageNum, limit, views)
		return s.markLiked(ctx, actorID, views)
	case FeedFollowing:
		if actorID == "" {
			return nil, ErrUnauthenticated
		}
		poems, err := s.poemRepo.ListFollowing(ctx, actorID, offset, limit)
		if err != nil {
			return nil, storeFailure("following feed", err)
		}
		views, err := s.present(ctx, poems)
		if err != nil {
			return nil, err
		}
		return s.markLiked(ctx, actorID, views)
	}
	return nil, invalid("tab", "must be recent or following")
}

func (s *modernPoemService) Get(ctx context.Context, id, actorID string) (*model.ModernPoemView, error) {
	poem, err := s.poemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure("get modern poem", err)
	}
	views, err := s.present(ctx, []*model.ModernPoem{poem})
	if err != nil {
		return nil, err
	}
	views, err = s.markLiked(ctx, actorID, views)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *modernPoemService) Submit(ctx context.Context, actorID string, req SubmitModernPoemRequest) (*model.ModernPoemView, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	poem, err := s.publisher.Publish(ctx, actorID, req.Title, req.Content)
	if err != nil {
		err = storeFailure("submit modern poem", err)
		logger.Error("submit modern poem failed", zap.String("actor", actorID), zap.Error(err))
		return nil, err
	}
	s.cache.InvalidateRecentFeed(ctx)
	logger.Info("modern poem submitted", zap.String("poem", poem.ID), zap.String("author", actorID))

	views, err := s.present(ctx, []*model.ModernPoem{poem})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete 只有作者本人或管理员可以删除
func (s *modernPoemService) Delete(ctx context.Context, id, actorID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	poem, err := s.poemRepo.GetByID(ctx, id)
	if err != nil {
		return storeFailure("get modern poem", err)
	}
	if poem.UserID != actorID {
		admin, err := s.profileRepo.IsAdmin(ctx, actorID)
		if err != nil {
			return storeFailure("check admin", err)
		}
		if !admin {
			return ErrForbidden
		}
	}
	if err := s.poemRepo.Delete(ctx, id); err != nil {
		return storeFailure("delete modern poem", err)
	}
	s.cache.InvalidateRecentFeed(ctx)
	logger.Info("modern poem deleted", zap.String("poem", id), zap.String("actor", actorID))
	return nil
}

func (s *modernPoemService) ListByAuthor(ctx context.Context, authorID, actorID string, pageNum, pageSize int) ([]model.ModernPoemView, error) {
	offset, limit := page(pageNum, pageSize, 50, 100)
	poems, err := s.poemRepo.ListByAuthor(ctx, authorID, offset, limit)
	if err != nil {
		return nil, storeFailure("list modern poems by author", err)
	}
	views, err := s.present(ctx, poems)
	if err != nil {
		return nil, err
	}
	return s.markLiked(ctx, actorID, views)
}

// present 附带作者信息；liked 留给 markLiked
func (s *modernPoemService) present(ctx context.Context, poems []*model.ModernPoem) ([]model.ModernPoemView, error) {
	ids := make([]string, 0, len(poems))
	for _, p := range poems {
		ids = append(ids, p.UserID)
	}
	authors, err := s.profileRepo.Authors(ctx, ids)
	if err != nil {
		return nil, storeFailure("load authors", err)
	}
	views := make([]model.ModernPoemView, len(poems))
	for i, p := range poems {
		a, ok := authors[p.UserID]
		if !ok {
			a = model.Author{ID: p.UserID}
		}
		views[i] = model.ModernPoemView{ModernPoem: *p, Author: a, AuthorName: a.Name()}
	}
	return views, nil
}

func (s *modernPoemService) markLiked(ctx context.Context, actorID string, views []model.ModernPoemView) ([]model.ModernPoemView, error) {
	if actorID == "" || len(views) == 0 {
		return views, nil
	}
	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	liked, err := s.likeRepo.LikedAmong(ctx, repository.SubjectModernPoem, actorID, ids)
	if err != nil {
		return nil, storeFailure("liked among", err)
	}
	for i := range views {
		views[i].Liked = liked[views[i].ID]
	}
	return views, nil
}
