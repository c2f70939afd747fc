package service

import (
	"context"

	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/repository"
)

// FollowService 关注关系；新发布的现代诗按关注关系扇出到关注者的 inbox
type FollowService interface {
	Follow(ctx context.Context, actorID, targetID string) error
	Unfollow(ctx context.Context, actorID, targetID string) error
	IsFollowing(ctx context.Context, actorID, targetID string) (bool, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]model.Author, error)
	ListFollowers(ctx context.Context, userID string, page, pageSize int) ([]model.Author, error)
}

type followService struct {
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
}

func NewFollowService(followRepo repository.FollowRepository, profileRepo repository.ProfileRepository) FollowService {
	return &followService{followRepo: followRepo, profileRepo: profileRepo}
}

func (s *followService) Follow(ctx context.Context, actorID, targetID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if targetID == "" {
		return invalid("user_id", "is required")
	}
	if actorID == targetID {
		return ErrFollowSelf
	}
	return storeFailure("follow", s.followRepo.Create(ctx, actorID, targetID))
}

func (s *followService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	return storeFailure("unfollow", s.followRepo.Delete(ctx, actorID, targetID))
}

func (s *followService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == "" || actorID == targetID {
		return false, nil
	}
	ok, err := s.followRepo.Exists(ctx, actorID, targetID)
	return ok, storeFailure("follow exists", err)
}

func (s *followService) ListFollowing(ctx context.Context, userID string, pageNum, pageSize int) ([]model.Author, error) {
	offset, limit := page(pageNum, pageSize, 20, 100)
	items, err := s.followRepo.ListFollowings(ctx, userID, offset, limit)
	if err != nil {
		return nil, storeFailure("list following", err)
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.FolloweeID
	}
	return s.authors(ctx, ids)
}

func (s *followService) ListFollowers(ctx context.Context, userID string, pageNum, pageSize int) ([]model.Author, error) {
	offset, limit := page(pageNum, pageSize, 20, 100)
	items, err := s.followRepo.ListFollowers(ctx, userID, offset, limit)
	if err != nil {
		return nil, storeFailure("list followers", err)
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.FollowerID
	}
	return s.authors(ctx, ids)
}

// authors 保持 ids 的顺序；没有资料的用户只带 ID
func (s *followService) authors(ctx context.Context, ids []string) ([]model.Author, error) {
	byID, err := s.profileRepo.Authors(ctx, ids)
	if err != nil {
		return nil, storeFailure("load authors", err)
	}
	out := make([]model.Author, len(ids))
	for i, id := range ids {
		a, ok := byID[id]
		if !ok {
			a = model.Author{ID: id}
		}
		out[i] = a
	}
	return out, nil
}
