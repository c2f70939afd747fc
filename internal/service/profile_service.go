package service

import (
	"context"
	"strings"
	"time"

	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/repository"
)

// UpdateProfileRequest 用户可编辑的资料字段
type UpdateProfileRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=64"`
	DisplayName string `json:"display_name" validate:"max=128"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url,max=512"`
	Bio         string `json:"bio" validate:"max=2000"`
}

type ProfileService interface {
	Me(ctx context.Context, actorID string) (*model.Profile, error)
	Update(ctx context.Context, actorID string, req UpdateProfileRequest) (*model.Profile, error)
	IsAdmin(ctx context.Context, actorID string) (bool, error)
}

type profileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Me(ctx context.Context, actorID string) (*model.Profile, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	p, err := s.profiles.GetByID(ctx, actorID)
	return p, storeFailure("get profile", err)
}

func (s *profileService) Update(ctx context.Context, actorID string, req UpdateProfileRequest) (*model.Profile, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	req.Username = strings.TrimSpace(req.Username)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.AvatarURL = strings.TrimSpace(req.AvatarURL)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	taken, err := s.profiles.UsernameTaken(ctx, req.Username, actorID)
	if err != nil {
		return nil, storeFailure("check username", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	now := time.Now()
	p := &model.Profile{
		ID:          actorID,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, storeFailure("update profile", err)
	}
	return s.Me(ctx, actorID)
}

func (s *profileService) IsAdmin(ctx context.Context, actorID string) (bool, error) {
	if actorID == "" {
		return false, ErrUnauthenticated
	}
	ok, err := s.profiles.IsAdmin(ctx, actorID)
	if err != nil {
		return false, storeFailure("check admin", err)
	}
	return ok, nil
}
