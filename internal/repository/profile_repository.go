package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/wordstack/internal/model"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	Upsert(ctx context.Context, p *model.Profile) error
	IsAdmin(ctx context.Context, id string) (bool, error)
	UsernameTaken(ctx context.Context, username, exceptID string) (bool, error)
	Authors(ctx context.Context, ids []string) (map[string]model.Author, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepository{db: db} }

func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "get profile")
	}
	return &p, nil
}

// Upsert 资料行可能尚未由认证回调创建，按 id 插入或更新；is_admin 不可经此修改
func (r *profileRepository) Upsert(ctx context.Context, p *model.Profile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "display_name", "avatar_url", "bio", "updated_at"}),
	}).Create(p).Error
	return errors.Wrap(err, "upsert profile")
}

func (r *profileRepository) IsAdmin(ctx context.Context, id string) (bool, error) {
	var flags []bool
	if err := r.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Limit(1).Pluck("is_admin", &flags).Error; err != nil {
		return false, errors.Wrap(err, "check admin")
	}
	return len(flags) == 1 && flags[0], nil
}

func (r *profileRepository) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&cnt).Error
	return cnt > 0, errors.Wrap(err, "check username")
}

// Authors 批量取作者展示信息，缺失的 id 不出现在结果中
func (r *profileRepository) Authors(ctx context.Context, ids []string) (map[string]model.Author, error) {
	out := make(map[string]model.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var profiles []model.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, errors.Wrap(err, "load authors")
	}
	for _, p := range profiles {
		out[p.ID] = model.Author{ID: p.ID, Username: p.Username, DisplayName: p.DisplayName, AvatarURL: p.AvatarURL}
	}
	return out, nil
}
