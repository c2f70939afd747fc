package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/d60-Lab/wordstack/internal/model"
)

type ModernPoemRepository interface {
	GetByID(ctx context.Context, id string) (*model.ModernPoem, error)
	ListRecent(ctx context.Context, offset, limit int) ([]*model.ModernPoem, error)
	ListFollowing(ctx context.Context, userID string, offset, limit int) ([]*model.ModernPoem, error)
	ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.ModernPoem, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type modernPoemRepository struct {
	db *gorm.DB
}

func NewModernPoemRepository(db *gorm.DB) ModernPoemRepository { return &modernPoemRepository{db: db} }

func (r *modernPoemRepository) GetByID(ctx context.Context, id string) (*model.ModernPoem, error) {
	var p model.ModernPoem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "get modern poem")
	}
	return &p, nil
}

func (r *modernPoemRepository) ListRecent(ctx context.Context, offset, limit int) ([]*model.ModernPoem, error) {
	var res []*model.ModernPoem
	err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, errors.Wrap(err, "list recent modern poems")
}

// ListFollowing 读关注流 inbox（由扇出 worker 写入）
func (r *modernPoemRepository) ListFollowing(ctx context.Context, userID string, offset, limit int) ([]*model.ModernPoem, error) {
	var res []*model.ModernPoem
	err := r.db.WithContext(ctx).
		Table("modern_poems").
		Select("modern_poems.*").
		Joins("JOIN inbox ON inbox.poem_id = modern_poems.id").
		Where("inbox.user_id = ?", userID).
		Order("inbox.score DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, errors.Wrap(err, "list following feed")
}

func (r *modernPoemRepository) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*model.ModernPoem, error) {
	var res []*model.ModernPoem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", authorID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, errors.Wrap(err, "list modern poems by author")
}

// Delete 连同点赞、评论、inbox、outbox 一并删除
func (r *modernPoemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&model.ModernPoemLike{}, &model.ModernPoemComment{}, &model.Inbox{}, &model.Outbox{}} {
			if err := tx.Where("poem_id = ?", id).Delete(m).Error; err != nil {
				return errors.Wrap(err, "delete modern poem dependents")
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.ModernPoem{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete modern poem")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *modernPoemRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.ModernPoem{}).Count(&cnt).Error
	return cnt, errors.Wrap(err, "count modern poems")
}
