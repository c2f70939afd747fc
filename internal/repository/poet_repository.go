package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/wordstack/internal/model"
)

type PoetRepository interface {
	List(ctx context.Context, offset, limit int) ([]*model.Poet, int64, error)
	GetBySlug(ctx context.Context, slug string) (*model.Poet, error)
	GetByID(ctx context.Context, id string) (*model.Poet, error)
	Create(ctx context.Context, poet *model.Poet) error
	Update(ctx context.Context, poet *model.Poet) error
	Delete(ctx context.Context, id string) ([]string, error)
	PoemSlugs(ctx context.Context, id string) ([]string, error)
	Count(ctx context.Context) (int64, error)
	SlugExists(ctx context.Context, slug, exceptID string) (bool, error)
	Sitemap(ctx context.Context) ([]SitemapEntry, error)
}

type poetRepository struct {
	db *gorm.DB
}

func NewPoetRepository(db *gorm.DB) PoetRepository { return &poetRepository{db: db} }

var poetEditableColumns = []string{
	"name", "slug", "bio", "birth_year", "death_year", "nationality", "image_url", "era_id", "updated_at",
}

func (r *poetRepository) List(ctx context.Context, offset, limit int) ([]*model.Poet, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Poet{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count poets")
	}
	var poets []*model.Poet
	err := r.db.WithContext(ctx).
		Preload("Era").
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&poets).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list poets")
	}
	return poets, total, nil
}

// GetBySlug 诗人主页：时期 + 已发布作品
func (r *poetRepository) GetBySlug(ctx context.Context, slug string) (*model.Poet, error) {
	var poet model.Poet
	err := r.db.WithContext(ctx).
		Preload("Era").
		Preload("Poems", func(db *gorm.DB) *gorm.DB {
			return db.Scopes(publishedOnly).Order("title ASC")
		}).
		Where("slug = ?", slug).
		First(&poet).Error
	if err != nil {
		return nil, translate(err, "get poet by slug")
	}
	return &poet, nil
}

func (r *poetRepository) GetByID(ctx context.Context, id string) (*model.Poet, error) {
	var poet model.Poet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&poet).Error; err != nil {
		return nil, translate(err, "get poet")
	}
	return &poet, nil
}

func (r *poetRepository) Create(ctx context.Context, poet *model.Poet) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit(clause.Associations).Create(poet).Error, "create poet")
}

func (r *poetRepository) Update(ctx context.Context, poet *model.Poet) error {
	res := r.db.WithContext(ctx).Model(&model.Poet{ID: poet.ID}).Select(poetEditableColumns).Updates(poet)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update poet")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除诗人，其作品保留但解除关联；返回被解除关联的诗歌 slug
func (r *poetRepository) Delete(ctx context.Context, id string) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Poem{}).Where("poet_id = ?", id).Pluck("slug", &slugs).Error; err != nil {
			return errors.Wrap(err, "list poet poems")
		}
		if err := tx.Model(&model.Poem{}).Where("poet_id = ?", id).Update("poet_id", nil).Error; err != nil {
			return errors.Wrap(err, "detach poems")
		}
		res := tx.Where("id = ?", id).Delete(&model.Poet{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete poet")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slugs, nil
}

// PoemSlugs 诗人名下全部诗歌的 slug，用于清理详情缓存
func (r *poetRepository) PoemSlugs(ctx context.Context, id string) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).Model(&model.Poem{}).Where("poet_id = ?", id).Pluck("slug", &slugs).Error
	return slugs, errors.Wrap(err, "list poet poems")
}

func (r *poetRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Poet{}).Count(&cnt).Error
	return cnt, errors.Wrap(err, "count poets")
}

func (r *poetRepository) SlugExists(ctx context.Context, slug, exceptID string) (bool, error) {
	return slugExists(ctx, r.db, "poets", slug, exceptID)
}

func (r *poetRepository) Sitemap(ctx context.Context) ([]SitemapEntry, error) {
	return sitemapEntries(ctx, r.db, "poets", "updated_at")
}
