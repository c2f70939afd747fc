package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/d60-Lab/wordstack/internal/model"
)

type ThemeRepository interface {
	List(ctx context.Context, limit int) ([]*model.Theme, error)
	GetBySlug(ctx context.Context, slug string) (*model.Theme, error)
	Create(ctx context.Context, theme *model.Theme) error
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
	Sitemap(ctx context.Context) ([]SitemapEntry, error)
}

type themeRepository struct {
	db *gorm.DB
}

func NewThemeRepository(db *gorm.DB) ThemeRepository { return &themeRepository{db: db} }

// List limit <= 0 时返回全部
func (r *themeRepository) List(ctx context.Context, limit int) ([]*model.Theme, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var themes []*model.Theme
	if err := q.Find(&themes).Error; err != nil {
		return nil, errors.Wrap(err, "list themes")
	}
	return themes, nil
}

func (r *themeRepository) GetBySlug(ctx context.Context, slug string) (*model.Theme, error) {
	var theme model.Theme
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&theme).Error; err != nil {
		return nil, translate(err, "get theme")
	}
	return &theme, nil
}

func (r *themeRepository) Create(ctx context.Context, theme *model.Theme) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(theme).Error, "create theme")
}

func (r *themeRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&model.Theme{}).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, errors.Wrap(err, "existing themes")
}

func (r *themeRepository) Sitemap(ctx context.Context) ([]SitemapEntry, error) {
	return sitemapEntries(ctx, r.db, "themes", "created_at")
}
