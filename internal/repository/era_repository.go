package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/d60-Lab/wordstack/internal/model"
)

type EraRepository interface {
	ListWithPoets(ctx context.Context) ([]*model.LiteraryEra, error)
	Create(ctx context.Context, era *model.LiteraryEra) error
	Sitemap(ctx context.Context) ([]SitemapEntry, error)
}

type eraRepository struct {
	db *gorm.DB
}

func NewEraRepository(db *gorm.DB) EraRepository { return &eraRepository{db: db} }

func (r *eraRepository) ListWithPoets(ctx context.Context) ([]*model.LiteraryEra, error) {
	var eras []*model.LiteraryEra
	err := r.db.WithContext(ctx).
		Preload("Poets", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("start_year ASC").
		Find(&eras).Error
	return eras, errors.Wrap(err, "list eras")
}

func (r *eraRepository) Create(ctx context.Context, era *model.LiteraryEra) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit("Poets").Create(era).Error, "create era")
}

func (r *eraRepository) Sitemap(ctx context.Context) ([]SitemapEntry, error) {
	return sitemapEntries(ctx, r.db, "literary_eras", "created_at")
}
