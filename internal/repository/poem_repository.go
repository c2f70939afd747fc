package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/wordstack/internal/model"
)

// PoemFilter 经典诗歌列表筛选
type PoemFilter struct {
	ThemeSlug     string
	PoetSlug      string
	PublishedOnly bool
}

type PoemRepository interface {
	List(ctx context.Context, filter PoemFilter, offset, limit int) ([]*model.Poem, int64, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.Poem, error)
	GetByID(ctx context.Context, id string) (*model.Poem, error)
	Create(ctx context.Context, poem *model.Poem, themeIDs []string) error
	Update(ctx context.Context, poem *model.Poem, themeIDs []string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	SlugExists(ctx context.Context, slug, exceptID string) (bool, error)
	Sitemap(ctx context.Context) ([]SitemapEntry, error)
}

type poemRepository struct {
	db *gorm.DB
}

func NewPoemRepository(db *gorm.DB) PoemRepository { return &poemRepository{db: db} }

// 编辑表单可写的列；like_count 不在其中
var poemEditableColumns = []string{
	"title", "slug", "poet_id", "text", "summary", "intro",
	"meta_title", "meta_description", "word_count", "line_count", "is_classic", "is_published", "updated_at",
}

func (r *poemRepository) List(ctx context.Context, filter PoemFilter, offset, limit int) ([]*model.Poem, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Poem{})
	if filter.PublishedOnly {
		q = q.Where("poems.is_published = ?", true)
	}
	if filter.PoetSlug != "" {
		q = q.Joins("JOIN poets ON poets.id = poems.poet_id").Where("poets.slug = ?", filter.PoetSlug)
	}
	if filter.ThemeSlug != "" {
		q = q.Joins("JOIN poem_themes pt ON pt.poem_id = poems.id").
			Joins("JOIN themes ON themes.id = pt.theme_id").
			Where("themes.slug = ?", filter.ThemeSlug)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count poems")
	}

	var poems []*model.Poem
	err := q.Preload("Poet").
		Order("poems.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&poems).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list poems")
	}
	return poems, total, nil
}

func (r *poemRepository) GetBySlug(ctx context.Context, slug string, published bool) (*model.Poem, error) {
	q := r.db.WithContext(ctx).Preload("Poet").Preload("Themes").Where("slug = ?", slug)
	if published {
		q = q.Scopes(publishedOnly)
	}
	var poem model.Poem
	if err := q.First(&poem).Error; err != nil {
		return nil, translate(err, "get poem by slug")
	}
	return &poem, nil
}

func (r *poemRepository) GetByID(ctx context.Context, id string) (*model.Poem, error) {
	var poem model.Poem
	if err := r.db.WithContext(ctx).Preload("Poet").Preload("Themes").Where("id = ?", id).First(&poem).Error; err != nil {
		return nil, translate(err, "get poem")
	}
	return &poem, nil
}

func (r *poemRepository) Create(ctx context.Context, poem *model.Poem, themeIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(poem).Error; err != nil {
			return errors.Wrap(err, "create poem")
		}
		return replaceThemes(tx, poem.ID, themeIDs)
	})
}

// Update themeIDs 为 nil 时不改动主题关联
func (r *poemRepository) Update(ctx context.Context, poem *model.Poem, themeIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Poem{ID: poem.ID}).Select(poemEditableColumns).Updates(poem)
		if res.Error != nil {
			return errors.Wrap(res.Error, "update poem")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if themeIDs == nil {
			return nil
		}
		if err := tx.Where("poem_id = ?", poem.ID).Delete(&model.PoemTheme{}).Error; err != nil {
			return errors.Wrap(err, "clear poem themes")
		}
		return replaceThemes(tx, poem.ID, themeIDs)
	})
}

func (r *poemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&model.PoemLike{}, &model.PoemComment{}, &model.PoemTheme{}} {
			if err := tx.Where("poem_id = ?", id).Delete(m).Error; err != nil {
				return errors.Wrap(err, "delete poem dependents")
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.Poem{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete poem")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *poemRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Poem{}).Count(&cnt).Error
	return cnt, errors.Wrap(err, "count poems")
}

func (r *poemRepository) SlugExists(ctx context.Context, slug, exceptID string) (bool, error) {
	return slugExists(ctx, r.db, "poems", slug, exceptID)
}

func (r *poemRepository) Sitemap(ctx context.Context) ([]SitemapEntry, error) {
	return sitemapEntries(ctx, r.db, "poems", "updated_at", publishedOnly)
}

func replaceThemes(tx *gorm.DB, poemID string, themeIDs []string) error {
	if len(themeIDs) == 0 {
		return nil
	}
	links := make([]model.PoemTheme, 0, len(themeIDs))
	for _, id := range themeIDs {
		links = append(links, model.PoemTheme{PoemID: poemID, ThemeID: id})
	}
	return errors.Wrap(tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error, "link poem themes")
}
