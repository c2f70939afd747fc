package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SitemapEntry 站点地图条目
type SitemapEntry struct {
	Slug      string
	UpdatedAt time.Time
}

// translate 把 gorm 的未找到错误转换为仓储层错误
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, op)
}

func slugExists(ctx context.Context, db *gorm.DB, table, slug, exceptID string) (bool, error) {
	q := db.WithContext(ctx).Table(table).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "check slug")
	}
	return cnt > 0, nil
}

func sitemapEntries(ctx context.Context, db *gorm.DB, table, tsColumn string, scopes ...func(*gorm.DB) *gorm.DB) ([]SitemapEntry, error) {
	var out []SitemapEntry
	err := db.WithContext(ctx).
		Table(table).
		Scopes(scopes...).
		Select("slug, " + tsColumn + " AS updated_at").
		Order("slug").
		Scan(&out).Error
	if err != nil {
		return nil, errors.Wrapf(err, "sitemap %s", table)
	}
	return out, nil
}

func publishedOnly(db *gorm.DB) *gorm.DB { return db.Where("is_published = ?", true) }
