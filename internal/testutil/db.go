// Package testutil 测试用的内存 sqlite 与基础数据
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/wordstack/internal/model"
)

// NewDB 每个测试一个独立的内存库；单连接与线上 sqlite 配置一致
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := model.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Poem 插入一首已发布的经典诗歌
func Poem(tb testing.TB, db *gorm.DB, slug string) *model.Poem {
	tb.Helper()
	now := time.Now()
	p := &model.Poem{
		ID:          uuid.NewString(),
		Title:       slug,
		Slug:        slug,
		Text:        "line one\nline two",
		IsClassic:   true,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Omit(clause.Associations).Create(p).Error; err != nil {
		tb.Fatalf("create poem: %v", err)
	}
	return p
}

// ModernPoem 插入一首现代诗
func ModernPoem(tb testing.TB, db *gorm.DB, authorID string) *model.ModernPoem {
	tb.Helper()
	now := time.Now()
	p := &model.ModernPoem{ID: uuid.NewString(), UserID: authorID, Title: "untitled", Content: "words", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("create modern poem: %v", err)
	}
	return p
}

// Profile 插入用户资料
func Profile(tb testing.TB, db *gorm.DB, username string, admin bool) *model.Profile {
	tb.Helper()
	now := time.Now()
	p := &model.Profile{ID: uuid.NewString(), Username: username, IsAdmin: admin, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("create profile: %v", err)
	}
	return p
}
