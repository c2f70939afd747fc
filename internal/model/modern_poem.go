package model

import "time"

// ModernPoem 用户投稿的现代诗；LikesCount/CommentsCount 为冗余计数
type ModernPoem struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_modern_poems_author"`
	Title         string    `json:"title" gorm:"type:varchar(200);not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	LikesCount    int64     `json:"likes_count" gorm:"not null;default:0"`
	CommentsCount int64     `json:"comments_count" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ModernPoem) TableName() string { return "modern_poems" }

// ModernPoemView 现代诗展示（带作者与当前用户点赞状态）
type ModernPoemView struct {
	ModernPoem
	Author     Author `json:"author"`
	AuthorName string `json:"author_name"`
	Liked      bool   `json:"liked"`
}
