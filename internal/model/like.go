package model

import "time"

// PoemLike 用户点赞经典诗歌
type PoemLike struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PoemID    string    `json:"poem_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_poem_likes_pair"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_poem_likes_pair;index"`
	// 复合唯一键 (poem_id, user_id)，同一用户对同一首诗至多一条
	CreatedAt time.Time `json:"created_at"`
}

func (PoemLike) TableName() string { return "poem_likes" }

// ModernPoemLike 用户点赞现代诗
type ModernPoemLike struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PoemID    string    `json:"poem_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_modern_poem_likes_pair"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_modern_poem_likes_pair;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (ModernPoemLike) TableName() string { return "modern_poem_likes" }
