package model

import "time"

type PoemComment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PoemID    string    `json:"poem_id" gorm:"type:varchar(36);not null;index:idx_poem_comments_poem_created"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_poem_comments_poem_created"`
}

func (PoemComment) TableName() string { return "poem_comments" }

type ModernPoemComment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PoemID    string    `json:"poem_id" gorm:"type:varchar(36);not null;index:idx_modern_comments_poem_created"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_modern_comments_poem_created"`
}

func (ModernPoemComment) TableName() string { return "modern_poem_comments" }

// CommentView 评论列表项（带作者）
type CommentView struct {
	ID        string    `json:"id"`
	PoemID    string    `json:"poem_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    Author    `json:"author"`
	// AuthorName 已按回退规则解析
	AuthorName string `json:"author_name"`
}
