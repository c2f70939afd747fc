package model

import "time"

// Poem 经典诗歌；LikeCount 是 poem_likes 的冗余计数，只由点赞切换与计数校准写入
type Poem struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title           string    `json:"title" gorm:"type:varchar(255);not null"`
	Slug            string    `json:"slug" gorm:"type:varchar(300);uniqueIndex;not null"`
	PoetID          *string   `json:"poet_id" gorm:"type:varchar(36);index"`
	Text            string    `json:"text" gorm:"type:text;not null"`
	Summary         string    `json:"summary" gorm:"type:text"`
	Intro           string    `json:"intro" gorm:"type:text"`
	MetaTitle       string    `json:"meta_title" gorm:"type:varchar(255)"`
	MetaDescription string    `json:"meta_description" gorm:"type:varchar(512)"`
	WordCount       int       `json:"word_count"`
	LineCount       int       `json:"line_count"`
	IsClassic       bool      `json:"is_classic" gorm:"not null;default:true"`
	IsPublished     bool      `json:"is_published" gorm:"not null;default:false;index"`
	LikeCount       int64     `json:"like_count" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Poet   *Poet   `json:"poet,omitempty" gorm:"foreignKey:PoetID"`
	Themes []Theme `json:"themes,omitempty" gorm:"many2many:poem_themes"`
}

func (Poem) TableName() string { return "poems" }
