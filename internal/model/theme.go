package model

import "time"

// Theme 诗歌主题
type Theme struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(128);not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(160);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Theme) TableName() string { return "themes" }

// PoemTheme 诗歌-主题多对多关联
type PoemTheme struct {
	PoemID  string `json:"poem_id" gorm:"primaryKey;type:varchar(36)"`
	ThemeID string `json:"theme_id" gorm:"primaryKey;type:varchar(36);index"`
}

func (PoemTheme) TableName() string { return "poem_themes" }
