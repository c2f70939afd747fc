package model

import "time"

// Poet 诗人
type Poet struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(160);not null;index"`
	Slug        string    `json:"slug" gorm:"type:varchar(200);uniqueIndex;not null"`
	Bio         string    `json:"bio" gorm:"type:text"`
	BirthYear   *int      `json:"birth_year"`
	DeathYear   *int      `json:"death_year"`
	Nationality string    `json:"nationality" gorm:"type:varchar(64)"`
	ImageURL    string    `json:"image_url" gorm:"type:varchar(512)"`
	EraID       *string   `json:"era_id" gorm:"type:varchar(36);index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Era   *LiteraryEra `json:"era,omitempty" gorm:"foreignKey:EraID"`
	Poems []Poem       `json:"poems,omitempty" gorm:"foreignKey:PoetID"`
}

func (Poet) TableName() string { return "poets" }
