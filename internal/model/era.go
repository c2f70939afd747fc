package model

import "time"

// LiteraryEra 文学时期
type LiteraryEra struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(128);not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(160);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	StartYear   *int      `json:"start_year" gorm:"index"`
	EndYear     *int      `json:"end_year"`
	CreatedAt   time.Time `json:"created_at"`

	Poets []Poet `json:"poets,omitempty" gorm:"foreignKey:EraID"`
}

func (LiteraryEra) TableName() string { return "literary_eras" }
