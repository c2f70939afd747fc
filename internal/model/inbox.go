package model

import "time"

// Inbox 关注流条目（按 user_id 切分）
type Inbox struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex:ux_inbox_user_poem;index:idx_inbox_user_score"`
	PoemID string `gorm:"type:varchar(36);not null;uniqueIndex:ux_inbox_user_poem;index"`
	// ux_inbox_user_poem = (user_id, poem_id)，重复扇出幂等
	Score     int64     `gorm:"index:idx_inbox_user_score"`
	CreatedAt time.Time
}

func (Inbox) TableName() string { return "inbox" }
