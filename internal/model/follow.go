package model

import "time"

// Follow 关注关系（A 关注 B），用于现代诗的关注流
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FollowerID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FolloweeID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair;index:idx_follow_followee" json:"followee_id"`
	// 复合唯一键 idx_follow_pair = (follower_id, followee_id)，避免重复关注
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_follow_followee"`
}

func (Follow) TableName() string { return "follows" }
