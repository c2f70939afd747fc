package model

import "time"

const (
	OutboxPending    = "pending"
	OutboxProcessing = "processing"
	OutboxDone       = "done"
)

// Outbox 现代诗发布事件，与诗歌同事务写入，由扇出 worker 消费
type Outbox struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	PoemID      string    `gorm:"type:varchar(36);uniqueIndex"`
	AuthorID    string    `gorm:"type:varchar(36);index"`
	Status      string    `gorm:"type:varchar(16);index;not null"`
	CreatedAt   time.Time `gorm:"index"`
	ClaimedAt   *time.Time // 进入 processing 的时间，超过租期视为 worker 已失联
	ProcessedAt *time.Time
	FanoutCount int64
}

func (Outbox) TableName() string { return "outbox" }
