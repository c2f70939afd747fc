package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/d60-Lab/wordstack/internal/model"
)

// Publisher 在一个事务内写 modern_poems + outbox
type Publisher struct{ db *gorm.DB }

func NewPublisher(db *gorm.DB) *Publisher { return &Publisher{db: db} }

// Publish 落地现代诗与扇出事件，返回新诗
func (p *Publisher) Publish(ctx context.Context, authorID, title, content string) (*model.ModernPoem, error) {
	now := time.Now()
	poem := &model.ModernPoem{
		ID:        uuid.NewString(),
		UserID:    authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(poem).Error; err != nil {
			return errors.Wrap(err, "insert modern poem")
		}
		out := &model.Outbox{ID: uuid.NewString(), PoemID: poem.ID, AuthorID: authorID, Status: model.OutboxPending, CreatedAt: now}
		return errors.Wrap(tx.Create(out).Error, "insert outbox")
	})
	if err != nil {
		return nil, err
	}
	return poem, nil
}
