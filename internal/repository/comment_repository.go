package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/d60-Lab/wordstack/internal/model"
)

// CommentRepository 评论存储；现代诗的 comments_count 与插入同事务重算
type CommentRepository interface {
	Create(ctx context.Context, kind SubjectKind, subjectID, actorID, content string) (*model.CommentView, error)
	List(ctx context.Context, kind SubjectKind, subjectID string, offset, limit int) ([]model.CommentView, error)
	Count(ctx context.Context, kind SubjectKind, subjectID string) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

type commentRow struct {
	ID          string
	PoemID      string
	UserID      string
	Content     string
	CreatedAt   time.Time
	Username    string
	DisplayName string
	AvatarURL   string
}

func (row commentRow) view() model.CommentView {
	author := model.Author{ID: row.UserID, Username: row.Username, DisplayName: row.DisplayName, AvatarURL: row.AvatarURL}
	return model.CommentView{
		ID:         row.ID,
		PoemID:     row.PoemID,
		UserID:     row.UserID,
		Content:    row.Content,
		CreatedAt:  row.CreatedAt,
		Author:     author,
		AuthorName: author.Name(),
	}
}

func (r *commentRepository) Create(ctx context.Context, kind SubjectKind, subjectID, actorID, content string) (*model.CommentView, error) {
	t, err := tablesOf(kind)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	rec := t.newComment(id, subjectID, actorID, content)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSubject(tx, t, subjectID); err != nil {
			return err
		}
		if err := tx.Create(rec).Error; err != nil {
			return errors.Wrap(err, "insert comment")
		}
		if t.commentCounter == "" {
			return nil
		}
		return errors.Wrap(tx.Table(t.subject).
			Where("id = ?", subjectID).
			Update(t.commentCounter, gorm.Expr(countExpr(t.comments, t.subjectColumn), subjectID)).Error,
			"recount comments")
	})
	if err != nil {
		return nil, err
	}

	var rows []commentRow
	if err := r.query(ctx, t).Where("c.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "load comment")
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	v := rows[0].view()
	return &v, nil
}

// List 按时间倒序，附带作者资料
func (r *commentRepository) List(ctx context.Context, kind SubjectKind, subjectID string, offset, limit int) ([]model.CommentView, error) {
	t, err := tablesOf(kind)
	if err != nil {
		return nil, err
	}
	var rows []commentRow
	if err := r.query(ctx, t).
		Where("c."+t.subjectColumn+" = ?", subjectID).
		Order("c.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	out := make([]model.CommentView, len(rows))
	for i, row := range rows {
		out[i] = row.view()
	}
	return out, nil
}

func (r *commentRepository) Count(ctx context.Context, kind SubjectKind, subjectID string) (int64, error) {
	t, err := tablesOf(kind)
	if err != nil {
		return 0, err
	}
	var cnt int64
	err = r.db.WithContext(ctx).Table(t.comments).Where(t.subjectColumn+" = ?", subjectID).Count(&cnt).Error
	return cnt, errors.Wrap(err, "count comments")
}

func (r *commentRepository) query(ctx context.Context, t subjectTables) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(t.comments+" AS c").
		Select("c.id, c."+t.subjectColumn+" AS poem_id, c.user_id, c.content, c.created_at, " +
			"COALESCE(p.username, '') AS username, COALESCE(p.display_name, '') AS display_name, COALESCE(p.avatar_url, '') AS avatar_url").
		Joins("LEFT JOIN profiles p ON p.id = c.user_id")
}
