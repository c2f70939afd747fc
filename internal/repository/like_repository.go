package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleResult 切换后的点赞状态与权威计数
type ToggleResult struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// LikeRepository 点赞关系存储；计数始终由关系表派生
type LikeRepository interface {
	Toggle(ctx context.Context, kind SubjectKind, subjectID, actorID string) (ToggleResult, error)
	Exists(ctx context.Context, kind SubjectKind, subjectID, actorID string) (bool, error)
	Count(ctx context.Context, kind SubjectKind, subjectID string) (int64, error)
	Counter(ctx context.Context, kind SubjectKind, subjectID string) (int64, error)
	Recount(ctx context.Context, kind SubjectKind, subjectID string) (int64, error)
	Drifted(ctx context.Context, kind SubjectKind, limit int) ([]string, error)
	LikedAmong(ctx context.Context, kind SubjectKind, actorID string, subjectIDs []string) (map[string]bool, error)
	ListByActor(ctx context.Context, kind SubjectKind, actorID string, offset, limit int) ([]string, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

// Toggle 在单个事务内完成：锁主体行 -> 存在则删除，否则插入（冲突即视为已点赞）-> 由 COUNT(*) 重算计数
func (r *likeRepository) Toggle(ctx context.Context, kind SubjectKind, subjectID, actorID string) (ToggleResult, error) {
	t, err := tablesOf(kind)
	if err != nil {
		return ToggleResult{}, err
	}

	var res ToggleResult
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSubject(tx, t, subjectID); err != nil {
			return err
		}

		del := tx.Where(t.subjectColumn+" = ? AND user_id = ?", subjectID, actorID).Delete(t.likeModel())
		if del.Error != nil {
			return errors.Wrap(del.Error, "delete like")
		}
		if del.RowsAffected == 0 {
			// 并发插入撞上唯一键时 RowsAffected 为 0，关系已存在，结果仍是已点赞
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(t.newLike(subjectID, actorID)).Error; err != nil {
				return errors.Wrap(err, "insert like")
			}
			res.Liked = true
		}

		count, err := recount(tx, t, subjectID)
		if err != nil {
			return err
		}
		res.Count = count
		return nil
	})
	if err != nil {
		return ToggleResult{}, err
	}
	return res, nil
}

func (r *likeRepository) Exists(ctx context.Context, kind SubjectKind, subjectID, actorID string) (bool, error) {
	t, err := tablesOf(kind)
	if err != nil {
		return false, err
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Table(t.likes).
		Where(t.subjectColumn+" = ? AND user_id = ?", subjectID, actorID).
		Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "like exists")
	}
	return cnt > 0, nil
}

// Count 关系表中的真实点赞数
func (r *likeRepository) Count(ctx context.Context, kind SubjectKind, subjectID string) (int64, error) {
	t, err := tablesOf(kind)
	if err != nil {
		return 0, err
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Table(t.likes).
		Where(t.subjectColumn+" = ?", subjectID).
		Count(&cnt).Error; err != nil {
		return 0, errors.Wrap(err, "count likes")
	}
	return cnt, nil
}

// Counter 主体行上的冗余计数
func (r *likeRepository) Counter(ctx context.Context, kind SubjectKind, subjectID string) (int64, error) {
	t, err := tablesOf(kind)
	if err != nil {
		return 0, err
	}
	return readCounter(r.db.WithContext(ctx), t.subject, t.likeCounter, subjectID)
}

// Recount 重算单个主体的冗余计数并返回新值
func (r *likeRepository) Recount(ctx context.Context, kind SubjectKind, subjectID string) (int64, error) {
	t, err := tablesOf(kind)
	if err != nil {
		return 0, err
	}
	var count int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSubject(tx, t, subjectID); err != nil {
			return err
		}
		c, err := recount(tx, t, subjectID)
		count = c
		return err
	})
	return count, err
}

// Drifted 找出冗余计数与关系表不一致的主体
func (r *likeRepository) Drifted(ctx context.Context, kind SubjectKind, limit int) ([]string, error) {
	t, err := tablesOf(kind)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 500
	}
	var ids []string
	err = r.db.WithContext(ctx).
		Table(t.subject+" AS s").
		Select("s.id").
		Where("s."+t.likeCounter+" <> (SELECT COUNT(*) FROM "+t.likes+" l WHERE l."+t.subjectColumn+" = s.id)").
		Order("s.id").
		Limit(limit).
		Scan(&ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "find drifted counters")
	}
	return ids, nil
}

// LikedAmong 批量判断 actor 是否点赞了给定主体
func (r *likeRepository) LikedAmong(ctx context.Context, kind SubjectKind, actorID string, subjectIDs []string) (map[string]bool, error) {
	t, err := tablesOf(kind)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(subjectIDs))
	if actorID == "" || len(subjectIDs) == 0 {
		return out, nil
	}
	var liked []string
	if err := r.db.WithContext(ctx).
		Table(t.likes).
		Where("user_id = ? AND "+t.subjectColumn+" IN ?", actorID, subjectIDs).
		Pluck(t.subjectColumn, &liked).Error; err != nil {
		return nil, errors.Wrap(err, "liked among")
	}
	for _, id := range liked {
		out[id] = true
	}
	return out, nil
}

func (r *likeRepository) ListByActor(ctx context.Context, kind SubjectKind, actorID string, offset, limit int) ([]string, error) {
	t, err := tablesOf(kind)
	if err != nil {
		return nil, err
	}
	var ids []string
	err = r.db.WithContext(ctx).
		Table(t.likes).
		Where("user_id = ?", actorID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Pluck(t.subjectColumn, &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "list likes by actor")
	}
	return ids, nil
}

// lockSubject 确认主体存在；postgres 下加行锁，使同一主体上的切换串行
func lockSubject(tx *gorm.DB, t subjectTables, subjectID string) error {
	q := tx.Table(t.subject).Where("id = ?", subjectID)
	if isPostgres(tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ids []string
	if err := q.Limit(1).Pluck("id", &ids).Error; err != nil {
		return errors.Wrap(err, "lock subject")
	}
	if len(ids) == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

func recount(tx *gorm.DB, t subjectTables, subjectID string) (int64, error) {
	if err := tx.Table(t.subject).
		Where("id = ?", subjectID).
		Update(t.likeCounter, gorm.Expr(countExpr(t.likes, t.subjectColumn), subjectID)).Error; err != nil {
		return 0, errors.Wrap(err, "recount likes")
	}
	return readCounter(tx, t.subject, t.likeCounter, subjectID)
}

func readCounter(db *gorm.DB, table, column, subjectID string) (int64, error) {
	var counts []int64
	if err := db.Table(table).Where("id = ?", subjectID).Limit(1).Pluck(column, &counts).Error; err != nil {
		return 0, errors.Wrap(err, "read counter")
	}
	if len(counts) == 0 {
		return 0, ErrSubjectNotFound
	}
	return counts[0], nil
}
