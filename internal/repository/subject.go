package repository

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/wordstack/internal/model"
)

// SubjectKind 可点赞/评论的内容类型
type SubjectKind string

const (
	SubjectPoem       SubjectKind = "poem"
	SubjectModernPoem SubjectKind = "modern_poem"
)

// subjectTables 描述一种内容在库中的落点：主体表、关系表以及冗余计数列
type subjectTables struct {
	subject        string
	likes          string
	comments       string
	subjectColumn  string // 关系表中指向主体的列
	likeCounter    string
	commentCounter string // 空串表示不维护冗余评论数
	newLike        func(subjectID, actorID string) interface{}
	newComment     func(id, subjectID, actorID, content string) interface{}
	likeModel      func() interface{}
}

var subjects = map[SubjectKind]subjectTables{
	SubjectPoem: {
		subject:       "poems",
		likes:         "poem_likes",
		comments:      "poem_comments",
		subjectColumn: "poem_id",
		likeCounter:   "like_count",
		newLike: func(subjectID, actorID string) interface{} {
			return &model.PoemLike{ID: uuid.NewString(), PoemID: subjectID, UserID: actorID}
		},
		newComment: func(id, subjectID, actorID, content string) interface{} {
			return &model.PoemComment{ID: id, PoemID: subjectID, UserID: actorID, Content: content}
		},
		likeModel: func() interface{} { return &model.PoemLike{} },
	},
	SubjectModernPoem: {
		subject:        "modern_poems",
		likes:          "modern_poem_likes",
		comments:       "modern_poem_comments",
		subjectColumn:  "poem_id",
		likeCounter:    "likes_count",
		commentCounter: "comments_count",
		newLike: func(subjectID, actorID string) interface{} {
			return &model.ModernPoemLike{ID: uuid.NewString(), PoemID: subjectID, UserID: actorID}
		},
		newComment: func(id, subjectID, actorID, content string) interface{} {
			return &model.ModernPoemComment{ID: id, PoemID: subjectID, UserID: actorID, Content: content}
		},
		likeModel: func() interface{} { return &model.ModernPoemLike{} },
	},
}

// ParseSubjectKind 空串按经典诗歌处理
func ParseSubjectKind(s string) (SubjectKind, error) {
	if s == "" {
		return SubjectPoem, nil
	}
	k := SubjectKind(s)
	if _, ok := subjects[k]; !ok {
		return "", ErrUnknownSubjectKind
	}
	return k, nil
}

// Kinds 返回全部内容类型
func Kinds() []SubjectKind { return []SubjectKind{SubjectPoem, SubjectModernPoem} }

func tablesOf(kind SubjectKind) (subjectTables, error) {
	t, ok := subjects[kind]
	if !ok {
		return subjectTables{}, ErrUnknownSubjectKind
	}
	return t, nil
}

// countExpr 由关系表实时聚合出的计数子查询
func countExpr(relation, column string) string {
	return fmt.Sprintf("(SELECT COUNT(*) FROM %s WHERE %s.%s = ?)", relation, relation, column)
}

func isPostgres(db *gorm.DB) bool { return db.Dialector.Name() == "postgres" }
