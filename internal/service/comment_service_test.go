package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/internal/testutil"
)

func TestCommentValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCommentService(repository.NewCommentRepository(db), nil)
	ctx := context.Background()
	poem := testutil.Poem(t, db, "remember")

	_, err := svc.Add(ctx, repository.SubjectPoem, poem.ID, "", "hi")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	cases := map[string]string{
		"blank":    "   \n\t ",
		"too long": strings.Repeat("诗", MaxCommentLength+1),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Add(ctx, repository.SubjectPoem, poem.ID, "alice", body)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "content")
		})
	}

	// 恰好 2000 个字符可以提交，首尾空白会被去掉
	view, err := svc.Add(ctx, repository.SubjectPoem, poem.ID, "alice", "  "+strings.Repeat("诗", MaxCommentLength)+"  ")
	require.NoError(t, err)
	assert.Len(t, []rune(view.Content), MaxCommentLength)

	_, err = svc.Add(ctx, repository.SubjectPoem, "missing", "alice", "hello")
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestCommentListNeverNil(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCommentService(repository.NewCommentRepository(db), nil)
	poem := testutil.Poem(t, db, "empty")

	items, err := svc.List(context.Background(), repository.SubjectPoem, poem.ID, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
