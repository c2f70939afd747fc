package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/testutil"
)

func TestCommentCreateAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	poem := testutil.Poem(t, db, "tyger")
	alice := testutil.Profile(t, db, "alice", false)

	first, err := repo.Create(ctx, SubjectPoem, poem.ID, alice.ID, "burning bright")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.AuthorName)

	// 没有资料的用户回退为 Anonymous
	time.Sleep(5 * time.Millisecond)
	second, err := repo.Create(ctx, SubjectPoem, poem.ID, "ghost", "in the forests")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", second.AuthorName)

	list, err := repo.List(ctx, SubjectPoem, poem.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	n, err := repo.Count(ctx, SubjectPoem, poem.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCommentRecountsModernCounter(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	author := testutil.Profile(t, db, "writer", false)
	poem := testutil.ModernPoem(t, db, author.ID)

	for _, body := range []string{"one", "two", "three"} {
		_, err := repo.Create(ctx, SubjectModernPoem, poem.ID, author.ID, body)
		require.NoError(t, err)
	}

	var stored model.ModernPoem
	require.NoError(t, db.First(&stored, "id = ?", poem.ID).Error)
	assert.EqualValues(t, 3, stored.CommentsCount)
}

func TestCommentMissingSubject(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)

	_, err := repo.Create(context.Background(), SubjectPoem, "nope", "alice", "hello")
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}
