package repository

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/testutil"
)

func TestToggleScenario(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()
	poem := testutil.Poem(t, db, "daffodils")

	res, err := repo.Toggle(ctx, SubjectPoem, poem.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Liked: true, Count: 1}, res)

	res, err = repo.Toggle(ctx, SubjectPoem, poem.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Liked: false, Count: 0}, res)

	res, err = repo.Toggle(ctx, SubjectPoem, poem.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Liked: true, Count: 1}, res)

	var stored model.Poem
	require.NoError(t, db.First(&stored, "id = ?", poem.ID).Error)
	assert.EqualValues(t, 1, stored.LikeCount)
}

// 删除未命中后、插入前另一请求已写入同一关系：插入冲突，结果仍是已点赞
func TestToggleInsertConflictCountsAsLiked(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()
	poem := testutil.Poem(t, db, "ozymandias")
	tables, err := tablesOf(SubjectPoem)
	require.NoError(t, err)

	raced := false
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("test:concurrent_like", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != tables.likes || tx.Error != nil {
			return
		}
		raced = true
		_ = tx.AddError(tx.Session(&gorm.Session{NewDB: true}).Create(tables.newLike(poem.ID, "alice")).Error)
	}))

	res, err := repo.Toggle(ctx, SubjectPoem, poem.ID, "alice")
	require.NoError(t, err)
	assert.True(t, raced)
	assert.Equal(t, ToggleResult{Liked: true, Count: 1}, res)

	count, err := repo.Count(ctx, SubjectPoem, poem.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	counter, err := repo.Counter(ctx, SubjectPoem, poem.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counter)
}

func TestToggleTwiceRestoresState(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()
	author := testutil.Profile(t, db, "writer", false)
	poem := testutil.ModernPoem(t, db, author.ID)

	_, err := repo.Toggle(ctx, SubjectModernPoem, poem.ID, "bob")
	require.NoError(t, err)

	before, err := repo.Counter(ctx, SubjectModernPoem, poem.ID)
	require.NoError(t, err)
	liked, err := repo.Exists(ctx, SubjectModernPoem, poem.ID, "alice")
	require.NoError(t, err)
	require.False(t, liked)

	for i := 0; i < 2; i++ {
		_, err := repo.Toggle(ctx, SubjectModernPoem, poem.ID, "alice")
		require.NoError(t, err)
	}

	after, err := repo.Counter(ctx, SubjectModernPoem, poem.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	liked, err = repo.Exists(ctx, SubjectModernPoem, poem.ID, "alice")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestToggleUnknownSubject(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	_, err := repo.Toggle(ctx, SubjectPoem, "missing", "alice")
	assert.ErrorIs(t, err, ErrSubjectNotFound)

	var n int64
	require.NoError(t, db.Model(&model.PoemLike{}).Count(&n).Error)
	assert.Zero(t, n)

	_, err = repo.Toggle(ctx, SubjectKind("essay"), "x", "alice")
	assert.ErrorIs(t, err, ErrUnknownSubjectKind)
}

func TestToggleAtMostOneRelation(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	poem := testutil.Poem(t, db, "ode")

	// 直接重复插入应被唯一键拒绝
	require.NoError(t, db.Create(&model.PoemLike{ID: "l1", PoemID: poem.ID, UserID: "alice"}).Error)
	assert.Error(t, db.Create(&model.PoemLike{ID: "l2", PoemID: poem.ID, UserID: "alice"}).Error)

	res, err := repo.Toggle(context.Background(), SubjectPoem, poem.ID, "alice")
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Zero(t, res.Count)
}

func TestConcurrentTogglesKeepCounterExact(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	poems := []string{testutil.Poem(t, db, "a").ID, testutil.Poem(t, db, "b").ID}
	actors := []string{"u1", "u2", "u3", "u4", "u5"}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for i := 0; i < 25; i++ {
				_, err := repo.Toggle(ctx, SubjectPoem, poems[rnd.Intn(len(poems))], actors[rnd.Intn(len(actors))])
				assert.NoError(t, err)
			}
		}(int64(w))
	}
	wg.Wait()

	for _, id := range poems {
		counter, err := repo.Counter(ctx, SubjectPoem, id)
		require.NoError(t, err)
		count, err := repo.Count(ctx, SubjectPoem, id)
		require.NoError(t, err)
		assert.Equal(t, count, counter, "poem %s", id)
	}
}

func TestDriftedAndRecount(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()
	poem := testutil.Poem(t, db, "drift")
	clean := testutil.Poem(t, db, "clean")

	_, err := repo.Toggle(ctx, SubjectPoem, poem.ID, "alice")
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.Poem{}).Where("id = ?", poem.ID).Update("like_count", 42).Error)

	ids, err := repo.Drifted(ctx, SubjectPoem, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{poem.ID}, ids)
	assert.NotContains(t, ids, clean.ID)

	n, err := repo.Recount(ctx, SubjectPoem, poem.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ids, err = repo.Drifted(ctx, SubjectPoem, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLikedAmongAndListByActor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		p := testutil.Poem(t, db, fmt.Sprintf("p%d", i))
		ids = append(ids, p.ID)
	}
	for _, id := range ids[:2] {
		_, err := repo.Toggle(ctx, SubjectPoem, id, "alice")
		require.NoError(t, err)
	}

	liked, err := repo.LikedAmong(ctx, SubjectPoem, "alice", ids)
	require.NoError(t, err)
	assert.True(t, liked[ids[0]])
	assert.True(t, liked[ids[1]])
	assert.False(t, liked[ids[2]])

	anon, err := repo.LikedAmong(ctx, SubjectPoem, "", ids)
	require.NoError(t, err)
	assert.Empty(t, anon)

	mine, err := repo.ListByActor(ctx, SubjectPoem, "alice", 0, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids[:2], mine)
}

func TestParseSubjectKind(t *testing.T) {
	k, err := ParseSubjectKind("")
	require.NoError(t, err)
	assert.Equal(t, SubjectPoem, k)

	k, err = ParseSubjectKind("modern_poem")
	require.NoError(t, err)
	assert.Equal(t, SubjectModernPoem, k)

	_, err = ParseSubjectKind("essay")
	assert.ErrorIs(t, err, ErrUnknownSubjectKind)
}
