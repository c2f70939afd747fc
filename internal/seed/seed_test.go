package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/testutil"
)

func TestRunIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	first, err := Run(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, Summary{Eras: 3, Poets: 3, Themes: 5, Poems: 3, Links: 4}, first)

	second, err := Run(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, second)

	var poem model.Poem
	require.NoError(t, db.Preload("Poet").Preload("Themes").First(&poem, "slug = ?", "i-wandered-lonely-as-a-cloud").Error)
	require.NotNil(t, poem.Poet)
	assert.Equal(t, "William Wordsworth", poem.Poet.Name)
	assert.Len(t, poem.Themes, 2)
	assert.True(t, poem.IsPublished)
}

func TestAdminPromotes(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	p := testutil.Profile(t, db, "keeper", false)

	require.NoError(t, Admin(ctx, db, p.ID, "keeper"))
	require.NoError(t, Admin(ctx, db, "new-admin", "root"))

	var profiles []model.Profile
	require.NoError(t, db.Where("is_admin = ?", true).Order("username").Find(&profiles).Error)
	require.Len(t, profiles, 2)
	assert.Equal(t, "keeper", profiles[0].Username)
}
