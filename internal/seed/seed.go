// Package seed 初始内容：文学时期、诗人、主题、诗歌及其主题关联。按 slug 幂等，可重复执行。
package seed

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/pkg/logger"
)

func intPtr(v int) *int { return &v }

var eras = []model.LiteraryEra{
	{Name: "Romantic Era", Slug: "romantic-era", Description: "The Romantic movement emphasized emotion, nature, and individualism", StartYear: intPtr(1800), EndYear: intPtr(1850)},
	{Name: "Victorian Era", Slug: "victorian-era", Description: "The Victorian era was marked by optimism and social progress", StartYear: intPtr(1837), EndYear: intPtr(1901)},
	{Name: "Modernist Era", Slug: "modernist-era", Description: "Modernism broke with traditional forms and experimented with new styles", StartYear: intPtr(1890), EndYear: intPtr(1945)},
}

type poetSeed struct {
	poet model.Poet
	era  string
}

var poets = []poetSeed{
	{era: "romantic-era", poet: model.Poet{
		Name: "William Wordsworth", Slug: "william-wordsworth", BirthYear: intPtr(1770), DeathYear: intPtr(1850), Nationality: "British",
		Bio: "William Wordsworth was a major English Romantic poet who helped launch the Romantic Age in English literature with the 1798 publication of Lyrical Ballads.",
	}},
	{era: "victorian-era", poet: model.Poet{
		Name: "Emily Dickinson", Slug: "emily-dickinson", BirthYear: intPtr(1830), DeathYear: intPtr(1886), Nationality: "American",
		Bio: "Emily Dickinson was an American poet who lived a largely reclusive life and wrote about themes of death, immortality, and love.",
	}},
	{era: "victorian-era", poet: model.Poet{
		Name: "Edgar Allan Poe", Slug: "edgar-allan-poe", BirthYear: intPtr(1809), DeathYear: intPtr(1849), Nationality: "American",
		Bio: "Edgar Poe was an American writer, poet, editor, and literary critic, considered part of the American Romantic movement. His detective fiction is regarded as a precursor of the modern detective story.",
	}},
}

var themes = []model.Theme{
	{Name: "Love", Slug: "love", Description: "Poems exploring themes of love and romance"},
	{Name: "Nature", Slug: "nature", Description: "Poems celebrating the natural world"},
	{Name: "Death", Slug: "death", Description: "Poems contemplating mortality and loss"},
	{Name: "Solitude", Slug: "solitude", Description: "Poems about loneliness and isolation"},
	{Name: "Hope", Slug: "hope", Description: "Poems expressing optimism and aspiration"},
}

type poemSeed struct {
	poem   model.Poem
	poet   string
	themes []string
}

var poems = []poemSeed{
	{poet: "emily-dickinson", themes: []string{"hope"}, poem: model.Poem{
		Title: "Hope is the thing with feathers", Slug: "hope-is-the-thing-with-feathers",
		Text:            "\"Hope\" is the thing with feathers -\nThat perches in the soul -\nAnd sings the tune without the words -\nAnd never stops - at all -",
		Summary:         "A short, powerful poem about hope as an enduring force within the human spirit.",
		Intro:           "Emily Dickinson's \"Hope is the thing with feathers\" is one of her most famous poems, using bird imagery to represent hope.",
		MetaTitle:       "Hope is the thing with feathers - Emily Dickinson",
		MetaDescription: "Read the full text of Emily Dickinson's \"Hope is the thing with feathers\" with analysis and meaning.",
		WordCount:       25, LineCount: 4,
	}},
	{poet: "edgar-allan-poe", themes: []string{"death"}, poem: model.Poem{
		Title: "The Raven", Slug: "the-raven",
		Text:            "Once upon a midnight dreary, as I pondered, weak and weary,\nOver many a quaint and curious volume of forgotten lore,\nWhile I nodded, napping suddenly, there came a tapping, gently rapping,\n\"Sir or Madam,\" came a rapping, \"at your chamber door.",
		Summary:         "The Raven is a narrative poem about a grieving man visited by a mysterious raven that only speaks one word: \"Nevermore.\"",
		Intro:           "Published in 1845, \"The Raven\" by Edgar Allan Poe is one of the most famous American poems, known for its musical rhythm and dark atmosphere.",
		MetaTitle:       "The Raven - Edgar Allan Poe | Full Poem & Analysis",
		MetaDescription: "Read the complete text of \"The Raven\" by Edgar Allan Poe with summary, themes, and literary analysis.",
		WordCount:       1000, LineCount: 108,
	}},
	{poet: "william-wordsworth", themes: []string{"nature", "solitude"}, poem: model.Poem{
		Title: "I Wandered Lonely as a Cloud", Slug: "i-wandered-lonely-as-a-cloud",
		Text:            "I wandered lonely as a cloud\nThat floats on high o'er vales and hills,\nWhen all at once I saw a crowd,\nA host, of golden daffodils;",
		Summary:         "Wordsworth's famous poem about encountering a field of daffodils and the emotional impact of nature's beauty.",
		Intro:           "Also known as \"Daffodils,\" this poem describes the poet's encounter with a field of golden daffodils and reflects on the lasting joy this memory brings.",
		MetaTitle:       "I Wandered Lonely as a Cloud - William Wordsworth",
		MetaDescription: "Read the full text of Wordsworth's \"I Wandered Lonely as a Cloud\" (Daffodils) with analysis and meaning.",
		WordCount:       160, LineCount: 16,
	}},
}

// Summary 本次新写入的行数
type Summary struct {
	Eras, Poets, Themes, Poems, Links int
}

// Run 在一个事务内写入初始内容；已存在的 slug 会被跳过
func Run(ctx context.Context, db *gorm.DB) (Summary, error) {
	var sum Summary
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		eraIDs := map[string]string{}
		for _, e := range eras {
			e.ID, e.CreatedAt = uuid.NewString(), now
			created, id, err := ensure(tx, "literary_eras", e.Slug, &e, e.ID)
			if err != nil {
				return err
			}
			eraIDs[e.Slug] = id
			sum.Eras += created
		}

		poetIDs := map[string]string{}
		for _, s := range poets {
			p := s.poet
			p.ID, p.CreatedAt, p.UpdatedAt = uuid.NewString(), now, now
			if id, ok := eraIDs[s.era]; ok {
				p.EraID = &id
			}
			created, id, err := ensure(tx, "poets", p.Slug, &p, p.ID)
			if err != nil {
				return err
			}
			poetIDs[p.Slug] = id
			sum.Poets += created
		}

		themeIDs := map[string]string{}
		for _, t := range themes {
			t.ID, t.CreatedAt = uuid.NewString(), now
			created, id, err := ensure(tx, "themes", t.Slug, &t, t.ID)
			if err != nil {
				return err
			}
			themeIDs[t.Slug] = id
			sum.Themes += created
		}

		for _, s := range poems {
			p := s.poem
			p.ID, p.CreatedAt, p.UpdatedAt = uuid.NewString(), now, now
			p.IsClassic, p.IsPublished = true, true
			if id, ok := poetIDs[s.poet]; ok {
				p.PoetID = &id
			}
			created, id, err := ensure(tx, "poems", p.Slug, &p, p.ID)
			if err != nil {
				return err
			}
			sum.Poems += created
			for _, slug := range s.themes {
				link := model.PoemTheme{PoemID: id, ThemeID: themeIDs[slug]}
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link)
				if res.Error != nil {
					return errors.Wrap(res.Error, "link poem theme")
				}
				sum.Links += int(res.RowsAffected)
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	logger.Info("seed complete",
		zap.Int("eras", sum.Eras), zap.Int("poets", sum.Poets),
		zap.Int("themes", sum.Themes), zap.Int("poems", sum.Poems), zap.Int("links", sum.Links))
	return sum, nil
}

// ensure 按 slug 查找，不存在则插入；返回 (是否新建, 行 ID)
func ensure(tx *gorm.DB, table, slug string, row interface{}, newID string) (int, string, error) {
	var ids []string
	if err := tx.Table(table).Where("slug = ?", slug).Limit(1).Pluck("id", &ids).Error; err != nil {
		return 0, "", errors.Wrapf(err, "lookup %s %s", table, slug)
	}
	if len(ids) == 1 {
		return 0, ids[0], nil
	}
	if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
		return 0, "", errors.Wrapf(err, "insert %s %s", table, slug)
	}
	return 1, newID, nil
}

// Admin 创建或提升管理员资料
func Admin(ctx context.Context, db *gorm.DB, userID, username string) error {
	now := time.Now()
	p := model.Profile{ID: userID, Username: username, IsAdmin: true, CreatedAt: now, UpdatedAt: now}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_admin": true, "updated_at": now}),
	}).Create(&p).Error
	return errors.Wrap(err, "seed admin")
}
