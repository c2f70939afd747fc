package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/wordstack/internal/cache"
	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/repository"
)

// HomePage 首页数据
type HomePage struct {
	Poems  []*model.Poem  `json:"poems"`
	Poets  []*model.Poet  `json:"poets"`
	Themes []*model.Theme `json:"themes"`
}

// PoemDetail 诗歌详情；LikeCount/Liked/CommentCount 实时读取，不进缓存
type PoemDetail struct {
	*model.Poem
	CommentCount int64 `json:"comment_count"`
	Liked        bool  `json:"liked"`
}

type ThemeDetail struct {
	*model.Theme
	Poems []*model.Poem `json:"poems"`
}

// Page 分页列表
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

type CatalogService interface {
	Home(ctx context.Context) (*HomePage, error)
	ListPoets(ctx context.Context, pageNum, pageSize int) (*Page[*model.Poet], error)
	GetPoet(ctx context.Context, slug string) (*model.Poet, error)
	ListPoems(ctx context.Context, filter repository.PoemFilter, pageNum, pageSize int) (*Page[*model.Poem], error)
	GetPoem(ctx context.Context, slug, actorID string) (*PoemDetail, error)
	ListThemes(ctx context.Context) ([]*model.Theme, error)
	GetTheme(ctx context.Context, slug string) (*ThemeDetail, error)
	ListEras(ctx context.Context) ([]*model.LiteraryEra, error)
}

type catalogService struct {
	poems    repository.PoemRepository
	poets    repository.PoetRepository
	themes   repository.ThemeRepository
	eras     repository.EraRepository
	likes    repository.LikeRepository
	comments repository.CommentRepository
	cache    *cache.Store
}

func NewCatalogService(
	poems repository.PoemRepository,
	poets repository.PoetRepository,
	themes repository.ThemeRepository,
	eras repository.EraRepository,
	likes repository.LikeRepository,
	comments repository.CommentRepository,
	store *cache.Store,
) CatalogService {
	return &catalogService{poems: poems, poets: poets, themes: themes, eras: eras, likes: likes, comments: comments, cache: store}
}

// Home 精选诗歌 6 首、诗人 3 位、主题 5 个，并行查询
func (s *catalogService) Home(ctx context.Context) (*HomePage, error) {
	home := &HomePage{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		poems, _, err := s.poems.List(gctx, repository.PoemFilter{PublishedOnly: true}, 0, 6)
		home.Poems = poems
		return err
	})
	g.Go(func() error {
		poets, _, err := s.poets.List(gctx, 0, 3)
		home.Poets = poets
		return err
	})
	g.Go(func() error {
		themes, err := s.themes.List(gctx, 5)
		home.Themes = themes
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeFailure("home", err)
	}
	return home, nil
}

func (s *catalogService) ListPoets(ctx context.Context, pageNum, pageSize int) (*Page[*model.Poet], error) {
	offset, limit := page(pageNum, pageSize, 24, 100)
	poets, total, err := s.poets.List(ctx, offset, limit)
	if err != nil {
		return nil, storeFailure("list poets", err)
	}
	return &Page[*model.Poet]{Items: orEmpty(poets), Total: total, Page: offset/limit + 1, PageSize: limit}, nil
}

func (s *catalogService) GetPoet(ctx context.Context, slug string) (*model.Poet, error) {
	poet, err := s.poets.GetBySlug(ctx, slug)
	return poet, storeFailure("get poet", err)
}

func (s *catalogService) ListPoems(ctx context.Context, filter repository.PoemFilter, pageNum, pageSize int) (*Page[*model.Poem], error) {
	filter.PublishedOnly = true
	offset, limit := page(pageNum, pageSize, 24, 100)
	poems, total, err := s.poems.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, storeFailure("list poems", err)
	}
	return &Page[*model.Poem]{Items: orEmpty(poems), Total: total, Page: offset/limit + 1, PageSize: limit}, nil
}

// GetPoem 诗歌正文按 slug 缓存；点赞数、是否已赞、评论数每次实时读取
func (s *catalogService) GetPoem(ctx context.Context, slug, actorID string) (*PoemDetail, error) {
	var poem model.Poem
	if !s.cache.Poem(ctx, slug, &poem) {
		p, err := s.poems.GetBySlug(ctx, slug, true)
		if err != nil {
			return nil, storeFailure("get poem", err)
		}
		poem = *p
		s.cache.SetPoem(ctx, slug, &poem)
	}

	detail := &PoemDetail{Poem: &poem}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.likes.Counter(gctx, repository.SubjectPoem, poem.ID)
		detail.LikeCount = count
		return err
	})
	g.Go(func() error {
		count, err := s.comments.Count(gctx, repository.SubjectPoem, poem.ID)
		detail.CommentCount = count
		return err
	})
	if actorID != "" {
		g.Go(func() error {
			liked, err := s.likes.Exists(gctx, repository.SubjectPoem, poem.ID, actorID)
			detail.Liked = liked
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeFailure("poem engagement", err)
	}
	return detail, nil
}

func (s *catalogService) ListThemes(ctx context.Context) ([]*model.Theme, error) {
	themes, err := s.themes.List(ctx, 0)
	if err != nil {
		return nil, storeFailure("list themes", err)
	}
	return orEmpty(themes), nil
}

func (s *catalogService) GetTheme(ctx context.Context, slug string) (*ThemeDetail, error) {
	theme, err := s.themes.GetBySlug(ctx, slug)
	if err != nil {
		return nil, storeFailure("get theme", err)
	}
	poems, _, err := s.poems.List(ctx, repository.PoemFilter{ThemeSlug: slug, PublishedOnly: true}, 0, 200)
	if err != nil {
		return nil, storeFailure("theme poems", err)
	}
	return &ThemeDetail{Theme: theme, Poems: orEmpty(poems)}, nil
}

func (s *catalogService) ListEras(ctx context.Context) ([]*model.LiteraryEra, error) {
	eras, err := s.eras.ListWithPoets(ctx)
	if err != nil {
		return nil, storeFailure("list eras", err)
	}
	return orEmpty(eras), nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
