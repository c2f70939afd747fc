package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/wordstack/internal/cache"
	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/pkg/logger"
)

// Dashboard 管理后台计数
type Dashboard struct {
	Poems       int64 `json:"poems"`
	Poets       int64 `json:"poets"`
	ModernPoems int64 `json:"modern_poems"`
}

// PoemInput 管理端诗歌表单；Slug 为空时由标题生成，字数/行数为空时由正文计算
type PoemInput struct {
	Title           string   `json:"title" validate:"required,max=255"`
	Slug            string   `json:"slug" validate:"max=300"`
	PoetID          *string  `json:"poet_id" validate:"omitempty,uuid"`
	Text            string   `json:"text" validate:"required"`
	Summary         string   `json:"summary"`
	Intro           string   `json:"intro"`
	MetaTitle       string   `json:"meta_title" validate:"max=255"`
	MetaDescription string   `json:"meta_description" validate:"max=512"`
	WordCount       *int     `json:"word_count" validate:"omitempty,min=0"`
	LineCount       *int     `json:"line_count" validate:"omitempty,min=0"`
	IsClassic       *bool    `json:"is_classic"`
	IsPublished     *bool    `json:"is_published"`
	ThemeIDs        []string `json:"theme_ids" validate:"omitempty,dive,uuid"`
}

// PoetInput 管理端诗人表单
type PoetInput struct {
	Name        string  `json:"name" validate:"required,max=160"`
	Slug        string  `json:"slug" validate:"max=200"`
	Bio         string  `json:"bio"`
	BirthYear   *int    `json:"birth_year"`
	DeathYear   *int    `json:"death_year"`
	Nationality string  `json:"nationality" validate:"max=64"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url,max=512"`
	EraID       *string `json:"era_id" validate:"omitempty,uuid"`
}

// ReconcileRequest 不带 subject 时触发全量扫描
type ReconcileRequest struct {
	SubjectType string `json:"subjectType"`
	SubjectID   string `json:"subjectId"`
}

type AdminService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)

	ListPoems(ctx context.Context, pageNum, pageSize int) (*Page[*model.Poem], error)
	GetPoem(ctx context.Context, id string) (*model.Poem, error)
	CreatePoem(ctx context.Context, in PoemInput) (*model.Poem, error)
	UpdatePoem(ctx context.Context, id string, in PoemInput) (*model.Poem, error)
	DeletePoem(ctx context.Context, id string) error

	ListPoets(ctx context.Context, pageNum, pageSize int) (*Page[*model.Poet], error)
	GetPoet(ctx context.Context, id string) (*model.Poet, error)
	CreatePoet(ctx context.Context, in PoetInput) (*model.Poet, error)
	UpdatePoet(ctx context.Context, id string, in PoetInput) (*model.Poet, error)
	DeletePoet(ctx context.Context, id string) error

	ListModernPoems(ctx context.Context, pageNum, pageSize int) ([]*model.ModernPoem, error)
	DeleteModernPoem(ctx context.Context, id string) error

	Reconcile(ctx context.Context, req ReconcileRequest) error
}

type adminService struct {
	poems      repository.PoemRepository
	poets      repository.PoetRepository
	themes     repository.ThemeRepository
	modern     repository.ModernPoemRepository
	reconciler *CounterReconciler
	cache      *cache.Store
}

func NewAdminService(
	poems repository.PoemRepository,
	poets repository.PoetRepository,
	themes repository.ThemeRepository,
	modern repository.ModernPoemRepository,
	reconciler *CounterReconciler,
	store *cache.Store,
) AdminService {
	return &adminService{poems: poems, poets: poets, themes: themes, modern: modern, reconciler: reconciler, cache: store}
}

func (s *adminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { d.Poems, err = s.poems.Count(gctx); return })
	g.Go(func() (err error) { d.Poets, err = s.poets.Count(gctx); return })
	g.Go(func() (err error) { d.ModernPoems, err = s.modern.Count(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, storeFailure("dashboard", err)
	}
	return d, nil
}

func (s *adminService) ListPoems(ctx context.Context, pageNum, pageSize int) (*Page[*model.Poem], error) {
	offset, limit := page(pageNum, pageSize, 50, 200)
	poems, total, err := s.poems.List(ctx, repository.PoemFilter{}, offset, limit)
	if err != nil {
		return nil, storeFailure("admin list poems", err)
	}
	return &Page[*model.Poem]{Items: orEmpty(poems), Total: total, Page: offset/limit + 1, PageSize: limit}, nil
}

func (s *adminService) GetPoem(ctx context.Context, id string) (*model.Poem, error) {
	poem, err := s.poems.GetByID(ctx, id)
	return poem, storeFailure("admin get poem", err)
}

func (s *adminService) CreatePoem(ctx context.Context, in PoemInput) (*model.Poem, error) {
	poem := &model.Poem{ID: uuid.NewString(), IsClassic: true, IsPublished: true}
	if err := s.applyPoem(ctx, poem, &in); err != nil {
		return nil, err
	}
	if err := s.poems.Create(ctx, poem, in.ThemeIDs); err != nil {
		return nil, storeFailure("create poem", err)
	}
	logger.Info("poem created", zap.String("poem", poem.ID), zap.String("slug", poem.Slug))
	return s.GetPoem(ctx, poem.ID)
}

func (s *adminService) UpdatePoem(ctx context.Context, id string, in PoemInput) (*model.Poem, error) {
	current, err := s.poems.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure("admin get poem", err)
	}
	poem := *current
	poem.Poet, poem.Themes = nil, nil
	if in.IsClassic == nil {
		in.IsClassic = &current.IsClassic
	}
	if in.IsPublished == nil {
		in.IsPublished = &current.IsPublished
	}
	if err := s.applyPoem(ctx, &poem, &in); err != nil {
		return nil, err
	}
	if err := s.poems.Update(ctx, &poem, in.ThemeIDs); err != nil {
		return nil, storeFailure("update poem", err)
	}
	s.cache.InvalidatePoem(ctx, current.Slug, poem.Slug)
	logger.Info("poem updated", zap.String("poem", id))
	return s.GetPoem(ctx, id)
}

func (s *adminService) DeletePoem(ctx context.Context, id string) error {
	current, err := s.poems.GetByID(ctx, id)
	if err != nil {
		return storeFailure("admin get poem", err)
	}
	if err := s.poems.Delete(ctx, id); err != nil {
		return storeFailure("delete poem", err)
	}
	s.cache.InvalidatePoem(ctx, current.Slug)
	logger.Info("poem deleted", zap.String("poem", id))
	return nil
}

// applyPoem 校验表单并写入 poem；like_count 不经表单修改
func (s *adminService) applyPoem(ctx context.Context, poem *model.Poem, in *PoemInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := validateStruct(in); err != nil {
		return err
	}
	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Title)
	} else {
		slug = Slugify(slug)
	}
	if slug == "" {
		return invalid("slug", "cannot be derived from title")
	}
	taken, err := s.poems.SlugExists(ctx, slug, poem.ID)
	if err != nil {
		return storeFailure("check slug", err)
	}
	if taken {
		return ErrSlugTaken
	}
	if err := s.checkThemes(ctx, in.ThemeIDs); err != nil {
		return err
	}
	if in.PoetID != nil && *in.PoetID == "" {
		in.PoetID = nil
	}
	if in.PoetID != nil {
		if _, err := s.poets.GetByID(ctx, *in.PoetID); err != nil {
			err = storeFailure("check poet", err)
			if errors.Is(err, ErrNotFound) {
				return invalid("poet_id", "unknown poet")
			}
			return err
		}
	}

	poem.Title = in.Title
	poem.Slug = slug
	poem.PoetID = in.PoetID
	poem.Text = in.Text
	poem.Summary = in.Summary
	poem.Intro = in.Intro
	poem.MetaTitle = in.MetaTitle
	poem.MetaDescription = in.MetaDescription
	poem.WordCount = CountWords(in.Text)
	if in.WordCount != nil {
		poem.WordCount = *in.WordCount
	}
	poem.LineCount = CountLines(in.Text)
	if in.LineCount != nil {
		poem.LineCount = *in.LineCount
	}
	if in.IsClassic != nil {
		poem.IsClassic = *in.IsClassic
	}
	if in.IsPublished != nil {
		poem.IsPublished = *in.IsPublished
	}
	return nil
}

func (s *adminService) checkThemes(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.themes.ExistingIDs(ctx, ids)
	if err != nil {
		return storeFailure("check themes", err)
	}
	known := make(map[string]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return invalid("theme_ids", "unknown theme "+id)
		}
	}
	return nil
}

func (s *adminService) ListPoets(ctx context.Context, pageNum, pageSize int) (*Page[*model.Poet], error) {
	offset, limit := page(pageNum, pageSize, 50, 200)
	poets, total, err := s.poets.List(ctx, offset, limit)
	if err != nil {
		return nil, storeFailure("admin list poets", err)
	}
	return &Page[*model.Poet]{Items: orEmpty(poets), Total: total, Page: offset/limit + 1, PageSize: limit}, nil
}

func (s *adminService) GetPoet(ctx context.Context, id string) (*model.Poet, error) {
	poet, err := s.poets.GetByID(ctx, id)
	return poet, storeFailure("admin get poet", err)
}

func (s *adminService) CreatePoet(ctx context.Context, in PoetInput) (*model.Poet, error) {
	poet := &model.Poet{ID: uuid.NewString()}
	if err := s.applyPoet(ctx, poet, &in); err != nil {
		return nil, err
	}
	if err := s.poets.Create(ctx, poet); err != nil {
		return nil, storeFailure("create poet", err)
	}
	logger.Info("poet created", zap.String("poet", poet.ID), zap.String("slug", poet.Slug))
	return poet, nil
}

func (s *adminService) UpdatePoet(ctx context.Context, id string, in PoetInput) (*model.Poet, error) {
	current, err := s.poets.GetByID(ctx, id)
	if err != nil {
		return nil, storeFailure("admin get poet", err)
	}
	poet := *current
	if err := s.applyPoet(ctx, &poet, &in); err != nil {
		return nil, err
	}
	if err := s.poets.Update(ctx, &poet); err != nil {
		return nil, storeFailure("update poet", err)
	}
	// 诗歌详情缓存内嵌诗人信息
	slugs, err := s.poets.PoemSlugs(ctx, id)
	if err != nil {
		return nil, storeFailure("list poet poems", err)
	}
	s.cache.InvalidatePoem(ctx, slugs...)
	logger.Info("poet updated", zap.String("poet", id))
	return s.GetPoet(ctx, id)
}

func (s *adminService) DeletePoet(ctx context.Context, id string) error {
	slugs, err := s.poets.Delete(ctx, id)
	if err != nil {
		return storeFailure("delete poet", err)
	}
	s.cache.InvalidatePoem(ctx, slugs...)
	logger.Info("poet deleted", zap.String("poet", id), zap.Int("poems_detached", len(slugs)))
	return nil
}

func (s *adminService) applyPoet(ctx context.Context, poet *model.Poet, in *PoetInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.BirthYear != nil && in.DeathYear != nil && *in.DeathYear < *in.BirthYear {
		return invalid("death_year", "must not be before birth_year")
	}
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(in.Name)
	}
	if slug == "" {
		return invalid("slug", "cannot be derived from name")
	}
	taken, err := s.poets.SlugExists(ctx, slug, poet.ID)
	if err != nil {
		return storeFailure("check slug", err)
	}
	if taken {
		return ErrSlugTaken
	}
	if in.EraID != nil && *in.EraID == "" {
		in.EraID = nil
	}

	poet.Name = in.Name
	poet.Slug = slug
	poet.Bio = in.Bio
	poet.BirthYear = in.BirthYear
	poet.DeathYear = in.DeathYear
	poet.Nationality = in.Nationality
	poet.ImageURL = in.ImageURL
	poet.EraID = in.EraID
	poet.Era, poet.Poems = nil, nil
	return nil
}

func (s *adminService) ListModernPoems(ctx context.Context, pageNum, pageSize int) ([]*model.ModernPoem, error) {
	offset, limit := page(pageNum, pageSize, 50, 200)
	poems, err := s.modern.ListRecent(ctx, offset, limit)
	if err != nil {
		return nil, storeFailure("admin list modern poems", err)
	}
	return orEmpty(poems), nil
}

func (s *adminService) DeleteModernPoem(ctx context.Context, id string) error {
	if err := s.modern.Delete(ctx, id); err != nil {
		return storeFailure("admin delete modern poem", err)
	}
	s.cache.InvalidateRecentFeed(ctx)
	logger.Info("modern poem removed by admin", zap.String("poem", id))
	return nil
}

func (s *adminService) Reconcile(ctx context.Context, req ReconcileRequest) error {
	if req.SubjectID == "" {
		s.reconciler.TriggerSweep()
		return nil
	}
	kind, err := repository.ParseSubjectKind(req.SubjectType)
	if err != nil {
		return invalid("subjectType", "unknown subject type")
	}
	if !s.reconciler.Enqueue(kind, req.SubjectID) {
		return storeFailure("enqueue reconcile", errors.New("reconcile queue full"))
	}
	return nil
}
