// Package app 把仓储、服务、后台任务和路由装配在一起
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/wordstack/config"
	"github.com/d60-Lab/wordstack/internal/api"
	"github.com/d60-Lab/wordstack/internal/api/handler"
	"github.com/d60-Lab/wordstack/internal/cache"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/internal/service"
	"github.com/d60-Lab/wordstack/pkg/auth"
)

type App struct {
	Router     *gin.Engine
	Cache      *cache.Store
	Reconciler *service.CounterReconciler
	Fanout     *service.FanoutWorker
}

// New rdb 为 nil 时不使用缓存
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	store := cache.New(rdb, cfg.Redis.TTL)

	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	poemRepo := repository.NewPoemRepository(db)
	poetRepo := repository.NewPoetRepository(db)
	themeRepo := repository.NewThemeRepository(db)
	eraRepo := repository.NewEraRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	modernRepo := repository.NewModernPoemRepository(db)
	followRepo := repository.NewFollowRepository(db)

	w := cfg.Workers
	reconciler := service.NewCounterReconciler(likeRepo, w.ReconcileQueueSize, w.ReconcileInterval)
	fanout := service.NewFanoutWorker(db, followRepo, w.FanoutWorkers, w.FanoutBatch, w.FanoutClaim, w.FanoutPoll)

	profiles := service.NewProfileService(profileRepo)
	h := handler.New(handler.Services{
		Like:    service.NewLikeService(likeRepo, store),
		Comment: service.NewCommentService(commentRepo, store),
		Catalog: service.NewCatalogService(poemRepo, poetRepo, themeRepo, eraRepo, likeRepo, commentRepo, store),
		Modern:  service.NewModernPoemService(modernRepo, likeRepo, profileRepo, service.NewPublisher(db), store),
		Follow:  service.NewFollowService(followRepo, profileRepo),
		Profile: profiles,
		Admin:   service.NewAdminService(poemRepo, poetRepo, themeRepo, modernRepo, reconciler, store),
		Sitemap: service.NewSitemapService(cfg.Site.BaseURL, poemRepo, poetRepo, themeRepo, eraRepo),
	})

	router := api.NewRouter(cfg, api.Deps{
		Handler:  h,
		Verifier: auth.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience),
		Admins:   profiles,
	})

	return &App{Router: router, Cache: store, Reconciler: reconciler, Fanout: fanout}
}

// StartWorkers 启动计数校准与扇出；返回的函数按相反顺序停止
func (a *App) StartWorkers(cfg *config.Config) func(context.Context) error {
	stopReconciler := a.Reconciler.Start(cfg.Workers.ReconcileWorkers)
	stopFanout := a.Fanout.Start()
	return func(ctx context.Context) error {
		err := stopFanout(ctx)
		if rerr := stopReconciler(ctx); err == nil {
			err = rerr
		}
		return err
	}
}
