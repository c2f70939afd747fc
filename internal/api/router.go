package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	sentrygin "github.com/getsentry/sentry-go/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/wordstack/config"
	_ "github.com/d60-Lab/wordstack/docs"
	"github.com/d60-Lab/wordstack/internal/api/handler"
	"github.com/d60-Lab/wordstack/internal/api/middleware"
	"github.com/d60-Lab/wordstack/pkg/auth"
)

// Deps 路由依赖
type Deps struct {
	Handler  *handler.Handler
	Verifier *auth.Verifier
	Admins   middleware.AdminChecker
}

// NewRouter 组装中间件与路由
func NewRouter(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true, Timeout: 2 * time.Second}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(cors.New(corsConfig(cfg.Server.AllowOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	h := d.Handler
	optional := middleware.Auth(d.Verifier, cfg.JWT.CookieName, false)
	required := middleware.Auth(d.Verifier, cfg.JWT.CookieName, true)
	limit := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Handler()

	// 访问日志放在 auth 之后才能带上 actor
	r.Use(optional, middleware.AccessLog())

	r.GET("/health", h.Health)
	r.GET("/sitemap.xml", h.Sitemap)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 未登录由处理器返回 401，保证匿名请求不触碰存储
	r.POST("/like-toggle", limit, h.ToggleLike)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/home", h.Home)
		v1.GET("/poets", h.ListPoets)
		v1.GET("/poets/:slug", h.GetPoet)
		v1.GET("/poems", h.ListPoems)
		v1.GET("/poems/:id", h.GetPoem)
		v1.GET("/poems/:id/like", h.LikeStatus)
		v1.POST("/poems/:id/like", required, limit, h.LikePoem)
		v1.GET("/poems/:id/comments", h.ListPoemComments)
		v1.POST("/poems/:id/comments", required, limit, h.AddPoemComment)
		v1.GET("/themes", h.ListThemes)
		v1.GET("/themes/:slug", h.GetTheme)
		v1.GET("/eras", h.ListEras)

		v1.GET("/modern-poems", h.ModernFeed)
		v1.POST("/modern-poems", required, limit, h.SubmitModernPoem)
		v1.GET("/modern-poems/:id", h.GetModernPoem)
		v1.DELETE("/modern-poems/:id", required, h.DeleteModernPoem)
		v1.POST("/modern-poems/:id/like", required, limit, h.LikeModernPoem)
		v1.GET("/modern-poems/:id/comments", h.ListModernComments)
		v1.POST("/modern-poems/:id/comments", required, limit, h.AddModernComment)

		v1.POST("/follows/:user_id", required, limit, h.Follow)
		v1.DELETE("/follows/:user_id", required, h.Unfollow)
		v1.GET("/users/:user_id/following", h.ListFollowing)
		v1.GET("/users/:user_id/followers", h.ListFollowers)
		v1.GET("/users/:user_id/modern-poems", h.UserModernPoems)

		me := v1.Group("/me", required)
		{
			me.GET("", h.Me)
			me.PUT("", h.UpdateMe)
			me.GET("/likes", h.MyLikes)
		}

		admin := v1.Group("/admin", required, middleware.RequireAdmin(d.Admins))
		{
			admin.GET("/dashboard", h.AdminDashboard)
			admin.GET("/poems", h.AdminListPoems)
			admin.POST("/poems", h.AdminCreatePoem)
			admin.GET("/poems/:id", h.AdminGetPoem)
			admin.PUT("/poems/:id", h.AdminUpdatePoem)
			admin.DELETE("/poems/:id", h.AdminDeletePoem)
			admin.GET("/poets", h.AdminListPoets)
			admin.POST("/poets", h.AdminCreatePoet)
			admin.GET("/poets/:id", h.AdminGetPoet)
			admin.PUT("/poets/:id", h.AdminUpdatePoet)
			admin.DELETE("/poets/:id", h.AdminDeletePoet)
			admin.GET("/modern-poems", h.AdminListModern)
			admin.DELETE("/modern-poems/:id", h.AdminDeleteModern)
			admin.POST("/reconcile", h.AdminReconcile)
		}
	}
	return r
}

// corsConfig 未配置来源时放开所有来源，但不携带 cookie
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
