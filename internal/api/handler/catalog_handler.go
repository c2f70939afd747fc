package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/wordstack/internal/api/middleware"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/pkg/response"
)

// Home 首页
// @Summary 首页精选（诗歌、诗人、主题）
// @Tags 内容
// @Produce json
// @Success 200 {object} response.Response{data=service.HomePage}
// @Router /api/v1/home [get]
func (h *Handler) Home(c *gin.Context) {
	home, err := h.catalogService.Home(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, home)
}

// ListPoets 诗人列表
// @Summary 诗人列表
// @Tags 内容
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(24)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/poets [get]
func (h *Handler) ListPoets(c *gin.Context) {
	page, pageSize := pagination(c, 24)
	res, err := h.catalogService.ListPoets(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// GetPoet 诗人详情
// @Summary 诗人详情（含时期与已发布作品）
// @Tags 内容
// @Produce json
// @Param slug path string true "诗人 slug"
// @Success 200 {object} response.Response{data=model.Poet}
// @Failure 404 {object} response.Response
// @Router /api/v1/poets/{slug} [get]
func (h *Handler) GetPoet(c *gin.Context) {
	poet, err := h.catalogService.GetPoet(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, poet)
}

// ListPoems 诗歌列表
// @Summary 诗歌列表（可按主题、诗人筛选）
// @Tags 内容
// @Produce json
// @Param theme query string false "主题 slug"
// @Param poet query string false "诗人 slug"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(24)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/poems [get]
func (h *Handler) ListPoems(c *gin.Context) {
	page, pageSize := pagination(c, 24)
	filter := repository.PoemFilter{ThemeSlug: c.Query("theme"), PoetSlug: c.Query("poet")}
	res, err := h.catalogService.ListPoems(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// GetPoem 诗歌详情
// @Summary 诗歌详情（点赞数、评论数、当前用户是否已赞）
// @Tags 内容
// @Produce json
// @Param id path string true "诗歌 slug"
// @Success 200 {object} response.Response{data=service.PoemDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/poems/{id} [get]
func (h *Handler) GetPoem(c *gin.Context) {
	// 与 /poems/:id/like 等路由共用通配名，这里的值是 slug
	poem, err := h.catalogService.GetPoem(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, poem)
}

// ListThemes 主题列表
// @Summary 主题列表
// @Tags 内容
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Theme}
// @Router /api/v1/themes [get]
func (h *Handler) ListThemes(c *gin.Context) {
	themes, err := h.catalogService.ListThemes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, themes)
}

// GetTheme 主题详情
// @Summary 主题详情（含已发布诗歌）
// @Tags 内容
// @Produce json
// @Param slug path string true "主题 slug"
// @Success 200 {object} response.Response{data=service.ThemeDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/themes/{slug} [get]
func (h *Handler) GetTheme(c *gin.Context) {
	theme, err := h.catalogService.GetTheme(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, theme)
}

// ListEras 文学时期
// @Summary 文学时期（按起始年份，含诗人）
// @Tags 内容
// @Produce json
// @Success 200 {object} response.Response{data=[]model.LiteraryEra}
// @Router /api/v1/eras [get]
func (h *Handler) ListEras(c *gin.Context) {
	eras, err := h.catalogService.ListEras(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, eras)
}

// Sitemap sitemap.xml
// @Summary 站点地图
// @Tags 系统
// @Produce xml
// @Success 200 {string} string
// @Router /sitemap.xml [get]
func (h *Handler) Sitemap(c *gin.Context) {
	body, err := h.sitemapService.Build(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(200, "application/xml; charset=utf-8", body)
}
