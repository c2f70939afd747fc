package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/d60-Lab/wordstack/internal/service"
	"github.com/d60-Lab/wordstack/pkg/response"
)

// Handler 聚合所有 HTTP 处理器依赖的服务
type Handler struct {
	likeService    service.LikeService
	commentService service.CommentService
	catalogService service.CatalogService
	modernService  service.ModernPoemService
	followService  service.FollowService
	profileService service.ProfileService
	adminService   service.AdminService
	sitemapService *service.SitemapService
}

// Services 构造 Handler 的参数
type Services struct {
	Like    service.LikeService
	Comment service.CommentService
	Catalog service.CatalogService
	Modern  service.ModernPoemService
	Follow  service.FollowService
	Profile service.ProfileService
	Admin   service.AdminService
	Sitemap *service.SitemapService
}

func New(s Services) *Handler {
	return &Handler{
		likeService:    s.Like,
		commentService: s.Comment,
		catalogService: s.Catalog,
		modernService:  s.Modern,
		followService:  s.Follow,
		profileService: s.Profile,
		adminService:   s.Admin,
		sitemapService: s.Sitemap,
	}
}

// fail 把服务层错误映射为 HTTP 状态码
func fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.JSON(c, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, service.ErrUnauthenticated):
		response.Unauthorized(c, "authentication required")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, "forbidden")
	case errors.Is(err, service.ErrSubjectNotFound), errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "not found")
	case errors.Is(err, service.ErrFollowSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrSlugTaken), errors.Is(err, service.ErrUsernameTaken):
		response.JSON(c, http.StatusConflict, err.Error(), nil)
	default:
		response.InternalError(c, err)
	}
}

func pagination(c *gin.Context, defSize int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defSize)))
	return page, pageSize
}

// Health 存活检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
