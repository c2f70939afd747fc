package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/wordstack/internal/api/middleware"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/internal/service"
	"github.com/d60-Lab/wordstack/pkg/response"
)

type likeToggleRequest struct {
	SubjectID   string `json:"subjectId" binding:"required"`
	SubjectType string `json:"subjectType"`
}

// ToggleLike 切换点赞
// @Summary 切换点赞（返回切换后的状态与权威计数）
// @Tags 点赞
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body likeToggleRequest true "点赞目标，subjectType 默认 poem"
// @Success 200 {object} service.LikeStatus
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /like-toggle [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	// 先判断登录，未登录的请求不解析请求体
	actorID := middleware.ActorID(c)
	if actorID == "" {
		fail(c, service.ErrUnauthenticated)
		return
	}
	var req likeToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	kind, err := repository.ParseSubjectKind(req.SubjectType)
	if err != nil {
		response.BadRequest(c, "unknown subjectType")
		return
	}
	st, err := h.likeService.Toggle(c.Request.Context(), kind, req.SubjectID, actorID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// LikePoem 切换经典诗歌点赞
// @Summary 点赞/取消点赞经典诗歌
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path string true "诗歌ID"
// @Success 200 {object} response.Response{data=service.LikeStatus}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/poems/{id}/like [post]
func (h *Handler) LikePoem(c *gin.Context) {
	h.toggleResource(c, repository.SubjectPoem)
}

// LikeModernPoem 切换现代诗点赞
// @Summary 点赞/取消点赞现代诗
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path string true "现代诗ID"
// @Success 200 {object} response.Response{data=service.LikeStatus}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/modern-poems/{id}/like [post]
func (h *Handler) LikeModernPoem(c *gin.Context) {
	h.toggleResource(c, repository.SubjectModernPoem)
}

func (h *Handler) toggleResource(c *gin.Context, kind repository.SubjectKind) {
	st, err := h.likeService.Toggle(c.Request.Context(), kind, c.Param("id"), middleware.ActorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, st)
}

// LikeStatus 查询点赞状态
// @Summary 查询点赞状态
// @Tags 点赞
// @Produce json
// @Param id path string true "诗歌ID"
// @Success 200 {object} response.Response{data=service.LikeStatus}
// @Router /api/v1/poems/{id}/like [get]
func (h *Handler) LikeStatus(c *gin.Context) {
	st, err := h.likeService.Status(c.Request.Context(), repository.SubjectPoem, c.Param("id"), middleware.ActorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, st)
}

// MyLikes 当前用户点赞过的经典诗歌
// @Summary 我点赞的诗歌
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(50)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/me/likes [get]
func (h *Handler) MyLikes(c *gin.Context) {
	page, pageSize := pagination(c, 50)
	ids, err := h.likeService.LikedPoemIDs(c.Request.Context(), middleware.ActorID(c), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": ids})
}
