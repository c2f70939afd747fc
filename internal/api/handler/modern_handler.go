package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/wordstack/internal/api/middleware"
	"github.com/d60-Lab/wordstack/internal/service"
	"github.com/d60-Lab/wordstack/pkg/response"
)

// ModernFeed 现代诗列表
// @Summary 现代诗列表（recent 全站最新，following 关注流）
// @Tags 现代诗
// @Produce json
// @Param tab query string false "recent 或 following" default(recent)
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(50)
// @Success 200 {object} response.Response{data=[]model.ModernPoemView}
// @Failure 401 {object} response.Response
// @Router /api/v1/modern-poems [get]
func (h *Handler) ModernFeed(c *gin.Context) {
	page, pageSize := pagination(c, 50)
	tab := c.DefaultQuery("tab", service.FeedRecent)
	list, err := h.modernService.Feed(c.Request.Context(), tab, middleware.ActorID(c), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// GetModernPoem 现代诗详情
// @Summary 现代诗详情
// @Tags 现代诗
// @Produce json
// @Param id path string true "现代诗ID"
// @Success 200 {object} response.Response{data=model.ModernPoemView}
// @Failure 404 {object} response.Response
// @Router /api/v1/modern-poems/{id} [get]
func (h *Handler) GetModernPoem(c *gin.Context) {
	poem, err := h.modernService.Get(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, poem)
}

// SubmitModernPoem 投稿
// @Summary 发布现代诗（写 outbox，异步扇出到关注者）
// @Tags 现代诗
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SubmitModernPoemRequest true "标题与正文"
// @Success 201 {object} response.Response{data=model.ModernPoemView}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/modern-poems [post]
func (h *Handler) SubmitModernPoem(c *gin.Context) {
	var req service.SubmitModernPoemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	poem, err := h.modernService.Submit(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, poem)
}

// DeleteModernPoem 删除现代诗
// @Summary 删除现代诗（作者本人或管理员）
// @Tags 现代诗
// @Produce json
// @Security BearerAuth
// @Param id path string true "现代诗ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/modern-poems/{id} [delete]
func (h *Handler) DeleteModernPoem(c *gin.Context) {
	if err := h.modernService.Delete(c.Request.Context(), c.Param("id"), middleware.ActorID(c)); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// UserModernPoems 某用户的现代诗
// @Summary 用户发布的现代诗
// @Tags 现代诗
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]model.ModernPoemView}
// @Router /api/v1/users/{user_id}/modern-poems [get]
func (h *Handler) UserModernPoems(c *gin.Context) {
	page, pageSize := pagination(c, 50)
	list, err := h.modernService.ListByAuthor(c.Request.Context(), c.Param("user_id"), middleware.ActorID(c), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}
