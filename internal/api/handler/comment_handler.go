package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/wordstack/internal/api/middleware"
	"github.com/d60-Lab/wordstack/internal/repository"
	"github.com/d60-Lab/wordstack/pkg/response"
)

type commentRequest struct {
	Content string `json:"content"`
}

// ListPoemComments 经典诗歌评论
// @Summary 诗歌评论列表（最新在前）
// @Tags 评论
// @Produce json
// @Param id path string true "诗歌ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(50)
// @Success 200 {object} response.Response{data=[]model.CommentView}
// @Router /api/v1/poems/{id}/comments [get]
func (h *Handler) ListPoemComments(c *gin.Context) {
	h.listComments(c, repository.SubjectPoem)
}

// AddPoemComment 发表经典诗歌评论
// @Summary 发表诗歌评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "诗歌ID"
// @Param request body commentRequest true "评论内容（1-2000 字）"
// @Success 201 {object} response.Response{data=model.CommentView}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/poems/{id}/comments [post]
func (h *Handler) AddPoemComment(c *gin.Context) {
	h.addComment(c, repository.SubjectPoem)
}

// ListModernComments 现代诗评论
// @Summary 现代诗评论列表（最新在前）
// @Tags 评论
// @Produce json
// @Param id path string true "现代诗ID"
// @Success 200 {object} response.Response{data=[]model.CommentView}
// @Router /api/v1/modern-poems/{id}/comments [get]
func (h *Handler) ListModernComments(c *gin.Context) {
	h.listComments(c, repository.SubjectModernPoem)
}

// AddModernComment 发表现代诗评论
// @Summary 发表现代诗评论（同事务重算 comments_count）
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "现代诗ID"
// @Param request body commentRequest true "评论内容（1-2000 字）"
// @Success 201 {object} response.Response{data=model.CommentView}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/modern-poems/{id}/comments [post]
func (h *Handler) AddModernComment(c *gin.Context) {
	h.addComment(c, repository.SubjectModernPoem)
}

func (h *Handler) listComments(c *gin.Context, kind repository.SubjectKind) {
	page, pageSize := pagination(c, 50)
	items, err := h.commentService.List(c.Request.Context(), kind, c.Param("id"), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, items)
}

func (h *Handler) addComment(c *gin.Context, kind repository.SubjectKind) {
	actorID := middleware.ActorID(c)
	if actorID == "" {
		response.Unauthorized(c, "authentication required")
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.commentService.Add(c.Request.Context(), kind, c.Param("id"), actorID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, view)
}
