package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/wordstack/internal/api/middleware"
	"github.com/d60-Lab/wordstack/pkg/response"
)

// Follow 关注用户
// @Summary 关注用户（幂等，之后发布的现代诗进入关注流）
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/follows/{user_id} [post]
func (h *Handler) Follow(c *gin.Context) {
	if err := h.followService.Follow(c.Request.Context(), middleware.ActorID(c), c.Param("user_id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"following": true})
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/follows/{user_id} [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	if err := h.followService.Unfollow(c.Request.Context(), middleware.ActorID(c), c.Param("user_id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"following": false})
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, pageSize := pagination(c, 20)
	list, err := h.followService.ListFollowing(c.Request.Context(), c.Param("user_id"), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ListFollowers 查询某用户的关注者
// @Summary 查询关注者列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, pageSize := pagination(c, 20)
	list, err := h.followService.ListFollowers(c.Request.Context(), c.Param("user_id"), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}
