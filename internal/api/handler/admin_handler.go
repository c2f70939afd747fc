package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/wordstack/internal/service"
	"github.com/d60-Lab/wordstack/pkg/response"
)

// AdminDashboard 后台计数
// @Summary 后台概览
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.Dashboard}
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/dashboard [get]
func (h *Handler) AdminDashboard(c *gin.Context) {
	d, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, d)
}

// AdminListPoems 全部诗歌（含未发布）
// @Summary 诗歌管理列表
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(50)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/admin/poems [get]
func (h *Handler) AdminListPoems(c *gin.Context) {
	page, pageSize := pagination(c, 50)
	res, err := h.adminService.ListPoems(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// AdminGetPoem 诗歌详情
// @Summary 诗歌管理详情
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "诗歌ID"
// @Success 200 {object} response.Response{data=model.Poem}
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/poems/{id} [get]
func (h *Handler) AdminGetPoem(c *gin.Context) {
	poem, err := h.adminService.GetPoem(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, poem)
}

// AdminCreatePoem 新建诗歌
// @Summary 新建诗歌（slug 为空时由标题生成）
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PoemInput true "诗歌"
// @Success 201 {object} response.Response{data=model.Poem}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/poems [post]
func (h *Handler) AdminCreatePoem(c *gin.Context) {
	var in service.PoemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	poem, err := h.adminService.CreatePoem(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, poem)
}

// AdminUpdatePoem 修改诗歌
// @Summary 修改诗歌
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "诗歌ID"
// @Param request body service.PoemInput true "诗歌"
// @Success 200 {object} response.Response{data=model.Poem}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/poems/{id} [put]
func (h *Handler) AdminUpdatePoem(c *gin.Context) {
	var in service.PoemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	poem, err := h.adminService.UpdatePoem(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, poem)
}

// AdminDeletePoem 删除诗歌
// @Summary 删除诗歌（连同点赞、评论、主题关联）
// @Tags 管理
// @Security BearerAuth
// @Param id path string true "诗歌ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/poems/{id} [delete]
func (h *Handler) AdminDeletePoem(c *gin.Context) {
	if err := h.adminService.DeletePoem(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// AdminListPoets 诗人管理列表
// @Summary 诗人管理列表
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/admin/poets [get]
func (h *Handler) AdminListPoets(c *gin.Context) {
	page, pageSize := pagination(c, 50)
	res, err := h.adminService.ListPoets(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// AdminGetPoet 诗人详情
// @Summary 诗人管理详情
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "诗人ID"
// @Success 200 {object} response.Response{data=model.Poet}
// @Router /api/v1/admin/poets/{id} [get]
func (h *Handler) AdminGetPoet(c *gin.Context) {
	poet, err := h.adminService.GetPoet(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, poet)
}

// AdminCreatePoet 新建诗人
// @Summary 新建诗人
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PoetInput true "诗人"
// @Success 201 {object} response.Response{data=model.Poet}
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/poets [post]
func (h *Handler) AdminCreatePoet(c *gin.Context) {
	var in service.PoetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	poet, err := h.adminService.CreatePoet(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, poet)
}

// AdminUpdatePoet 修改诗人
// @Summary 修改诗人
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "诗人ID"
// @Param request body service.PoetInput true "诗人"
// @Success 200 {object} response.Response{data=model.Poet}
// @Router /api/v1/admin/poets/{id} [put]
func (h *Handler) AdminUpdatePoet(c *gin.Context) {
	var in service.PoetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	poet, err := h.adminService.UpdatePoet(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, poet)
}

// AdminDeletePoet 删除诗人
// @Summary 删除诗人（作品保留）
// @Tags 管理
// @Security BearerAuth
// @Param id path string true "诗人ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/poets/{id} [delete]
func (h *Handler) AdminDeletePoet(c *gin.Context) {
	if err := h.adminService.DeletePoet(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// AdminListModern 现代诗管理列表
// @Summary 现代诗管理列表
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.ModernPoem}
// @Router /api/v1/admin/modern-poems [get]
func (h *Handler) AdminListModern(c *gin.Context) {
	page, pageSize := pagination(c, 50)
	list, err := h.adminService.ListModernPoems(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// AdminDeleteModern 删除任意现代诗
// @Summary 删除现代诗
// @Tags 管理
// @Security BearerAuth
// @Param id path string true "现代诗ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/modern-poems/{id} [delete]
func (h *Handler) AdminDeleteModern(c *gin.Context) {
	if err := h.adminService.DeleteModernPoem(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// AdminReconcile 计数校准
// @Summary 重算点赞计数（不带 subjectId 时全量扫描）
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ReconcileRequest false "单个主体"
// @Success 202 {object} response.Response
// @Router /api/v1/admin/reconcile [post]
func (h *Handler) AdminReconcile(c *gin.Context) {
	var req service.ReconcileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	if err := h.adminService.Reconcile(c.Request.Context(), req); err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, "accepted", nil)
}
