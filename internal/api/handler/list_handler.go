package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/response"
)

type commentRequest struct {
	Content string `json:"content" binding:"required,notblank"`
}

type reorderRequest struct {
	OrderIndex *int `json:"order_index" binding:"required"`
}

// CreateList 新建清单
// @Summary 新建清单
// @Tags 清单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateListInput true "清单"
// @Success 201 {object} map[string]interface{}
// @Router /api/v1/lists [post]
func (h *Handler) CreateList(c *gin.Context) {
	var req service.CreateListInput
	if !bind(c, &req) {
		return
	}
	l, err := h.listService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"list": l})
}

// GetList 清单详情；私有清单仅所有者可见
// @Summary 清单详情
// @Tags 清单
// @Produce json
// @Param id path string true "清单ID"
// @Success 200 {object} service.ListDetail
// @Failure 404 {object} response.Response
// @Router /api/v1/lists/{id} [get]
func (h *Handler) GetList(c *gin.Context) {
	d, err := h.listService.Get(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"list": d})
}

// UpdateList 修改清单（所有者）
// @Summary 修改清单
// @Tags 清单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "清单ID"
// @Param request body service.UpdateListInput true "修改内容"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.Response
// @Router /api/v1/lists/{id} [patch]
func (h *Handler) UpdateList(c *gin.Context) {
	var req service.UpdateListInput
	if !bind(c, &req) {
		return
	}
	l, err := h.listService.Update(c.Request.Context(), actor(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"list": l})
}

// DeleteList 删除清单（所有者）
// @Summary 删除清单
// @Tags 清单
// @Security BearerAuth
// @Param id path string true "清单ID"
// @Success 200 {object} response.Response
// @Router /api/v1/lists/{id} [delete]
func (h *Handler) DeleteList(c *gin.Context) {
	if err := h.listService.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "list deleted")
}

// ListPublicLists 公开清单
// @Summary 公开清单
// @Tags 清单
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/lists [get]
func (h *Handler) ListPublicLists(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.listService.ListPublic(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("lists", page))
}

// ListUserLists 某用户的清单；本人可见私有
// @Summary 用户清单
// @Tags 清单
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/users/{id}/lists [get]
func (h *Handler) ListUserLists(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.listService.ListByUser(c.Request.Context(), c.Param("id"), actor(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("lists", page))
}

// AddListAlbum 追加专辑
// @Summary 清单追加专辑
// @Tags 清单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "清单ID"
// @Param request body service.AddAlbumInput true "专辑"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/v1/lists/{id}/albums [post]
func (h *Handler) AddListAlbum(c *gin.Context) {
	var req service.AddAlbumInput
	if !bind(c, &req) {
		return
	}
	item, err := h.listService.AddAlbum(c.Request.Context(), actor(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"item": item})
}

// RemoveListAlbum 移除专辑
// @Summary 清单移除专辑
// @Tags 清单
// @Security BearerAuth
// @Param id path string true "清单ID"
// @Param album_id path string true "专辑ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/lists/{id}/albums/{album_id} [delete]
func (h *Handler) RemoveListAlbum(c *gin.Context) {
	if err := h.listService.RemoveAlbum(c.Request.Context(), actor(c), c.Param("id"), c.Param("album_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "album removed")
}

// ReorderListAlbum 调整顺序
// @Summary 调整专辑顺序
// @Tags 清单
// @Accept json
// @Security BearerAuth
// @Param id path string true "清单ID"
// @Param album_id path string true "专辑ID"
// @Param request body reorderRequest true "新位置"
// @Success 200 {object} response.Response
// @Router /api/v1/lists/{id}/albums/{album_id}/order [put]
func (h *Handler) ReorderListAlbum(c *gin.Context) {
	var req reorderRequest
	if !bind(c, &req) {
		return
	}
	err := h.listService.ReorderAlbum(c.Request.Context(), actor(c), c.Param("id"), c.Param("album_id"), *req.OrderIndex)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "order updated")
}

// ToggleListLike 清单点赞切换
// @Summary 清单点赞切换
// @Tags 清单
// @Produce json
// @Security BearerAuth
// @Param id path string true "清单ID"
// @Success 200 {object} service.LikeState
// @Router /api/v1/lists/{id}/like [post]
func (h *Handler) ToggleListLike(c *gin.Context) {
	st, err := h.listService.ToggleLike(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"liked": st.Liked, "likeCount": st.LikeCount})
}

// ListComments 清单评论，按时间正序
// @Summary 清单评论
// @Tags 清单
// @Produce json
// @Param id path string true "清单ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/lists/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.listService.Comments(c.Request.Context(), c.Param("id"), actor(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("comments", page))
}

// AddListComment 发表评论
// @Summary 发表清单评论
// @Tags 清单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "清单ID"
// @Param request body commentRequest true "评论"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/v1/lists/{id}/comments [post]
func (h *Handler) AddListComment(c *gin.Context) {
	var req commentRequest
	if !bind(c, &req) {
		return
	}
	cm, err := h.listService.AddComment(c.Request.Context(), actor(c), c.Param("id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"comment": cm})
}

// UpdateListComment 修改评论（作者）
// @Summary 修改清单评论
// @Tags 清单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comment_id path string true "评论ID"
// @Param request body commentRequest true "评论"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/lists/comments/{comment_id} [patch]
func (h *Handler) UpdateListComment(c *gin.Context) {
	var req commentRequest
	if !bind(c, &req) {
		return
	}
	cm, err := h.listService.UpdateComment(c.Request.Context(), actor(c), c.Param("comment_id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"comment": cm})
}

// DeleteListComment 删除评论（作者或版主）
// @Summary 删除清单评论
// @Tags 清单
// @Security BearerAuth
// @Param comment_id path string true "评论ID"
// @Success 200 {object} response.Response
// @Router /api/v1/lists/comments/{comment_id} [delete]
func (h *Handler) DeleteListComment(c *gin.Context) {
	if err := h.listService.DeleteComment(c.Request.Context(), actor(c), c.Param("comment_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "comment deleted")
}
