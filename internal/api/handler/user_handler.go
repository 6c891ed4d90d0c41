package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/response"
)

// UpdateProfile 修改个人资料
// @Summary 修改资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileInput true "资料"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/v1/users/me [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileInput
	if !bind(c, &req) {
		return
	}
	u, err := h.userService.UpdateProfile(c.Request.Context(), actor(c).UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": u})
}

// GetProfile 公开资料页
// @Summary 用户资料
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} service.Profile
// @Failure 404 {object} response.Response
// @Router /api/v1/profiles/{username} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.userService.Profile(c.Request.Context(), c.Param("username"), actor(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": p.User, "stats": p.Stats, "isFollowing": p.IsFollowing})
}

// SearchUsers 按用户名/昵称搜索
// @Summary 搜索用户
// @Tags 用户
// @Produce json
// @Param q query string true "关键词"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/users/search [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.userService.Search(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("users", page))
}
