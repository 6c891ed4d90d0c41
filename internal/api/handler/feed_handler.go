package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tuneboxd/pkg/response"
)

// Activity 关注用户的动态
// @Summary 动态流
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移" default(0)
// @Success 200 {object} service.FeedPage
// @Failure 401 {object} response.Response
// @Router /api/v1/social/activity [get]
func (h *Handler) Activity(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.feedService.Activity(c.Request.Context(), actor(c).UserID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"activities": page.Activities, "pagination": page.Pagination})
}
