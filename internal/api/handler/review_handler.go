package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/response"
)

// CreateReview 发表评价
// @Summary 发表评价
// @Tags 评价
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateReviewInput true "评价"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/v1/reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	var req service.CreateReviewInput
	if !bind(c, &req) {
		return
	}
	rv, err := h.reviewService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"review": rv})
}

// GetReview 评价详情
// @Summary 评价详情
// @Tags 评价
// @Produce json
// @Param id path string true "评价ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Response
// @Router /api/v1/reviews/{id} [get]
func (h *Handler) GetReview(c *gin.Context) {
	rv, err := h.reviewService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"review": rv})
}

// UpdateReview 修改评价（作者）
// @Summary 修改评价
// @Tags 评价
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "评价ID"
// @Param request body service.UpdateReviewInput true "修改内容"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.Response
// @Router /api/v1/reviews/{id} [patch]
func (h *Handler) UpdateReview(c *gin.Context) {
	var req service.UpdateReviewInput
	if !bind(c, &req) {
		return
	}
	rv, err := h.reviewService.Update(c.Request.Context(), actor(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"review": rv})
}

// DeleteReview 删除评价（作者或版主）
// @Summary 删除评价
// @Tags 评价
// @Produce json
// @Security BearerAuth
// @Param id path string true "评价ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/reviews/{id} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	if err := h.reviewService.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "review deleted")
}

// ListRecentReviews 最新评价
// @Summary 最新评价
// @Tags 评价
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/reviews [get]
func (h *Handler) ListRecentReviews(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.reviewService.ListRecent(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("reviews", page))
}

// ListUserReviews 某用户的评价
// @Summary 用户评价
// @Tags 评价
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/users/{id}/reviews [get]
func (h *Handler) ListUserReviews(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.reviewService.ListByUser(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("reviews", page))
}

// ListAlbumReviews 某专辑的评价
// @Summary 专辑评价
// @Tags 评价
// @Produce json
// @Param spotify_id path string true "专辑 spotify_id"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/albums/{spotify_id}/reviews [get]
func (h *Handler) ListAlbumReviews(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.reviewService.ListByAlbum(c.Request.Context(), c.Param("spotify_id"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("reviews", page))
}

// ToggleReviewLike 点赞/取消
// @Summary 评价点赞切换
// @Tags 评价
// @Produce json
// @Security BearerAuth
// @Param id path string true "评价ID"
// @Success 200 {object} service.LikeState
// @Router /api/v1/reviews/{id}/like [post]
func (h *Handler) ToggleReviewLike(c *gin.Context) {
	st, err := h.reviewService.ToggleLike(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"liked": st.Liked, "likeCount": st.LikeCount})
}

// ReviewLikes 点赞数与当前用户状态
// @Summary 评价点赞
// @Tags 评价
// @Produce json
// @Param id path string true "评价ID"
// @Success 200 {object} service.LikeState
// @Router /api/v1/reviews/{id}/likes [get]
func (h *Handler) ReviewLikes(c *gin.Context) {
	st, err := h.reviewService.Likes(c.Request.Context(), c.Param("id"), actor(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"liked": st.Liked, "likeCount": st.LikeCount})
}
