package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tuneboxd/pkg/response"
)

// ListNotifications 当前用户的通知
// @Summary 通知列表
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param unreadOnly query bool false "仅未读"
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移" default(0)
// @Success 200 {object} service.NotificationPage
// @Failure 401 {object} response.Response
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	limit, offset := h.page(c)
	unreadOnly, _ := strconv.ParseBool(c.Query("unreadOnly"))
	page, err := h.notifyService.List(c.Request.Context(), actor(c).UserID, unreadOnly, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"notifications": page.Notifications,
		"unreadCount":   page.UnreadCount,
		"pagination":    page.Pagination,
	})
}

// UnreadCount 未读数
// @Summary 未读通知数
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.notifyService.UnreadCount(c.Request.Context(), actor(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"unreadCount": n})
}

// MarkNotificationRead 标记单条已读
// @Summary 标记已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param id path string true "通知ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/notifications/{id}/read [patch]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	if err := h.notifyService.MarkRead(c.Request.Context(), c.Param("id"), actor(c).UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "notification marked as read")
}

// MarkAllNotificationsRead 全部已读
// @Summary 全部标记已读
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/notifications/read-all [patch]
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.notifyService.MarkAllRead(c.Request.Context(), actor(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"updated": n})
}

// DeleteNotification 删除单条
// @Summary 删除通知
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param id path string true "通知ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/notifications/{id} [delete]
func (h *Handler) DeleteNotification(c *gin.Context) {
	if err := h.notifyService.Delete(c.Request.Context(), c.Param("id"), actor(c).UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "notification deleted")
}

// DeleteAllNotifications 清空
// @Summary 清空通知
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/notifications [delete]
func (h *Handler) DeleteAllNotifications(c *gin.Context) {
	n, err := h.notifyService.DeleteAll(c.Request.Context(), actor(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": n})
}
