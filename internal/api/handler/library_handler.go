package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/response"
)

type watchlistRequest struct {
	Album service.AlbumInput `json:"album" binding:"required"`
}

// AddToWatchlist 加入待听清单
// @Summary 加入待听清单
// @Tags 收藏
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body watchlistRequest true "专辑"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/v1/watchlist [post]
func (h *Handler) AddToWatchlist(c *gin.Context) {
	var req watchlistRequest
	if !bind(c, &req) {
		return
	}
	a, err := h.libService.AddToWatchlist(c.Request.Context(), actor(c), req.Album)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"album": a})
}

// Watchlist 我的待听清单
// @Summary 待听清单
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/watchlist [get]
func (h *Handler) Watchlist(c *gin.Context) {
	limit, offset := h.page(c)
	page, err := h.libService.Watchlist(c.Request.Context(), actor(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("watchlist", page))
}

// RemoveFromWatchlist 移出待听清单
// @Summary 移出待听清单
// @Tags 收藏
// @Security BearerAuth
// @Param albumId query string true "专辑ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/watchlist [delete]
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	albumID, ok := requiredQuery(c, "albumId")
	if !ok {
		return
	}
	if err := h.libService.RemoveFromWatchlist(c.Request.Context(), actor(c), albumID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "removed from listen list")
}

// CheckListenList 专辑是否在待听清单中
// @Summary 待听状态
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param albumId query string true "专辑ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/listen-list/check [get]
func (h *Handler) CheckListenList(c *gin.Context) {
	albumID, ok := requiredQuery(c, "albumId")
	if !ok {
		return
	}
	in, err := h.libService.InWatchlist(c.Request.Context(), actor(c), albumID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"inListenList": in})
}

// LogListen 记录收听
// @Summary 记录收听
// @Tags 收藏
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ListenInput true "专辑与收听时间"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/v1/listening-history [post]
func (h *Handler) LogListen(c *gin.Context) {
	var req service.ListenInput
	if !bind(c, &req) {
		return
	}
	e, err := h.libService.LogListen(c.Request.Context(), actor(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"entry": e})
}

// MyListeningHistory 我的收听历史
// @Summary 我的收听历史
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param grouped query bool false "按日期分组"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/listening-history [get]
func (h *Handler) MyListeningHistory(c *gin.Context) {
	h.listeningHistory(c, actor(c).UserID)
}

// UserListeningHistory 他人的收听历史，公开
// @Summary 用户收听历史
// @Tags 收藏
// @Produce json
// @Param id path string true "用户ID"
// @Param grouped query bool false "按日期分组"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id}/listening-history [get]
func (h *Handler) UserListeningHistory(c *gin.Context) {
	h.listeningHistory(c, c.Param("id"))
}

func (h *Handler) listeningHistory(c *gin.Context, userID string) {
	limit, offset := h.page(c)
	if c.Query("grouped") == "true" {
		days, err := h.libService.HistoryByDay(c.Request.Context(), userID, limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, gin.H{"listeningHistory": days})
		return
	}
	page, err := h.libService.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("listeningHistory", page))
}

// RemoveListen 删除收听记录，historyId 删一条，albumId 删该专辑全部
// @Summary 删除收听记录
// @Tags 收藏
// @Security BearerAuth
// @Param historyId query string false "记录ID"
// @Param albumId query string false "专辑ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/listening-history [delete]
func (h *Handler) RemoveListen(c *gin.Context) {
	err := h.libService.RemoveListen(c.Request.Context(), actor(c), c.Query("historyId"), c.Query("albumId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "removed from listening history")
}

// FavoriteTrack 收藏单曲
// @Summary 收藏单曲
// @Tags 收藏
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.TrackInput true "单曲"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/v1/track-favorites [post]
func (h *Handler) FavoriteTrack(c *gin.Context) {
	var req service.TrackInput
	if !bind(c, &req) {
		return
	}
	f, err := h.libService.FavoriteTrack(c.Request.Context(), actor(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"track": f})
}

// UnfavoriteTrack 取消收藏
// @Summary 取消收藏单曲
// @Tags 收藏
// @Security BearerAuth
// @Param trackId query string true "单曲ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/track-favorites [delete]
func (h *Handler) UnfavoriteTrack(c *gin.Context) {
	trackID, ok := requiredQuery(c, "trackId")
	if !ok {
		return
	}
	if err := h.libService.UnfavoriteTrack(c.Request.Context(), actor(c), trackID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "removed from favorites")
}

// TrackFavorites 带 trackId 时返回收藏状态，否则返回收藏列表
// @Summary 单曲收藏
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param trackId query string false "单曲ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/track-favorites [get]
func (h *Handler) TrackFavorites(c *gin.Context) {
	ctx := c.Request.Context()
	if trackID := c.Query("trackId"); trackID != "" {
		st, err := h.libService.TrackStatus(ctx, actor(c), trackID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, gin.H{"isInFavorites": st.InFavorites, "stats": st.Stats})
		return
	}
	limit, offset := h.page(c)
	page, err := h.libService.Favorites(ctx, actor(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, paged("favorites", page))
}

// TrackStats 单曲被收藏次数，公开
// @Summary 单曲收藏统计
// @Tags 收藏
// @Produce json
// @Param trackId query string true "单曲ID"
// @Success 200 {object} service.TrackStats
// @Router /api/v1/track-favorites/stats [get]
func (h *Handler) TrackStats(c *gin.Context) {
	trackID, ok := requiredQuery(c, "trackId")
	if !ok {
		return
	}
	st, err := h.libService.TrackStats(c.Request.Context(), trackID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"stats": st})
}
