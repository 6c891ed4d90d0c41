package response

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/pkg/errcode"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
)

// Response 统一失败/消息响应体
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// Success 200，data 中的键与 success 平铺在同一层
func Success(c *gin.Context, data gin.H) {
	write(c, http.StatusOK, data)
}

// Created 201
func Created(c *gin.Context, data gin.H) {
	write(c, http.StatusCreated, data)
}

// OK 200 with a human readable message.
func OK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

func write(c *gin.Context, status int, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}

func BadRequest(c *gin.Context, message string)   { fail(c, http.StatusBadRequest, message) }
func Unauthorized(c *gin.Context, message string) { fail(c, http.StatusUnauthorized, message) }
func Forbidden(c *gin.Context, message string)    { fail(c, http.StatusForbidden, message) }
func NotFound(c *gin.Context, message string)     { fail(c, http.StatusNotFound, message) }

func TooManyRequests(c *gin.Context, message string) { fail(c, http.StatusTooManyRequests, message) }

// InvalidField 400 pointing at the offending request field.
func InvalidField(c *gin.Context, field, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{Success: false, Message: message, Field: field})
}

// InternalError 500；细节只进日志和 Sentry
func InternalError(c *gin.Context, err error) {
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	fail(c, http.StatusInternalServerError, "internal server error")
}

// Error 按 errcode 分类映射状态码
func Error(c *gin.Context, err error) {
	switch errcode.KindOf(err) {
	case errcode.KindValidation, errcode.KindConflict:
		BadRequest(c, errcode.Message(err))
	case errcode.KindUnauthorized:
		Unauthorized(c, errcode.Message(err))
	case errcode.KindForbidden:
		Forbidden(c, errcode.Message(err))
	case errcode.KindNotFound:
		NotFound(c, errcode.Message(err))
	default:
		InternalError(c, err)
	}
}
