package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tuneboxd/internal/service"
	"github.com/d60-Lab/tuneboxd/pkg/response"
)

// Register 注册
// @Summary 注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "注册信息"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !bind(c, &req) {
		return
	}
	res, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"token": res.Token, "user": res.User})
}

// Login 登录，identifier 可为用户名或邮箱
// @Summary 登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "登录信息"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginInput
	if !bind(c, &req) {
		return
	}
	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"token": res.Token, "user": res.User})
}

// Me 当前用户
// @Summary 当前用户
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	u, err := h.authService.Me(c.Request.Context(), actor(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": u})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyEmail 邮箱验证
// @Summary 验证邮箱
// @Tags 用户
// @Produce json
// @Param token query string true "验证令牌"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/verify-email [get]
func (h *Handler) VerifyEmail(c *gin.Context) {
	token, ok := requiredQuery(c, "token")
	if !ok {
		return
	}
	res, err := h.authService.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user": res.User, "alreadyVerified": res.AlreadyVerified})
}

// ForgotPassword 申请重置密码；无论邮箱是否注册都返回同样的结果
// @Summary 忘记密码
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body forgotPasswordRequest true "邮箱"
// @Success 200 {object} response.Response
// @Router /api/v1/auth/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "if the email is registered, a reset link has been sent")
}

// ResetPassword 使用重置令牌设置新密码
// @Summary 重置密码
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.ResetPasswordInput true "令牌与新密码"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordInput
	if !bind(c, &req) {
		return
	}
	if err := h.authService.ResetPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "password updated")
}
