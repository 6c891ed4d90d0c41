package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/pkg/auth"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
)

const verificationTTL = 24 * time.Hour

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,30}$`)

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required,notblank"`
	Password   string `json:"password" binding:"required"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,max=72"`
}

// VerifyResult AlreadyVerified 为 true 时本次调用没有改动任何状态
type VerifyResult struct {
	User            *model.User `json:"user"`
	AlreadyVerified bool        `json:"alreadyVerified"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService 注册、登录与令牌校验
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	// Authenticate 令牌 -> Actor，失败一律 Unauthorized
	Authenticate(ctx context.Context, token string) (model.Actor, error)
	Me(ctx context.Context, userID string) (*model.User, error)

	VerifyEmail(ctx context.Context, token string) (*VerifyResult, error)
	// ForgotPassword 邮箱不存在时同样返回 nil，避免暴露注册情况
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
}

type authService struct {
	users         repository.UserRepository
	verifications repository.VerificationRepository
	tokens        *auth.Manager
	mailer        Mailer
	cost          int
	now           func() time.Time
}

// NewAuthService mailer 为 nil 时使用 LogMailer
func NewAuthService(users repository.UserRepository, verifications repository.VerificationRepository, tokens *auth.Manager, mailer Mailer) AuthService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &authService{
		users:         users,
		verifications: verifications,
		tokens:        tokens,
		mailer:        mailer,
		cost:          bcrypt.DefaultCost,
		now:           time.Now,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if len(in.Password) < 6 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           newID(),
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		DisplayName:  username,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrIdentityTaken
		}
		return nil, err
	}
	s.sendVerification(ctx, u)
	return s.issue(u)
}

// sendVerification 注册已提交，验证令牌和邮件都是尽力而为
func (s *authService) sendVerification(ctx context.Context, u *model.User) {
	v := &model.EmailVerification{Token: newID(), UserID: u.ID, ExpiresAt: s.now().Add(verificationTTL)}
	if err := s.verifications.Create(ctx, v); err != nil {
		logger.Warn("create verification token failed", zap.String("user_id", u.ID), zap.Error(err))
		return
	}
	if err := s.mailer.SendVerification(ctx, u, v.Token); err != nil {
		logger.Warn("send verification mail failed", zap.String("user_id", u.ID), zap.Error(err))
	}
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	u, err := s.users.GetByIdentifier(ctx, strings.TrimSpace(in.Identifier))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *authService) issue(u *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *authService) Authenticate(_ context.Context, token string) (model.Actor, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return model.Actor{}, ErrInvalidToken
	}
	role := claims.Role
	if !role.Valid() {
		role = model.RoleUser
	}
	return model.Actor{UserID: claims.UserID, Username: claims.Username, Role: role}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (*VerifyResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrVerificationToken
	}
	v, err := s.verifications.Get(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrVerificationToken
	}
	if err != nil {
		return nil, err
	}
	u, err := s.Me(ctx, v.UserID)
	if err != nil {
		return nil, err
	}
	if u.EmailVerified {
		return &VerifyResult{User: u, AlreadyVerified: true}, nil
	}
	if s.now().After(v.ExpiresAt) {
		return nil, ErrVerificationToken
	}
	if err := s.verifications.Consume(ctx, u.ID); err != nil {
		return nil, err
	}
	u.EmailVerified = true
	return &VerifyResult{User: u}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByIdentifier(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	token, err := s.tokens.IssueReset(u)
	if err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, u, token); err != nil {
		logger.Warn("send password reset mail failed", zap.String("user_id", u.ID), zap.Error(err))
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if !strongPassword(in.Password) {
		return ErrResetPassword
	}
	claims, err := s.tokens.ParseReset(in.Token)
	if err != nil {
		return ErrInvalidToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return err
	}
	err = s.users.Update(ctx, claims.UserID, map[string]any{"password_hash": string(hash)})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// strongPassword 至少 8 位，且包含小写、大写、数字、符号中的三类
func strongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var lower, upper, digit, symbol int
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = 1
		case unicode.IsUpper(r):
			upper = 1
		case unicode.IsDigit(r):
			digit = 1
		default:
			symbol = 1
		}
	}
	return lower+upper+digit+symbol >= 3
}
