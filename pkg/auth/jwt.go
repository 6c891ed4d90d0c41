package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	// PurposePasswordReset 重置密码令牌的用途标记，不能当访问令牌使用
	PurposePasswordReset = "password_reset"
	ResetTTL             = time.Hour
)

// Claims JWT 载荷；Purpose 为空表示访问令牌
type Claims struct {
	UserID   string     `json:"userId"`
	Username string     `json:"username"`
	Email    string     `json:"email,omitempty"`
	Role     model.Role `json:"role"`
	Purpose  string     `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Manager 签发和校验 HS256 令牌
type Manager struct {
	secret []byte
	issuer string
	expire time.Duration
	now    func() time.Time
}

func NewManager(cfg config.JWTConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		expire: cfg.Expire,
		now:    time.Now,
	}
}

// Issue signs an access token for the given user.
func (m *Manager) Issue(u *model.User) (string, error) {
	return m.sign(Claims{UserID: u.ID, Username: u.Username, Role: u.Role}, m.expire)
}

// IssueReset signs a one-hour password reset token.
func (m *Manager) IssueReset(u *model.User) (string, error) {
	return m.sign(Claims{UserID: u.ID, Email: u.Email, Purpose: PurposePasswordReset}, ResetTTL)
}

func (m *Manager) sign(claims Claims, ttl time.Duration) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Parse 校验访问令牌的签名、签发者与过期时间
func (m *Manager) Parse(token string) (*Claims, error) {
	return m.parse(token, "")
}

// ParseReset accepts only tokens minted by IssueReset.
func (m *Manager) ParseReset(token string) (*Claims, error) {
	return m.parse(token, PurposePasswordReset)
}

func (m *Manager) parse(token, purpose string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.UserID == "" || claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
