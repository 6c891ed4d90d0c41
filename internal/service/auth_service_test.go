package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/pkg/auth"
	"github.com/d60-Lab/tuneboxd/pkg/errcode"
)

// outbox 记录发出的令牌，按用户 ID 索引
type outbox struct {
	mu     sync.Mutex
	verify map[string]string
	reset  map[string]string
}

func (o *outbox) SendVerification(_ context.Context, u *model.User, token string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.verify[u.ID] = token
	return nil
}

func (o *outbox) SendPasswordReset(_ context.Context, u *model.User, token string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reset[u.ID] = token
	return nil
}

func newAuth(t *testing.T, e *env) AuthService {
	t.Helper()
	svc, _ := newAuthWithOutbox(t, e)
	return svc
}

func newAuthWithOutbox(t *testing.T, e *env) (AuthService, *outbox) {
	t.Helper()
	box := &outbox{verify: map[string]string{}, reset: map[string]string{}}
	tokens := auth.NewManager(config.JWTConfig{Secret: "test-secret", Issuer: "tuneboxd", Expire: time.Hour})
	svc := NewAuthService(e.users, repository.NewVerificationRepository(e.db), tokens, box)
	svc.(*authService).cost = bcrypt.MinCost
	return svc, box
}

func TestAuthService_RegisterLoginAuthenticate(t *testing.T) {
	e := newEnv(t)
	svc := newAuth(t, e)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, model.RoleUser, res.User.Role)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrIdentityTaken)

	_, err = svc.Register(ctx, RegisterInput{Username: "a b", Email: "x@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	login, err := svc.Login(ctx, LoginInput{Identifier: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	login, err = svc.Login(ctx, LoginInput{Identifier: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Identifier: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginInput{Identifier: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	actor, err := svc.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, actor.UserID)
	assert.Equal(t, "alice", actor.Username)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.Equal(t, errcode.KindUnauthorized, errcode.KindOf(err))

	me, err := svc.Me(ctx, actor.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	e := newEnv(t)
	svc, box := newAuthWithOutbox(t, e)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.False(t, res.User.EmailVerified)
	token := box.verify[res.User.ID]
	require.NotEmpty(t, token)

	_, err = svc.VerifyEmail(ctx, "no-such-token")
	assert.ErrorIs(t, err, ErrVerificationToken)
	_, err = svc.VerifyEmail(ctx, "")
	assert.ErrorIs(t, err, ErrVerificationToken)

	out, err := svc.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.False(t, out.AlreadyVerified)
	assert.True(t, out.User.EmailVerified)

	me, err := svc.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.True(t, me.EmailVerified)

	// 令牌随验证一起删除
	_, err = svc.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, ErrVerificationToken)

	// 已验证用户手里的旧令牌返回 already verified
	require.NoError(t, e.db.Create(&model.EmailVerification{Token: "stale", UserID: res.User.ID, ExpiresAt: time.Now().Add(-time.Hour)}).Error)
	out, err = svc.VerifyEmail(ctx, "stale")
	require.NoError(t, err)
	assert.True(t, out.AlreadyVerified)
}

func TestAuthService_VerifyEmailExpired(t *testing.T) {
	e := newEnv(t)
	svc, box := newAuthWithOutbox(t, e)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)
	svc.(*authService).now = func() time.Time { return time.Now().Add(verificationTTL + time.Hour) }

	_, err = svc.VerifyEmail(ctx, box.verify[res.User.ID])
	assert.ErrorIs(t, err, ErrVerificationToken)
	me, err := svc.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.False(t, me.EmailVerified)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	e := newEnv(t)
	svc, box := newAuthWithOutbox(t, e)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "nobody@example.com"))
	assert.Empty(t, box.reset)

	require.NoError(t, svc.ForgotPassword(ctx, " Alice@Example.com "))
	token := box.reset[res.User.ID]
	require.NotEmpty(t, token)

	// 重置令牌不能当访问令牌
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	for _, weak := range []string{"Ab1!", "alllowercase", "lower123456"} {
		err = svc.ResetPassword(ctx, ResetPasswordInput{Token: token, Password: weak})
		assert.ErrorIs(t, err, ErrResetPassword, weak)
	}
	err = svc.ResetPassword(ctx, ResetPasswordInput{Token: res.Token, Password: "NewPassw0rd"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordInput{Token: token, Password: "NewPassw0rd"}))
	_, err = svc.Login(ctx, LoginInput{Identifier: "alice", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginInput{Identifier: "alice", Password: "NewPassw0rd"})
	require.NoError(t, err)
}

func TestStrongPassword(t *testing.T) {
	assert.True(t, strongPassword("abcDEF12"))
	assert.True(t, strongPassword("abcdef1!"))
	assert.False(t, strongPassword("abcdefgh"))
	assert.False(t, strongPassword("ABCdefgh"))
	assert.False(t, strongPassword("aB1!"))
}
