package model

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var roleRank = map[Role]int{
	RoleUser:      1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// User 用户身份，核心流程中不做硬删除
type User struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username      string    `json:"username" gorm:"type:varchar(30);uniqueIndex;not null"`
	Email         string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash  string    `json:"-" gorm:"type:varchar(255);not null"`
	DisplayName   string    `json:"display_name" gorm:"type:varchar(60)"`
	Bio           string    `json:"bio" gorm:"type:text"`
	AvatarURL     string    `json:"avatar_url" gorm:"type:text"`
	EmailVerified bool      `json:"email_verified" gorm:"not null;default:false"`
	Role          Role      `json:"role" gorm:"type:varchar(16);not null;default:user"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Summary 列表、通知、动态中展示的最小用户信息
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}

// UserSummary is the public snapshot of a user.
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// FollowEntry is one row of a follower/following page.
type FollowEntry struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	FollowedAt  time.Time `json:"followed_at"`
	IsFollowing *bool     `json:"isFollowing,omitempty" gorm:"-"`
}

// Actor 经过认证的请求发起者
type Actor struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// HasRole reports whether the actor holds role r or a role above it.
func (a Actor) HasRole(r Role) bool {
	return roleRank[a.Role] >= roleRank[r] && roleRank[r] > 0
}

// Owns reports whether the actor authored something owned by ownerID.
func (a Actor) Owns(ownerID string) bool { return a.UserID != "" && a.UserID == ownerID }

// ProfileStats 资料页计数，可容忍短暂过期
type ProfileStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Reviews   int64 `json:"reviews"`
}

// EmailVerification 待确认的邮箱验证令牌，验证成功后删除
type EmailVerification struct {
	Token     string    `json:"-" gorm:"primaryKey;type:varchar(64)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (EmailVerification) TableName() string { return "email_verifications" }
