package model

import "time"

type ForumThread struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Title     string    `json:"title" gorm:"type:varchar(200);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Category  string    `json:"category" gorm:"type:varchar(50);index;default:general"`
	Language  string    `json:"language" gorm:"type:varchar(8);index;default:es"`
	IsLocked  bool      `json:"is_locked" gorm:"not null;default:false"`
	IsPinned  bool      `json:"is_pinned" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (ForumThread) TableName() string { return "forum_threads" }

type ForumReply struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ThreadID  string    `json:"thread_id" gorm:"type:varchar(36);not null;index:idx_forum_reply_created,priority:1"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_forum_reply_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (ForumReply) TableName() string { return "forum_replies" }

type LikeTarget string

const (
	LikeTargetThread LikeTarget = "thread"
	LikeTargetReply  LikeTarget = "reply"
)

// ForumLike 主题和回复共用一张表，(user, target_type, target_id) 唯一
type ForumLike struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `json:"user_id" gorm:"type:varchar(36);not null;index:idx_forum_like_triple,unique"`
	TargetType LikeTarget `json:"target_type" gorm:"type:varchar(16);not null;index:idx_forum_like_triple,unique;index:idx_forum_like_target,priority:1"`
	TargetID   string     `json:"target_id" gorm:"type:varchar(36);not null;index:idx_forum_like_triple,unique;index:idx_forum_like_target,priority:2"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (ForumLike) TableName() string { return "forum_likes" }

// ForumFacet 某个分类或语言下的主题数
type ForumFacet struct {
	Value       string `json:"value"`
	ThreadCount int64  `json:"thread_count"`
}
