package model

import "time"

// NotificationType 通知类型为封闭集合，新增类型需同步模板
type NotificationType string

const (
	NotificationFollow        NotificationType = "follow"
	NotificationListLike      NotificationType = "list_like"
	NotificationListComment   NotificationType = "list_comment"
	NotificationThreadComment NotificationType = "thread_comment"
	NotificationReviewLike    NotificationType = "review_like"
)

// NotificationTypes lists every known type.
var NotificationTypes = []NotificationType{
	NotificationFollow,
	NotificationListLike,
	NotificationListComment,
	NotificationThreadComment,
	NotificationReviewLike,
}

func (t NotificationType) Valid() bool {
	for _, k := range NotificationTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Notification 只允许 unread -> read，以及删除
type Notification struct {
	ID         string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string           `json:"user_id" gorm:"type:varchar(36);not null;index:idx_notification_user_created,priority:1;index:idx_notification_user_read,priority:1"`
	Type       NotificationType `json:"type" gorm:"type:varchar(32);not null"`
	FromUserID string           `json:"from_user_id" gorm:"type:varchar(36);not null"`
	ListID     *string          `json:"list_id,omitempty" gorm:"type:varchar(36)"`
	ThreadID   *string          `json:"thread_id,omitempty" gorm:"type:varchar(36)"`
	CommentID  *string          `json:"comment_id,omitempty" gorm:"type:varchar(36)"`
	ReviewID   *string          `json:"review_id,omitempty" gorm:"type:varchar(36)"`
	Title      string           `json:"title" gorm:"type:varchar(255);not null"`
	Message    string           `json:"message" gorm:"type:text;not null"`
	IsRead     bool             `json:"is_read" gorm:"not null;default:false;index:idx_notification_user_read,priority:2"`
	CreatedAt  time.Time        `json:"created_at" gorm:"index:idx_notification_user_created,priority:2"`

	FromUser *UserSummary `json:"from_user,omitempty" gorm:"-"`
}

func (Notification) TableName() string { return "notifications" }
