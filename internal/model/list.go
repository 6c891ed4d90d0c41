package model

import "time"

// List 用户自建专辑清单
type List struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text"`
	IsPublic    bool      `json:"is_public" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (List) TableName() string { return "lists" }

// ListItem order_index 允许空洞，相同时按插入时间
type ListItem struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ListID     string    `json:"list_id" gorm:"type:varchar(36);not null;index:idx_list_item_pair,unique;index:idx_list_item_order,priority:1"`
	AlbumID    string    `json:"album_id" gorm:"type:varchar(36);not null;index:idx_list_item_pair,unique"`
	OrderIndex int       `json:"order_index" gorm:"not null;default:0;index:idx_list_item_order,priority:2"`
	Notes      string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`

	Album *Album `json:"album,omitempty" gorm:"foreignKey:AlbumID"`
}

func (ListItem) TableName() string { return "list_items" }

type ListLike struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_list_like_pair,unique"`
	ListID    string    `json:"list_id" gorm:"type:varchar(36);not null;index:idx_list_like_pair,unique;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (ListLike) TableName() string { return "list_likes" }

type ListComment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ListID    string    `json:"list_id" gorm:"type:varchar(36);not null;index:idx_list_comment_created,priority:1"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Content   string    `json:"content" gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_list_comment_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (ListComment) TableName() string { return "list_comments" }
