package model

import "time"

// Review 专辑评价，每个用户每张专辑一条
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_review_user_album,unique;index:idx_review_user_created,priority:1"`
	AlbumID   string    `json:"album_id" gorm:"type:varchar(36);not null;index:idx_review_user_album,unique;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Title     string    `json:"title" gorm:"type:varchar(200)"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_review_user_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`

	Album *Album `json:"album,omitempty" gorm:"foreignKey:AlbumID"`
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Review) TableName() string { return "reviews" }

// ReviewLike 点赞只表示成员关系
type ReviewLike struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_review_like_pair,unique"`
	ReviewID  string    `json:"review_id" gorm:"type:varchar(36);not null;index:idx_review_like_pair,unique;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReviewLike) TableName() string { return "review_likes" }
