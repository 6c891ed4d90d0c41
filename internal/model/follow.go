package model

import "time"

// Follow 关注关系（A 关注 B），有向，取消关注即硬删除。
// 复合唯一键 idx_follow_pair = (follower_id, following_id)，并发重复关注时由存储拒绝第二次插入
type Follow struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FollowerID  string    `json:"follower_id" gorm:"type:varchar(36);not null;index:idx_follow_pair,unique"`
	FollowingID string    `json:"following_id" gorm:"type:varchar(36);not null;index:idx_follow_pair,unique;index:idx_follow_following"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

func (Follow) TableName() string { return "follows" }

// ArtistFollow 用户关注外部艺人，艺人信息为关注时的快照
type ArtistFollow struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_artist_follow_pair,unique"`
	ArtistID    string    `json:"artist_id" gorm:"type:varchar(64);not null;index:idx_artist_follow_pair,unique;index"`
	ArtistName  string    `json:"artist_name" gorm:"type:varchar(255);not null"`
	ArtistImage string    `json:"artist_image" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

func (ArtistFollow) TableName() string { return "artist_follows" }
