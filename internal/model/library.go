package model

import "time"

// WatchlistEntry 待听清单中的一张专辑，(user, album) 唯一
type WatchlistEntry struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_watchlist_pair,unique;index:idx_watchlist_user_created,priority:1"`
	AlbumID   string    `json:"album_id" gorm:"type:varchar(36);not null;index:idx_watchlist_pair,unique"`
	CreatedAt time.Time `json:"added_at" gorm:"index:idx_watchlist_user_created,priority:2"`

	Album *Album `json:"album,omitempty" gorm:"foreignKey:AlbumID"`
}

func (WatchlistEntry) TableName() string { return "watchlist" }

// ListeningEntry 一次收听记录。同一专辑同一天（UTC）只记一次
type ListeningEntry struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_listen_day,unique;index:idx_listen_user_at,priority:1"`
	AlbumID    string    `json:"album_id" gorm:"type:varchar(36);not null;index:idx_listen_day,unique"`
	ListenedOn string    `json:"listened_on" gorm:"type:varchar(10);not null;index:idx_listen_day,unique"`
	ListenedAt time.Time `json:"listened_at" gorm:"not null;index:idx_listen_user_at,priority:2"`
	CreatedAt  time.Time `json:"created_at"`

	Album *Album `json:"album,omitempty" gorm:"foreignKey:AlbumID"`
}

func (ListeningEntry) TableName() string { return "listening_history" }

// ListeningDay 按日期分组的收听记录
type ListeningDay struct {
	Date    string           `json:"date"`
	Entries []ListeningEntry `json:"albums"`
}

// TrackFavorite 收藏的单曲，曲目信息为收藏时的快照
type TrackFavorite struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_track_fav_pair,unique;index:idx_track_fav_user_created,priority:1"`
	TrackID    string    `json:"track_id" gorm:"type:varchar(64);not null;index:idx_track_fav_pair,unique;index"`
	TrackName  string    `json:"track_name" gorm:"type:varchar(255);not null"`
	ArtistName string    `json:"artist_name" gorm:"type:varchar(255);not null"`
	AlbumName  string    `json:"album_name,omitempty" gorm:"type:varchar(255)"`
	ImageURL   string    `json:"image_url,omitempty" gorm:"type:text"`
	DurationMs int       `json:"duration_ms,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"index:idx_track_fav_user_created,priority:2"`
}

func (TrackFavorite) TableName() string { return "track_favorites" }
