package model

import "time"

// Album 外部曲库专辑的本地快照，按 spotify_id 去重
type Album struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SpotifyID   string    `json:"spotify_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Artist      string    `json:"artist" gorm:"type:varchar(255);not null"`
	ReleaseDate string    `json:"release_date,omitempty" gorm:"type:varchar(32)"`
	ImageURL    string    `json:"image_url,omitempty" gorm:"type:text"`
	SpotifyURL  string    `json:"spotify_url,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Album) TableName() string { return "albums" }
