package model

import "time"

type ActivityType string

const (
	ActivityReview       ActivityType = "review"
	ActivityFollowArtist ActivityType = "follow_artist"
)

// ActivityItem 动态流中的一条；follow_artist 时 album_name/artist 存放艺人快照
type ActivityItem struct {
	ActivityType   ActivityType `json:"activity_type"`
	ActivityID     string       `json:"activity_id"`
	UserID         string       `json:"user_id"`
	Username       string       `json:"username"`
	Rating         *int         `json:"rating"`
	ReviewTitle    *string      `json:"review_title"`
	ReviewContent  *string      `json:"review_content"`
	AlbumName      *string      `json:"album_name"`
	Artist         *string      `json:"artist"`
	ImageURL       *string      `json:"image_url"`
	AlbumSpotifyID *string      `json:"album_spotify_id"`
	CreatedAt      time.Time    `json:"created_at"`
}
