package model

// All returns every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&EmailVerification{},
		&Follow{},
		&ArtistFollow{},
		&Album{},
		&Review{},
		&ReviewLike{},
		&List{},
		&ListItem{},
		&ListLike{},
		&ListComment{},
		&ForumThread{},
		&ForumReply{},
		&ForumLike{},
		&WatchlistEntry{},
		&ListeningEntry{},
		&TrackFavorite{},
		&Notification{},
	}
}
