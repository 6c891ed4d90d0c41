package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
)

type TrackInput struct {
	TrackID    string `json:"trackId" binding:"required,notblank,max=64"`
	TrackName  string `json:"trackName" binding:"required,notblank"`
	ArtistName string `json:"artistName" binding:"required,notblank"`
	AlbumName  string `json:"albumName"`
	ImageURL   string `json:"imageUrl"`
	DurationMs int    `json:"durationMs" binding:"min=0"`
}

// ListenInput ListenedAt 缺省为当前时间
type ListenInput struct {
	Album      AlbumInput `json:"album" binding:"required"`
	ListenedAt *time.Time `json:"listenedAt"`
}

type TrackStats struct {
	TrackID       string `json:"trackId"`
	FavoriteCount int64  `json:"favoriteCount"`
}

type TrackStatus struct {
	InFavorites bool       `json:"isInFavorites"`
	Stats       TrackStats `json:"stats"`
}

// LibraryService 用户自己的待听清单、收听历史与单曲收藏。
// 写操作只作用于 actor 自己的数据；收听历史可以公开查看
type LibraryService interface {
	AddToWatchlist(ctx context.Context, actor model.Actor, in AlbumInput) (*model.Album, error)
	RemoveFromWatchlist(ctx context.Context, actor model.Actor, albumID string) error
	InWatchlist(ctx context.Context, actor model.Actor, albumID string) (bool, error)
	Watchlist(ctx context.Context, actor model.Actor, limit, offset int) (*model.Page[model.WatchlistEntry], error)

	LogListen(ctx context.Context, actor model.Actor, in ListenInput) (*model.ListeningEntry, error)
	// RemoveListen 按记录 ID 删除一条，或按专辑删除全部；entryID 优先
	RemoveListen(ctx context.Context, actor model.Actor, entryID, albumID string) error
	History(ctx context.Context, userID string, limit, offset int) (*model.Page[model.ListeningEntry], error)
	HistoryByDay(ctx context.Context, userID string, limit int) ([]model.ListeningDay, error)

	FavoriteTrack(ctx context.Context, actor model.Actor, in TrackInput) (*model.TrackFavorite, error)
	UnfavoriteTrack(ctx context.Context, actor model.Actor, trackID string) error
	Favorites(ctx context.Context, actor model.Actor, limit, offset int) (*model.Page[model.TrackFavorite], error)
	TrackStatus(ctx context.Context, actor model.Actor, trackID string) (*TrackStatus, error)
	TrackStats(ctx context.Context, trackID string) (*TrackStats, error)
}

type libraryService struct {
	library repository.LibraryRepository
	albums  repository.AlbumRepository
	users   repository.UserRepository
	now     func() time.Time
}

func NewLibraryService(library repository.LibraryRepository, albums repository.AlbumRepository, users repository.UserRepository) LibraryService {
	return &libraryService{library: library, albums: albums, users: users, now: time.Now}
}

func (s *libraryService) album(ctx context.Context, in AlbumInput) (*model.Album, error) {
	a, err := in.toModel()
	if err != nil {
		return nil, err
	}
	return s.albums.FindOrCreate(ctx, a)
}

func (s *libraryService) AddToWatchlist(ctx context.Context, actor model.Actor, in AlbumInput) (*model.Album, error) {
	a, err := s.album(ctx, in)
	if err != nil {
		return nil, err
	}
	err = s.library.AddToWatchlist(ctx, &model.WatchlistEntry{UserID: actor.UserID, AlbumID: a.ID})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrAlreadyInWatchlist
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *libraryService) RemoveFromWatchlist(ctx context.Context, actor model.Actor, albumID string) error {
	err := s.library.RemoveFromWatchlist(ctx, actor.UserID, albumID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotInWatchlist
	}
	return err
}

func (s *libraryService) InWatchlist(ctx context.Context, actor model.Actor, albumID string) (bool, error) {
	return s.library.InWatchlist(ctx, actor.UserID, albumID)
}

func (s *libraryService) Watchlist(ctx context.Context, actor model.Actor, limit, offset int) (*model.Page[model.WatchlistEntry], error) {
	rows, total, err := s.library.Watchlist(ctx, actor.UserID, limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}

func (s *libraryService) LogListen(ctx context.Context, actor model.Actor, in ListenInput) (*model.ListeningEntry, error) {
	a, err := s.album(ctx, in.Album)
	if err != nil {
		return nil, err
	}
	at := s.now()
	if in.ListenedAt != nil && !in.ListenedAt.IsZero() {
		at = *in.ListenedAt
	}
	at = at.UTC()
	e := &model.ListeningEntry{
		UserID:     actor.UserID,
		AlbumID:    a.ID,
		ListenedAt: at,
		ListenedOn: at.Format(time.DateOnly),
	}
	err = s.library.AddListen(ctx, e)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrAlreadyListened
	}
	if err != nil {
		return nil, err
	}
	e.Album = a
	return e, nil
}

func (s *libraryService) RemoveListen(ctx context.Context, actor model.Actor, entryID, albumID string) error {
	entryID, albumID = strings.TrimSpace(entryID), strings.TrimSpace(albumID)
	var err error
	switch {
	case entryID != "":
		err = s.library.RemoveListen(ctx, actor.UserID, entryID)
	case albumID != "":
		err = s.library.RemoveAlbumListens(ctx, actor.UserID, albumID)
	default:
		return ErrListenTarget
	}
	if errors.Is(err, repository.ErrNotFound) {
		return ErrListenNotFound
	}
	return err
}

func (s *libraryService) History(ctx context.Context, userID string, limit, offset int) (*model.Page[model.ListeningEntry], error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}
	rows, total, err := s.library.History(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}

// HistoryByDay 取最近 limit 条记录，按收听日期分组，日期倒序
func (s *libraryService) HistoryByDay(ctx context.Context, userID string, limit int) ([]model.ListeningDay, error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}
	rows, _, err := s.library.History(ctx, userID, limit, 0)
	if err != nil {
		return nil, err
	}
	days := []model.ListeningDay{}
	for _, e := range rows {
		if n := len(days); n > 0 && days[n-1].Date == e.ListenedOn {
			days[n-1].Entries = append(days[n-1].Entries, e)
			continue
		}
		days = append(days, model.ListeningDay{Date: e.ListenedOn, Entries: []model.ListeningEntry{e}})
	}
	return days, nil
}

func (s *libraryService) mustExist(ctx context.Context, userID string) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *libraryService) FavoriteTrack(ctx context.Context, actor model.Actor, in TrackInput) (*model.TrackFavorite, error) {
	f := &model.TrackFavorite{
		UserID:     actor.UserID,
		TrackID:    strings.TrimSpace(in.TrackID),
		TrackName:  strings.TrimSpace(in.TrackName),
		ArtistName: strings.TrimSpace(in.ArtistName),
		AlbumName:  strings.TrimSpace(in.AlbumName),
		ImageURL:   in.ImageURL,
		DurationMs: in.DurationMs,
	}
	if f.TrackID == "" || f.TrackName == "" || f.ArtistName == "" {
		return nil, ErrTrackRequired
	}
	err := s.library.AddFavorite(ctx, f)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrAlreadyFavorite
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *libraryService) UnfavoriteTrack(ctx context.Context, actor model.Actor, trackID string) error {
	err := s.library.RemoveFavorite(ctx, actor.UserID, trackID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFavorite
	}
	return err
}

func (s *libraryService) Favorites(ctx context.Context, actor model.Actor, limit, offset int) (*model.Page[model.TrackFavorite], error) {
	rows, total, err := s.library.Favorites(ctx, actor.UserID, limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}

func (s *libraryService) TrackStatus(ctx context.Context, actor model.Actor, trackID string) (*TrackStatus, error) {
	in, err := s.library.IsFavorite(ctx, actor.UserID, trackID)
	if err != nil {
		return nil, err
	}
	stats, err := s.TrackStats(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return &TrackStatus{InFavorites: in, Stats: *stats}, nil
}

func (s *libraryService) TrackStats(ctx context.Context, trackID string) (*TrackStats, error) {
	n, err := s.library.CountFavorites(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return &TrackStats{TrackID: trackID, FavoriteCount: n}, nil
}
