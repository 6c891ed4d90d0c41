package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/d60-Lab/tuneboxd/internal/authz"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/pkg/cache"
)

// AlbumInput 外部曲库专辑快照
type AlbumInput struct {
	SpotifyID   string `json:"spotify_id" binding:"required,notblank,max=64"`
	Name        string `json:"name" binding:"required,notblank"`
	Artist      string `json:"artist" binding:"required,notblank"`
	ReleaseDate string `json:"release_date"`
	ImageURL    string `json:"image_url"`
	SpotifyURL  string `json:"spotify_url"`
}

func (a AlbumInput) toModel() (*model.Album, error) {
	a.SpotifyID = strings.TrimSpace(a.SpotifyID)
	a.Name = strings.TrimSpace(a.Name)
	a.Artist = strings.TrimSpace(a.Artist)
	if a.SpotifyID == "" || a.Name == "" || a.Artist == "" {
		return nil, ErrAlbumRequired
	}
	return &model.Album{
		SpotifyID:   a.SpotifyID,
		Name:        a.Name,
		Artist:      a.Artist,
		ReleaseDate: a.ReleaseDate,
		ImageURL:    a.ImageURL,
		SpotifyURL:  a.SpotifyURL,
	}, nil
}

type CreateReviewInput struct {
	Album   AlbumInput `json:"album" binding:"required"`
	Rating  int        `json:"rating" binding:"required,min=1,max=5"`
	Title   string     `json:"title" binding:"max=200"`
	Content string     `json:"content"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Title   *string `json:"title" binding:"omitempty,max=200"`
	Content *string `json:"content"`
}

// LikeState 点赞后的状态
type LikeState struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

type ReviewService interface {
	Create(ctx context.Context, actor model.Actor, in CreateReviewInput) (*model.Review, error)
	Get(ctx context.Context, id string) (*model.Review, error)
	Update(ctx context.Context, actor model.Actor, id string, in UpdateReviewInput) (*model.Review, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) (*model.Page[model.Review], error)
	ListByAlbum(ctx context.Context, spotifyID string, limit, offset int) (*model.Page[model.Review], error)
	ListRecent(ctx context.Context, limit, offset int) (*model.Page[model.Review], error)
	ToggleLike(ctx context.Context, actor model.Actor, id string) (*LikeState, error)
	Likes(ctx context.Context, id, viewerID string) (*LikeState, error)
}

type reviewService struct {
	reviews  repository.ReviewRepository
	albums   repository.AlbumRepository
	authz    authz.Authorizer
	notifier Notifier
	stats    cache.Cache[string, model.ProfileStats]
}

func NewReviewService(
	reviews repository.ReviewRepository,
	albums repository.AlbumRepository,
	az authz.Authorizer,
	notifier Notifier,
	stats cache.Cache[string, model.ProfileStats],
) ReviewService {
	if stats == nil {
		stats = cache.Noop[string, model.ProfileStats]{}
	}
	return &reviewService{reviews: reviews, albums: albums, authz: az, notifier: notifier, stats: stats}
}

func (s *reviewService) Create(ctx context.Context, actor model.Actor, in CreateReviewInput) (*model.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLength {
		return nil, ErrReviewTitleLong
	}
	a, err := in.Album.toModel()
	if err != nil {
		return nil, err
	}
	album, err := s.albums.FindOrCreate(ctx, a)
	if err != nil {
		return nil, err
	}

	rv := &model.Review{
		UserID:  actor.UserID,
		AlbumID: album.ID,
		Rating:  in.Rating,
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	s.stats.Delete(ctx, actor.UserID)
	rv.Album = album
	return rv, nil
}

func (s *reviewService) Get(ctx context.Context, id string) (*model.Review, error) {
	rv, err := s.reviews.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	return rv, err
}

func (s *reviewService) Update(ctx context.Context, actor model.Actor, id string, in UpdateReviewInput) (*model.Review, error) {
	rv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(rv.UserID) {
		return nil, ErrForbidden
	}
	fields := map[string]any{}
	if in.Rating != nil {
		if *in.Rating < 1 || *in.Rating > 5 {
			return nil, ErrInvalidRating
		}
		fields["rating"] = *in.Rating
		rv.Rating = *in.Rating
	}
	if in.Title != nil {
		if utf8.RuneCountInString(*in.Title) > maxTitleLength {
			return nil, ErrReviewTitleLong
		}
		rv.Title = strings.TrimSpace(*in.Title)
		fields["title"] = rv.Title
	}
	if in.Content != nil {
		rv.Content = strings.TrimSpace(*in.Content)
		fields["content"] = rv.Content
	}
	if len(fields) == 0 {
		return rv, nil
	}
	if err := s.reviews.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return afterCommit(ctx, "review.get", rv, func(ctx context.Context) (*model.Review, error) {
		return s.Get(ctx, id)
	}), nil
}

// Delete 作者或具备 content:moderate 能力的角色
func (s *reviewService) Delete(ctx context.Context, actor model.Actor, id string) error {
	rv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(rv.UserID) && !s.authz.Can(actor, authz.ModerateContent) {
		return ErrForbidden
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	s.stats.Delete(ctx, rv.UserID)
	return nil
}

func (s *reviewService) ListByUser(ctx context.Context, userID string, limit, offset int) (*model.Page[model.Review], error) {
	rows, total, err := s.reviews.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}

func (s *reviewService) ListByAlbum(ctx context.Context, spotifyID string, limit, offset int) (*model.Page[model.Review], error) {
	album, err := s.albums.GetBySpotifyID(ctx, spotifyID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.NewPage[model.Review](nil, 0, limit, offset), nil
	}
	if err != nil {
		return nil, err
	}
	rows, total, err := s.reviews.ListByAlbum(ctx, album.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}

func (s *reviewService) ListRecent(ctx context.Context, limit, offset int) (*model.Page[model.Review], error) {
	rows, total, err := s.reviews.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}

func (s *reviewService) ToggleLike(ctx context.Context, actor model.Actor, id string) (*LikeState, error) {
	rv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	liked, err := s.reviews.ToggleLike(ctx, actor.UserID, id)
	if err != nil {
		return nil, err
	}
	if liked {
		albumName := ""
		if rv.Album != nil {
			albumName = rv.Album.Name
		}
		s.notifier.Notify(ctx, Event{
			Type:        model.NotificationReviewLike,
			RecipientID: rv.UserID,
			ActorID:     actor.UserID,
			ReviewID:    rv.ID,
			AlbumName:   albumName,
		})
	}
	n := afterCommit(ctx, "review.count_likes", int64(0), func(ctx context.Context) (int64, error) {
		return s.reviews.CountLikes(ctx, id)
	})
	return &LikeState{Liked: liked, LikeCount: n}, nil
}

func (s *reviewService) Likes(ctx context.Context, id, viewerID string) (*LikeState, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	n, err := s.reviews.CountLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	st := &LikeState{LikeCount: n}
	if viewerID != "" {
		if st.Liked, err = s.reviews.HasLiked(ctx, viewerID, id); err != nil {
			return nil, err
		}
	}
	return st, nil
}
