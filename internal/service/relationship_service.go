package service

import (
	"context"
	"errors"
	"strings"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/pkg/cache"
	"github.com/d60-Lab/tuneboxd/pkg/metrics"
)

// ArtistInput 关注艺人时由客户端提供的快照
type ArtistInput struct {
	ArtistID    string `json:"artistId" binding:"required,notblank,max=64"`
	ArtistName  string `json:"artistName" binding:"required,notblank,max=255"`
	ArtistImage string `json:"artistImage" binding:"omitempty,max=2048"`
}

// RelationshipService 关注图：用户→用户、用户→艺人
type RelationshipService interface {
	Follow(ctx context.Context, actorID, targetID string) (*model.Follow, error)
	Unfollow(ctx context.Context, actorID, targetID string) error
	// IsFollowing 未登录（actorID 为空）时恒为 false
	IsFollowing(ctx context.Context, actorID, targetID string) (bool, error)
	ListFollowers(ctx context.Context, userID, viewerID string, limit, offset int) (*model.Page[model.FollowEntry], error)
	ListFollowing(ctx context.Context, userID, viewerID string, limit, offset int) (*model.Page[model.FollowEntry], error)

	FollowArtist(ctx context.Context, actorID string, in ArtistInput) (*model.ArtistFollow, error)
	UnfollowArtist(ctx context.Context, actorID, artistID string) error
	IsFollowingArtist(ctx context.Context, actorID, artistID string) (bool, error)
	ListArtists(ctx context.Context, userID string, limit, offset int) (*model.Page[model.ArtistFollow], error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	artistRepo repository.ArtistFollowRepository
	users      repository.UserRepository
	notifier   Notifier
	stats      cache.Cache[string, model.ProfileStats]
}

func NewRelationshipService(
	followRepo repository.FollowRepository,
	artistRepo repository.ArtistFollowRepository,
	users repository.UserRepository,
	notifier Notifier,
	stats cache.Cache[string, model.ProfileStats],
) RelationshipService {
	if stats == nil {
		stats = cache.Noop[string, model.ProfileStats]{}
	}
	return &relationshipService{
		followRepo: followRepo,
		artistRepo: artistRepo,
		users:      users,
		notifier:   notifier,
		stats:      stats,
	}
}

func (s *relationshipService) Follow(ctx context.Context, actorID, targetID string) (*model.Follow, error) {
	if actorID == targetID {
		return nil, ErrFollowSelf
	}
	ok, err := s.users.Exists(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	f, err := s.followRepo.Create(ctx, actorID, targetID)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrAlreadyFollowing
	}
	if err != nil {
		return nil, err
	}
	metrics.FollowEdges.WithLabelValues("user", "follow").Inc()
	s.stats.Delete(ctx, actorID, targetID)

	// 边已提交；通知失败不影响关注结果
	s.notifier.Notify(ctx, Event{Type: model.NotificationFollow, RecipientID: targetID, ActorID: actorID})
	return f, nil
}

func (s *relationshipService) Unfollow(ctx context.Context, actorID, targetID string) error {
	err := s.followRepo.Delete(ctx, actorID, targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFollowing
	}
	if err != nil {
		return err
	}
	metrics.FollowEdges.WithLabelValues("user", "unfollow").Inc()
	s.stats.Delete(ctx, actorID, targetID)
	return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == "" || targetID == "" {
		return false, nil
	}
	return s.followRepo.Exists(ctx, actorID, targetID)
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID, viewerID string, limit, offset int) (*model.Page[model.FollowEntry], error) {
	return s.page(ctx, s.followRepo.ListFollowers, userID, viewerID, limit, offset)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID, viewerID string, limit, offset int) (*model.Page[model.FollowEntry], error) {
	return s.page(ctx, s.followRepo.ListFollowing, userID, viewerID, limit, offset)
}

type listFunc func(ctx context.Context, userID string, limit, offset int) ([]model.FollowEntry, int64, error)

func (s *relationshipService) mustExist(ctx context.Context, userID string) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *relationshipService) page(ctx context.Context, list listFunc, userID, viewerID string, limit, offset int) (*model.Page[model.FollowEntry], error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}

	rows, total, err := list(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	// 相对查看者标注 isFollowing
	if viewerID != "" && len(rows) > 0 {
		ids := make([]string, len(rows))
		for i := range rows {
			ids[i] = rows[i].ID
		}
		followed, err := s.followRepo.FilterFollowed(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			v := followed[rows[i].ID]
			rows[i].IsFollowing = &v
		}
	}
	return model.NewPage(rows, total, limit, offset), nil
}

func (s *relationshipService) FollowArtist(ctx context.Context, actorID string, in ArtistInput) (*model.ArtistFollow, error) {
	in.ArtistID = strings.TrimSpace(in.ArtistID)
	in.ArtistName = strings.TrimSpace(in.ArtistName)
	if in.ArtistID == "" || in.ArtistName == "" {
		return nil, ErrArtistRequired
	}
	f := &model.ArtistFollow{
		ID:          newID(),
		UserID:      actorID,
		ArtistID:    in.ArtistID,
		ArtistName:  in.ArtistName,
		ArtistImage: in.ArtistImage,
	}
	err := s.artistRepo.Create(ctx, f)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrAlreadyFollowingArtist
	}
	if err != nil {
		return nil, err
	}
	metrics.FollowEdges.WithLabelValues("artist", "follow").Inc()
	return f, nil
}

func (s *relationshipService) UnfollowArtist(ctx context.Context, actorID, artistID string) error {
	err := s.artistRepo.Delete(ctx, actorID, artistID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFollowingArtist
	}
	if err != nil {
		return err
	}
	metrics.FollowEdges.WithLabelValues("artist", "unfollow").Inc()
	return nil
}

func (s *relationshipService) IsFollowingArtist(ctx context.Context, actorID, artistID string) (bool, error) {
	if actorID == "" || artistID == "" {
		return false, nil
	}
	return s.artistRepo.Exists(ctx, actorID, artistID)
}

func (s *relationshipService) ListArtists(ctx context.Context, userID string, limit, offset int) (*model.Page[model.ArtistFollow], error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}
	rows, total, err := s.artistRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}
