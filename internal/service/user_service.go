package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/pkg/cache"
)

type Profile struct {
	User        *model.User        `json:"user"`
	Stats       model.ProfileStats `json:"stats"`
	IsFollowing *bool              `json:"isFollowing,omitempty"`
}

type UpdateProfileInput struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=60"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,max=2048"`
}

type UserService interface {
	Profile(ctx context.Context, username, viewerID string) (*Profile, error)
	Search(ctx context.Context, q string, limit, offset int) (*model.Page[model.UserSummary], error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error)
	Stats(ctx context.Context, userID string) (model.ProfileStats, error)
}

type userService struct {
	users     repository.UserRepository
	follows   repository.FollowRepository
	reviews   repository.ReviewRepository
	directory *UserDirectory
	stats     cache.Cache[string, model.ProfileStats]
}

func NewUserService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	reviews repository.ReviewRepository,
	directory *UserDirectory,
	stats cache.Cache[string, model.ProfileStats],
) UserService {
	if stats == nil {
		stats = cache.Noop[string, model.ProfileStats]{}
	}
	return &userService{users: users, follows: follows, reviews: reviews, directory: directory, stats: stats}
}

func (s *userService) Profile(ctx context.Context, username, viewerID string) (*Profile, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	stats, err := s.Stats(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	p := &Profile{User: u, Stats: stats}
	if viewerID != "" && viewerID != u.ID {
		ok, err := s.follows.Exists(ctx, viewerID, u.ID)
		if err != nil {
			return nil, err
		}
		p.IsFollowing = &ok
	}
	return p, nil
}

// Stats 计数走缓存，关注/评价变化时失效
func (s *userService) Stats(ctx context.Context, userID string) (model.ProfileStats, error) {
	if st, ok := s.stats.Get(ctx, userID); ok {
		return st, nil
	}
	var st model.ProfileStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { st.Followers, err = s.follows.CountFollowers(gctx, userID); return })
	g.Go(func() (err error) { st.Following, err = s.follows.CountFollowing(gctx, userID); return })
	g.Go(func() (err error) { st.Reviews, err = s.reviews.CountByUser(gctx, userID); return })
	if err := g.Wait(); err != nil {
		return model.ProfileStats{}, err
	}
	s.stats.Set(ctx, userID, st)
	return st, nil
}

func (s *userService) Search(ctx context.Context, q string, limit, offset int) (*model.Page[model.UserSummary], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return model.NewPage[model.UserSummary](nil, 0, limit, offset), nil
	}
	users, total, err := s.users.Search(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserSummary, len(users))
	for i := range users {
		out[i] = users[i].Summary()
	}
	return model.NewPage(out, total, limit, offset), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error) {
	fields := map[string]any{}
	if in.DisplayName != nil {
		fields["display_name"] = strings.TrimSpace(*in.DisplayName)
	}
	if in.Bio != nil {
		fields["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.AvatarURL != nil {
		fields["avatar_url"] = strings.TrimSpace(*in.AvatarURL)
	}
	if len(fields) > 0 {
		err := s.users.Update(ctx, userID, fields)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if err != nil {
			return nil, err
		}
		s.directory.Invalidate(ctx, userID)
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}
