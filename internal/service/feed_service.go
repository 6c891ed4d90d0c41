package service

import (
	"context"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
)

type FeedPage struct {
	Activities []model.ActivityItem `json:"activities"`
	Pagination Pagination           `json:"pagination"`
}

// FeedService 关注用户的动态流，无状态，每次请求重新计算
type FeedService interface {
	Activity(ctx context.Context, viewerID string, limit, offset int) (*FeedPage, error)
}

type feedService struct {
	activity repository.ActivityRepository
}

func NewFeedService(activity repository.ActivityRepository) FeedService {
	return &feedService{activity: activity}
}

func (s *feedService) Activity(ctx context.Context, viewerID string, limit, offset int) (*FeedPage, error) {
	// 多取一条用于判断 hasMore
	items, err := s.activity.Feed(ctx, viewerID, limit+1, offset)
	if err != nil {
		return nil, err
	}
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	if items == nil {
		items = []model.ActivityItem{}
	}
	return &FeedPage{
		Activities: items,
		Pagination: Pagination{Limit: limit, Offset: offset, HasMore: hasMore},
	}, nil
}
