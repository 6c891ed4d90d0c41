package service

import (
	"context"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/pkg/cache"
)

// UserDirectory 用户摘要读取：先批量查缓存，缺失部分一次性回源
type UserDirectory struct {
	users repository.UserRepository
	cache cache.Cache[string, model.UserSummary]
}

func NewUserDirectory(users repository.UserRepository, c cache.Cache[string, model.UserSummary]) *UserDirectory {
	if c == nil {
		c = cache.Noop[string, model.UserSummary]{}
	}
	return &UserDirectory{users: users, cache: c}
}

type batchGetter interface {
	GetMany(ctx context.Context, keys []string) map[string]model.UserSummary
}

// Summaries resolves ids to summaries; unknown ids are absent from the map.
func (d *UserDirectory) Summaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error) {
	ids = dedupe(ids)
	found := make(map[string]model.UserSummary, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	if bg, ok := d.cache.(batchGetter); ok {
		for k, v := range bg.GetMany(ctx, ids) {
			found[k] = v
		}
	} else {
		for _, id := range ids {
			if v, ok := d.cache.Get(ctx, id); ok {
				found[id] = v
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return found, nil
	}

	users, err := d.users.GetMany(ctx, missing)
	if err != nil {
		return nil, err
	}
	for i := range users {
		s := users[i].Summary()
		found[s.ID] = s
		d.cache.Set(ctx, s.ID, s)
	}
	return found, nil
}

// Summary returns a single summary or ErrUserNotFound.
func (d *UserDirectory) Summary(ctx context.Context, id string) (model.UserSummary, error) {
	m, err := d.Summaries(ctx, []string{id})
	if err != nil {
		return model.UserSummary{}, err
	}
	s, ok := m[id]
	if !ok {
		return model.UserSummary{}, ErrUserNotFound
	}
	return s, nil
}

// Invalidate drops cached summaries after a profile change.
func (d *UserDirectory) Invalidate(ctx context.Context, ids ...string) {
	d.cache.Delete(ctx, ids...)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// compile-time check that the redis cache offers batch reads
var _ batchGetter = (*cache.Redis[string, model.UserSummary])(nil)
