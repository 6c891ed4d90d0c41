package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/d60-Lab/tuneboxd/internal/authz"
	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
)

type CreateListInput struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=2000"`
	IsPublic    *bool  `json:"is_public"`
}

type UpdateListInput struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsPublic    *bool   `json:"is_public"`
}

type AddAlbumInput struct {
	Album AlbumInput `json:"album" binding:"required"`
	Notes string     `json:"notes" binding:"max=1000"`
}

// ListDetail 清单详情：条目按 order_index 排序
type ListDetail struct {
	model.List
	Owner        *model.UserSummary `json:"owner,omitempty"`
	Items        []model.ListItem   `json:"items"`
	LikeCount    int64              `json:"likeCount"`
	Liked        bool               `json:"liked"`
	CommentCount int64              `json:"commentCount"`
}

type ListService interface {
	Create(ctx context.Context, actor model.Actor, in CreateListInput) (*model.List, error)
	// Get 私有清单对非所有者表现为不存在
	Get(ctx context.Context, id string, viewer model.Actor) (*ListDetail, error)
	Update(ctx context.Context, actor model.Actor, id string, in UpdateListInput) (*model.List, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
	ListByUser(ctx context.Context, userID string, viewer model.Actor, limit, offset int) (*model.Page[model.List], error)
	ListPublic(ctx context.Context, limit, offset int) (*model.Page[model.List], error)

	AddAlbum(ctx context.Context, actor model.Actor, listID string, in AddAlbumInput) (*model.ListItem, error)
	RemoveAlbum(ctx context.Context, actor model.Actor, listID, albumID string) error
	ReorderAlbum(ctx context.Context, actor model.Actor, listID, albumID string, orderIndex int) error

	ToggleLike(ctx context.Context, actor model.Actor, listID string) (*LikeState, error)

	AddComment(ctx context.Context, actor model.Actor, listID, content string) (*model.ListComment, error)
	UpdateComment(ctx context.Context, actor model.Actor, commentID, content string) (*model.ListComment, error)
	DeleteComment(ctx context.Context, actor model.Actor, commentID string) error
	Comments(ctx context.Context, listID string, viewer model.Actor, limit, offset int) (*model.Page[model.ListComment], error)
}

type listService struct {
	lists     repository.ListRepository
	albums    repository.AlbumRepository
	authz     authz.Authorizer
	notifier  Notifier
	directory *UserDirectory
}

func NewListService(
	lists repository.ListRepository,
	albums repository.AlbumRepository,
	az authz.Authorizer,
	notifier Notifier,
	directory *UserDirectory,
) ListService {
	return &listService{lists: lists, albums: albums, authz: az, notifier: notifier, directory: directory}
}

// visible 读取清单并校验可见性
func (s *listService) visible(ctx context.Context, id string, viewer model.Actor) (*model.List, error) {
	l, err := s.lists.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrListNotFound
	}
	if err != nil {
		return nil, err
	}
	if !l.IsPublic && !viewer.Owns(l.UserID) {
		return nil, ErrListNotFound
	}
	return l, nil
}

// owned 仅所有者可改；私有清单对他人仍表现为不存在
func (s *listService) owned(ctx context.Context, id string, actor model.Actor) (*model.List, error) {
	l, err := s.visible(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(l.UserID) {
		return nil, ErrForbidden
	}
	return l, nil
}

func (s *listService) Create(ctx context.Context, actor model.Actor, in CreateListInput) (*model.List, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrListNameRequired
	}
	if utf8.RuneCountInString(name) > maxListName {
		return nil, ErrListNameTooLong
	}
	l := &model.List{
		UserID:      actor.UserID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		IsPublic:    in.IsPublic == nil || *in.IsPublic,
	}
	if err := s.lists.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *listService) Get(ctx context.Context, id string, viewer model.Actor) (*ListDetail, error) {
	l, err := s.visible(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	items, err := s.lists.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ListItem{}
	}
	d := &ListDetail{List: *l, Items: items}
	if d.LikeCount, err = s.lists.CountLikes(ctx, id); err != nil {
		return nil, err
	}
	if viewer.UserID != "" {
		if d.Liked, err = s.lists.HasLiked(ctx, viewer.UserID, id); err != nil {
			return nil, err
		}
	}
	if d.CommentCount, err = s.lists.CountComments(ctx, id); err != nil {
		return nil, err
	}
	if owner, err := s.directory.Summary(ctx, l.UserID); err == nil {
		d.Owner = &owner
	}
	return d, nil
}

func (s *listService) Update(ctx context.Context, actor model.Actor, id string, in UpdateListInput) (*model.List, error) {
	current, err := s.owned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrListNameRequired
		}
		if utf8.RuneCountInString(name) > maxListName {
			return nil, ErrListNameTooLong
		}
		fields["name"] = name
		current.Name = name
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
		current.Description = fields["description"].(string)
	}
	if in.IsPublic != nil {
		fields["is_public"] = *in.IsPublic
		current.IsPublic = *in.IsPublic
	}
	if len(fields) == 0 {
		return current, nil
	}
	if err := s.lists.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return afterCommit(ctx, "list.get", current, func(ctx context.Context) (*model.List, error) {
		return s.lists.GetByID(ctx, id)
	}), nil
}

func (s *listService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if _, err := s.owned(ctx, id, actor); err != nil {
		return err
	}
	err := s.lists.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrListNotFound
	}
	return err
}

func (s *listService) ListByUser(ctx context.Context, userID string, viewer model.Actor, limit, offset int) (*model.Page[model.List], error) {
	rows, total, err := s.lists.ListByUser(ctx, userID, viewer.Owns(userID), limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}

func (s *listService) ListPublic(ctx context.Context, limit, offset int) (*model.Page[model.List], error) {
	rows, total, err := s.lists.ListPublic(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}

func (s *listService) AddAlbum(ctx context.Context, actor model.Actor, listID string, in AddAlbumInput) (*model.ListItem, error) {
	if _, err := s.owned(ctx, listID, actor); err != nil {
		return nil, err
	}
	a, err := in.Album.toModel()
	if err != nil {
		return nil, err
	}
	album, err := s.albums.FindOrCreate(ctx, a)
	if err != nil {
		return nil, err
	}
	item := &model.ListItem{ListID: listID, AlbumID: album.ID, Notes: strings.TrimSpace(in.Notes)}
	if err := s.lists.AddItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlbumAlreadyInList
		}
		return nil, err
	}
	item.Album = album
	return item, nil
}

func (s *listService) RemoveAlbum(ctx context.Context, actor model.Actor, listID, albumID string) error {
	if _, err := s.owned(ctx, listID, actor); err != nil {
		return err
	}
	err := s.lists.RemoveItem(ctx, listID, albumID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAlbumNotInList
	}
	return err
}

func (s *listService) ReorderAlbum(ctx context.Context, actor model.Actor, listID, albumID string, orderIndex int) error {
	if orderIndex < 0 {
		return ErrInvalidOrderIndex
	}
	if _, err := s.owned(ctx, listID, actor); err != nil {
		return err
	}
	err := s.lists.UpdateItemOrder(ctx, listID, albumID, orderIndex)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAlbumNotInList
	}
	return err
}

func (s *listService) ToggleLike(ctx context.Context, actor model.Actor, listID string) (*LikeState, error) {
	l, err := s.visible(ctx, listID, actor)
	if err != nil {
		return nil, err
	}
	liked, err := s.lists.ToggleLike(ctx, actor.UserID, listID)
	if err != nil {
		return nil, err
	}
	if liked {
		s.notifier.Notify(ctx, Event{
			Type:        model.NotificationListLike,
			RecipientID: l.UserID,
			ActorID:     actor.UserID,
			ListID:      l.ID,
			ListName:    l.Name,
		})
	}
	n := afterCommit(ctx, "list.count_likes", int64(0), func(ctx context.Context) (int64, error) {
		return s.lists.CountLikes(ctx, listID)
	})
	return &LikeState{Liked: liked, LikeCount: n}, nil
}

func validateComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrCommentEmpty
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return "", ErrCommentTooLong
	}
	return content, nil
}

func (s *listService) AddComment(ctx context.Context, actor model.Actor, listID, content string) (*model.ListComment, error) {
	content, err := validateComment(content)
	if err != nil {
		return nil, err
	}
	l, err := s.visible(ctx, listID, actor)
	if err != nil {
		return nil, err
	}
	c := &model.ListComment{ListID: listID, UserID: actor.UserID, Content: content}
	if err := s.lists.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, Event{
		Type:        model.NotificationListComment,
		RecipientID: l.UserID,
		ActorID:     actor.UserID,
		ListID:      l.ID,
		ListName:    l.Name,
		CommentID:   c.ID,
	})
	return afterCommit(ctx, "list.get_comment", c, func(ctx context.Context) (*model.ListComment, error) {
		return s.comment(ctx, c.ID)
	}), nil
}

func (s *listService) comment(ctx context.Context, id string) (*model.ListComment, error) {
	c, err := s.lists.GetComment(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCommentNotFound
	}
	return c, err
}

func (s *listService) UpdateComment(ctx context.Context, actor model.Actor, commentID, content string) (*model.ListComment, error) {
	content, err := validateComment(content)
	if err != nil {
		return nil, err
	}
	c, err := s.comment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(c.UserID) {
		return nil, ErrForbidden
	}
	if err := s.lists.UpdateComment(ctx, commentID, content); err != nil {
		return nil, err
	}
	c.Content = content
	return afterCommit(ctx, "list.get_comment", c, func(ctx context.Context) (*model.ListComment, error) {
		return s.comment(ctx, commentID)
	}), nil
}

func (s *listService) DeleteComment(ctx context.Context, actor model.Actor, commentID string) error {
	c, err := s.comment(ctx, commentID)
	if err != nil {
		return err
	}
	if !actor.Owns(c.UserID) && !s.authz.Can(actor, authz.ModerateContent) {
		return ErrForbidden
	}
	err = s.lists.DeleteComment(ctx, commentID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCommentNotFound
	}
	return err
}

func (s *listService) Comments(ctx context.Context, listID string, viewer model.Actor, limit, offset int) (*model.Page[model.ListComment], error) {
	if _, err := s.visible(ctx, listID, viewer); err != nil {
		return nil, err
	}
	rows, total, err := s.lists.ListComments(ctx, listID, limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}
