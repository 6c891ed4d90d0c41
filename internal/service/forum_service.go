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

const (
	defaultCategory = "general"
	defaultLanguage = "es"
)

type ThreadInput struct {
	Title    string `json:"title" binding:"required,notblank,max=200"`
	Content  string `json:"content" binding:"required,notblank"`
	Category string `json:"category" binding:"max=50"`
	Language string `json:"language" binding:"max=8"`
}

type UpdateThreadInput struct {
	Title    *string `json:"title" binding:"omitempty,notblank,max=200"`
	Content  *string `json:"content" binding:"omitempty,notblank"`
	Category *string `json:"category" binding:"omitempty,max=50"`
}

type ThreadDetail struct {
	model.ForumThread
	ReplyCount int64 `json:"replyCount"`
	LikeCount  int64 `json:"likeCount"`
	Liked      bool  `json:"liked"`
}

type ForumService interface {
	CreateThread(ctx context.Context, actor model.Actor, in ThreadInput) (*model.ForumThread, error)
	GetThread(ctx context.Context, id, viewerID string) (*ThreadDetail, error)
	ListThreads(ctx context.Context, f repository.ThreadFilter, limit, offset int) (*model.Page[model.ForumThread], error)
	// Categories 已使用的分类加上尚未出现的默认分类
	Categories(ctx context.Context) ([]CategoryCount, error)
	Languages(ctx context.Context) []LanguageCount
	UpdateThread(ctx context.Context, actor model.Actor, id string, in UpdateThreadInput) (*model.ForumThread, error)
	DeleteThread(ctx context.Context, actor model.Actor, id string) error
	SetLocked(ctx context.Context, actor model.Actor, id string, locked bool) (*model.ForumThread, error)
	SetPinned(ctx context.Context, actor model.Actor, id string, pinned bool) (*model.ForumThread, error)

	// Reply 主题被锁定时返回 Forbidden
	Reply(ctx context.Context, actor model.Actor, threadID, content string) (*model.ForumReply, error)
	Replies(ctx context.Context, threadID string, limit, offset int) (*model.Page[model.ForumReply], error)
	UpdateReply(ctx context.Context, actor model.Actor, replyID, content string) (*model.ForumReply, error)
	DeleteReply(ctx context.Context, actor model.Actor, replyID string) error

	ToggleLike(ctx context.Context, actor model.Actor, target model.LikeTarget, targetID string) (*LikeState, error)
}

type forumService struct {
	forum    repository.ForumRepository
	authz    authz.Authorizer
	notifier Notifier
}

func NewForumService(forum repository.ForumRepository, az authz.Authorizer, notifier Notifier) ForumService {
	return &forumService{forum: forum, authz: az, notifier: notifier}
}

func (s *forumService) thread(ctx context.Context, id string) (*model.ForumThread, error) {
	t, err := s.forum.GetThread(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrThreadNotFound
	}
	return t, err
}

func (s *forumService) reply(ctx context.Context, id string) (*model.ForumReply, error) {
	rp, err := s.forum.GetReply(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReplyNotFound
	}
	return rp, err
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return "", ErrThreadTitle
	}
	return title, nil
}

func (s *forumService) CreateThread(ctx context.Context, actor model.Actor, in ThreadInput) (*model.ForumThread, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrThreadContent
	}
	t := &model.ForumThread{
		UserID:   actor.UserID,
		Title:    title,
		Content:  content,
		Category: orDefault(in.Category, defaultCategory),
		Language: orDefault(in.Language, defaultLanguage),
	}
	if err := s.forum.CreateThread(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func (s *forumService) GetThread(ctx context.Context, id, viewerID string) (*ThreadDetail, error) {
	t, err := s.thread(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &ThreadDetail{ForumThread: *t}
	if d.ReplyCount, err = s.forum.CountReplies(ctx, id); err != nil {
		return nil, err
	}
	if d.LikeCount, err = s.forum.CountLikes(ctx, model.LikeTargetThread, id); err != nil {
		return nil, err
	}
	if viewerID != "" {
		if d.Liked, err = s.forum.HasLiked(ctx, viewerID, model.LikeTargetThread, id); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *forumService) ListThreads(ctx context.Context, f repository.ThreadFilter, limit, offset int) (*model.Page[model.ForumThread], error) {
	rows, total, err := s.forum.ListThreads(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}

func (s *forumService) UpdateThread(ctx context.Context, actor model.Actor, id string, in UpdateThreadInput) (*model.ForumThread, error) {
	t, err := s.thread(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(t.UserID) {
		return nil, ErrForbidden
	}
	fields := map[string]any{}
	if in.Title != nil {
		title, err := validateTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
		t.Title = title
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" {
			return nil, ErrThreadContent
		}
		fields["content"] = content
		t.Content = content
	}
	if in.Category != nil {
		t.Category = orDefault(*in.Category, defaultCategory)
		fields["category"] = t.Category
	}
	if len(fields) == 0 {
		return t, nil
	}
	if err := s.forum.UpdateThread(ctx, id, fields); err != nil {
		return nil, err
	}
	return afterCommit(ctx, "forum.get_thread", t, func(ctx context.Context) (*model.ForumThread, error) {
		return s.thread(ctx, id)
	}), nil
}

func (s *forumService) DeleteThread(ctx context.Context, actor model.Actor, id string) error {
	t, err := s.thread(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(t.UserID) && !s.authz.Can(actor, authz.ModerateContent) {
		return ErrForbidden
	}
	err = s.forum.DeleteThread(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrThreadNotFound
	}
	return err
}

func (s *forumService) SetLocked(ctx context.Context, actor model.Actor, id string, locked bool) (*model.ForumThread, error) {
	return s.moderate(ctx, actor, authz.LockThread, id, "is_locked", locked)
}

func (s *forumService) SetPinned(ctx context.Context, actor model.Actor, id string, pinned bool) (*model.ForumThread, error) {
	return s.moderate(ctx, actor, authz.PinThread, id, "is_pinned", pinned)
}

func (s *forumService) moderate(ctx context.Context, actor model.Actor, cap authz.Capability, id, column string, v bool) (*model.ForumThread, error) {
	if !s.authz.Can(actor, cap) {
		return nil, ErrForbidden
	}
	t, err := s.thread(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.forum.UpdateThread(ctx, id, map[string]any{column: v}); err != nil {
		return nil, err
	}
	switch column {
	case "is_locked":
		t.IsLocked = v
	case "is_pinned":
		t.IsPinned = v
	}
	return afterCommit(ctx, "forum.get_thread", t, func(ctx context.Context) (*model.ForumThread, error) {
		return s.thread(ctx, id)
	}), nil
}

func validateReply(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrReplyEmpty
	}
	if utf8.RuneCountInString(content) > maxReplyLength {
		return "", ErrReplyTooLong
	}
	return content, nil
}

func (s *forumService) Reply(ctx context.Context, actor model.Actor, threadID, content string) (*model.ForumReply, error) {
	content, err := validateReply(content)
	if err != nil {
		return nil, err
	}
	t, err := s.thread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if t.IsLocked {
		return nil, ErrThreadLocked
	}
	rp := &model.ForumReply{ThreadID: threadID, UserID: actor.UserID, Content: content}
	if err := s.forum.CreateReply(ctx, rp); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, Event{
		Type:        model.NotificationThreadComment,
		RecipientID: t.UserID,
		ActorID:     actor.UserID,
		ThreadID:    t.ID,
		Thread:      t.Title,
		CommentID:   rp.ID,
	})
	return afterCommit(ctx, "forum.get_reply", rp, func(ctx context.Context) (*model.ForumReply, error) {
		return s.reply(ctx, rp.ID)
	}), nil
}

func (s *forumService) Replies(ctx context.Context, threadID string, limit, offset int) (*model.Page[model.ForumReply], error) {
	if _, err := s.thread(ctx, threadID); err != nil {
		return nil, err
	}
	rows, total, err := s.forum.ListReplies(ctx, threadID, limit, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(rows, total, limit, offset), nil
}

func (s *forumService) UpdateReply(ctx context.Context, actor model.Actor, replyID, content string) (*model.ForumReply, error) {
	content, err := validateReply(content)
	if err != nil {
		return nil, err
	}
	rp, err := s.reply(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(rp.UserID) {
		return nil, ErrForbidden
	}
	if err := s.forum.UpdateReply(ctx, replyID, content); err != nil {
		return nil, err
	}
	rp.Content = content
	return afterCommit(ctx, "forum.get_reply", rp, func(ctx context.Context) (*model.ForumReply, error) {
		return s.reply(ctx, replyID)
	}), nil
}

func (s *forumService) DeleteReply(ctx context.Context, actor model.Actor, replyID string) error {
	rp, err := s.reply(ctx, replyID)
	if err != nil {
		return err
	}
	if !actor.Owns(rp.UserID) && !s.authz.Can(actor, authz.ModerateContent) {
		return ErrForbidden
	}
	err = s.forum.DeleteReply(ctx, replyID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrReplyNotFound
	}
	return err
}

func (s *forumService) ToggleLike(ctx context.Context, actor model.Actor, target model.LikeTarget, targetID string) (*LikeState, error) {
	switch target {
	case model.LikeTargetThread:
		if _, err := s.thread(ctx, targetID); err != nil {
			return nil, err
		}
	case model.LikeTargetReply:
		if _, err := s.reply(ctx, targetID); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidLikeType
	}
	liked, err := s.forum.ToggleLike(ctx, actor.UserID, target, targetID)
	if err != nil {
		return nil, err
	}
	n := afterCommit(ctx, "forum.count_likes", int64(0), func(ctx context.Context) (int64, error) {
		return s.forum.CountLikes(ctx, target, targetID)
	})
	return &LikeState{Liked: liked, LikeCount: n}, nil
}
