package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/internal/model"
	"github.com/d60-Lab/tuneboxd/internal/repository"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
	"github.com/d60-Lab/tuneboxd/pkg/metrics"
)

var tracer = otel.Tracer("github.com/d60-Lab/tuneboxd/internal/service")

// Event 一次社交动作，由通知引擎派生至多一条通知
type Event struct {
	Type        model.NotificationType
	RecipientID string
	ActorID     string

	ListID    string
	ListName  string
	ThreadID  string
	Thread    string
	CommentID string
	ReviewID  string
	AlbumName string
}

// Notifier is the write side used by the other services.
type Notifier interface {
	// Notify never returns an error; failures are logged and counted.
	Notify(ctx context.Context, ev Event)
}

type NotificationPage struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int64                `json:"unreadCount"`
	Pagination    Pagination           `json:"pagination"`
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, ownerID string, unreadOnly bool, limit, offset int) (*NotificationPage, error)
	UnreadCount(ctx context.Context, ownerID string) (int64, error)
	MarkRead(ctx context.Context, id, ownerID string) error
	MarkAllRead(ctx context.Context, ownerID string) (int64, error)
	Delete(ctx context.Context, id, ownerID string) error
	DeleteAll(ctx context.Context, ownerID string) (int64, error)
	PurgeOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type notificationService struct {
	repo      repository.NotificationRepository
	directory *UserDirectory
}

func NewNotificationService(repo repository.NotificationRepository, directory *UserDirectory) NotificationService {
	return &notificationService{repo: repo, directory: directory}
}

func (s *notificationService) Notify(ctx context.Context, ev Event) {
	ctx, span := tracer.Start(ctx, "notification.derive")
	defer span.End()
	span.SetAttributes(
		attribute.String("notification.type", string(ev.Type)),
		attribute.String("notification.recipient", ev.RecipientID),
	)

	// 自己对自己的操作不产生通知
	if ev.RecipientID == "" || ev.ActorID == ev.RecipientID {
		span.SetAttributes(attribute.Bool("notification.skipped", true))
		return
	}

	actor, err := s.directory.Summary(ctx, ev.ActorID)
	if err != nil {
		s.fail(span, ev, fmt.Errorf("resolve actor: %w", err))
		return
	}

	n, err := derive(ev, actor.Username)
	if err != nil {
		s.fail(span, ev, err)
		return
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.fail(span, ev, err)
		return
	}
	metrics.NotificationsCreated.WithLabelValues(string(ev.Type)).Inc()
}

func (s *notificationService) fail(span trace.Span, ev Event, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	metrics.NotificationsFailed.WithLabelValues(string(ev.Type)).Inc()
	logger.Warn("notification dropped",
		zap.String("type", string(ev.Type)),
		zap.String("recipient", ev.RecipientID),
		zap.String("actor", ev.ActorID),
		zap.Error(err),
	)
}

var errUnknownType = errors.New("unknown notification type")

// derive 每种类型一个固定模板
func derive(ev Event, actorName string) (*model.Notification, error) {
	n := &model.Notification{
		UserID:     ev.RecipientID,
		Type:       ev.Type,
		FromUserID: ev.ActorID,
	}
	switch ev.Type {
	case model.NotificationFollow:
		n.Title = "New follower"
		n.Message = fmt.Sprintf("%s started following you", actorName)
	case model.NotificationListLike:
		n.Title = "New like on your list"
		n.Message = fmt.Sprintf("%s liked your list '%s'", actorName, ev.ListName)
		n.ListID = ref(ev.ListID)
	case model.NotificationListComment:
		n.Title = "New comment on your list"
		n.Message = fmt.Sprintf("%s commented on your list '%s'", actorName, ev.ListName)
		n.ListID = ref(ev.ListID)
		n.CommentID = ref(ev.CommentID)
	case model.NotificationThreadComment:
		n.Title = "New reply to your thread"
		n.Message = fmt.Sprintf("%s replied to your thread '%s'", actorName, ev.Thread)
		n.ThreadID = ref(ev.ThreadID)
		n.CommentID = ref(ev.CommentID)
	case model.NotificationReviewLike:
		n.Title = "New like on your review"
		n.Message = fmt.Sprintf("%s liked your review of '%s'", actorName, ev.AlbumName)
		n.ReviewID = ref(ev.ReviewID)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownType, ev.Type)
	}
	return n, nil
}

func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *notificationService) List(ctx context.Context, ownerID string, unreadOnly bool, limit, offset int) (*NotificationPage, error) {
	rows, total, err := s.repo.List(ctx, ownerID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.UnreadCount(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].FromUserID
	}
	senders, err := s.directory.Summaries(ctx, ids)
	if err != nil {
		// 发送者信息只是装饰
		logger.Warn("load notification senders failed", zap.Error(err))
		senders = nil
	}
	for i := range rows {
		if u, ok := senders[rows[i].FromUserID]; ok {
			u := u
			rows[i].FromUser = &u
		}
	}
	if rows == nil {
		rows = []model.Notification{}
	}
	return &NotificationPage{
		Notifications: rows,
		UnreadCount:   unread,
		Pagination:    NewPagination(limit, offset, len(rows), total),
	}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, ownerID string) (int64, error) {
	return s.repo.UnreadCount(ctx, ownerID)
}

// owned loads a notification and checks the caller is its recipient.
func (s *notificationService) owned(ctx context.Context, id, ownerID string) (*model.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	if n.UserID != ownerID {
		return nil, ErrNotificationForbidden
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, ownerID string) error {
	n, err := s.owned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, ownerID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, ownerID)
}

func (s *notificationService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.owned(ctx, id, ownerID); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	return s.repo.DeleteAll(ctx, ownerID)
}

func (s *notificationService) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.repo.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, err
	}
	metrics.NotificationsPurged.Add(float64(n))
	return n, nil
}
