package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnhub/pkg/access"
	"learnhub/pkg/logger"
	"learnhub/pkg/queue"
	"learnhub/services/notification/internal/entity"
	"learnhub/services/notification/internal/repo/cache"
	"learnhub/services/notification/internal/repo/persistent"
	"learnhub/services/notification/internal/repo/webapi"
)

// Task types that also go out by email when a mailer is configured.
var emailedTypes = map[string]bool{
	queue.TaskAnswer:   true,
	queue.TaskAccepted: true,
}

type NotificationUseCase interface {
	// HandleTask persists a consumed task as an UNREAD notification and fans
	// it out to the live channel, the badge and email.
	HandleTask(ctx context.Context, task queue.NotificationTask) (*entity.Notification, error)
	List(ctx context.Context, userID string, filter entity.ListFilter) ([]*entity.Notification, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) (*entity.Notification, error)
	Archive(ctx context.Context, userID, notificationID string) (*entity.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	ArchiveStale(ctx context.Context) (int64, error)
	Subscribe(ctx context.Context, userID string) (<-chan []byte, func(), error)
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	realtime         cache.Realtime
	mailer           webapi.Mailer
	logger           *logger.Logger
	clock            func() time.Time
}

func NewNotificationUseCase(
	notificationRepo persistent.NotificationRepository,
	realtime cache.Realtime,
	mailer webapi.Mailer,
	logger *logger.Logger,
) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		realtime:         realtime,
		mailer:           mailer,
		logger:           logger,
		clock:            time.Now,
	}
}

func (uc *notificationUseCase) HandleTask(ctx context.Context, task queue.NotificationTask) (*entity.Notification, error) {
	if task.UserID == "" || task.Type == "" {
		return nil, fmt.Errorf("invalid task: missing user_id or type")
	}

	n := &entity.Notification{
		UserID:     task.UserID,
		Type:       task.Type,
		Title:      task.Title,
		Message:    task.Message,
		State:      entity.StateUnread,
		EntityType: task.EntityType,
		EntityID:   task.EntityID,
		Data:       task.Data,
		CreatedAt:  uc.clock().UTC(),
	}
	if task.ActorID != "" {
		if n.Data == nil {
			n.Data = map[string]interface{}{}
		}
		n.Data["actor_id"] = task.ActorID
	}

	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		uc.logger.Error("[NOTIFICATION HANDLER] Failed to store %s notification for user %s: %v", task.Type, task.UserID, err)
		return nil, err
	}
	uc.logger.Info("[NOTIFICATION HANDLER] Stored %s notification %s for user %s", n.Type, n.ID, n.UserID)

	payload, err := json.Marshal(n)
	if err != nil {
		uc.logger.Warn("[NOTIFICATION HANDLER] Failed to encode notification %s: %v", n.ID, err)
	} else {
		uc.realtime.Publish(ctx, n.UserID, payload)
	}
	uc.refreshBadge(ctx, n.UserID)

	if uc.mailer != nil && emailedTypes[n.Type] {
		uc.sendEmail(ctx, n)
	}

	return n, nil
}

func (uc *notificationUseCase) sendEmail(ctx context.Context, n *entity.Notification) {
	recipient, err := uc.notificationRepo.Recipient(ctx, n.UserID)
	if err != nil {
		uc.logger.Warn("[NOTIFICATION HANDLER] No email recipient for user %s: %v", n.UserID, err)
		return
	}

	err = uc.mailer.Send(ctx, webapi.Email{
		ToName:    recipient.Username,
		ToAddress: recipient.Email,
		Subject:   n.Title,
		Text:      n.Message,
	})
	if err != nil {
		uc.logger.Error("[NOTIFICATION HANDLER] Email for notification %s failed: %v", n.ID, err)
		return
	}
	uc.logger.Info("[NOTIFICATION HANDLER] Emailed %s notification to %s", n.Type, recipient.Email)
}

// refreshBadge recounts from the database so the badge never drifts.
func (uc *notificationUseCase) refreshBadge(ctx context.Context, userID string) int64 {
	unread, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		uc.logger.Warn("[BADGE] count for %s: %v", userID, err)
		return 0
	}
	uc.realtime.SetBadge(ctx, userID, unread)
	return unread
}

func (uc *notificationUseCase) List(ctx context.Context, userID string, filter entity.ListFilter) ([]*entity.Notification, int64, error) {
	if userID == "" {
		return nil, 0, access.ErrUnauthenticated
	}
	filter.Normalize()
	return uc.notificationRepo.List(ctx, userID, filter)
}

func (uc *notificationUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, access.ErrUnauthenticated
	}
	if unread, ok := uc.realtime.Badge(ctx, userID); ok {
		return unread, nil
	}

	unread, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	uc.realtime.SetBadge(ctx, userID, unread)
	return unread, nil
}

func (uc *notificationUseCase) owned(ctx context.Context, userID, notificationID string) (*entity.Notification, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}
	n, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, entity.ErrNotificationNotFound
	}
	return n, nil
}

func (uc *notificationUseCase) transition(ctx context.Context, userID, notificationID string, to entity.State) (*entity.Notification, error) {
	n, err := uc.owned(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}

	from := n.State
	changed, err := n.Transition(to, uc.clock().UTC())
	if err != nil {
		return nil, err
	}
	if !changed {
		return n, nil
	}

	if err := uc.notificationRepo.SaveTransition(ctx, n, from); err != nil {
		return nil, err
	}
	if from == entity.StateUnread {
		uc.refreshBadge(ctx, userID)
	}
	return n, nil
}

func (uc *notificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) (*entity.Notification, error) {
	return uc.transition(ctx, userID, notificationID, entity.StateRead)
}

func (uc *notificationUseCase) Archive(ctx context.Context, userID, notificationID string) (*entity.Notification, error) {
	return uc.transition(ctx, userID, notificationID, entity.StateArchived)
}

func (uc *notificationUseCase) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, access.ErrUnauthenticated
	}
	updated, err := uc.notificationRepo.MarkAllRead(ctx, userID, uc.clock().UTC())
	if err != nil {
		return 0, err
	}
	uc.refreshBadge(ctx, userID)
	return updated, nil
}

func (uc *notificationUseCase) ArchiveStale(ctx context.Context) (int64, error) {
	now := uc.clock().UTC()
	archived, err := uc.notificationRepo.ArchiveReadBefore(ctx, now.Add(-entity.StaleAfter), now)
	if err != nil {
		return 0, err
	}
	uc.logger.Info("[ARCHIVER] Archived %d read notifications older than %s", archived, entity.StaleAfter)
	return archived, nil
}

func (uc *notificationUseCase) Subscribe(ctx context.Context, userID string) (<-chan []byte, func(), error) {
	if userID == "" {
		return nil, nil, access.ErrUnauthenticated
	}
	return uc.realtime.Subscribe(ctx, userID)
}
