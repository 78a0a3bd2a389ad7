package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub/pkg/models"
	"learnhub/services/notification/internal/entity"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	List(ctx context.Context, userID string, filter entity.ListFilter) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// SaveTransition persists n only if the row is still in state from.
	SaveTransition(ctx context.Context, n *entity.Notification, from entity.State) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	// ArchiveReadBefore archives READ notifications created before cutoff.
	ArchiveReadBefore(ctx context.Context, cutoff, at time.Time) (int64, error)
	Recipient(ctx context.Context, userID string) (*entity.Recipient, error)
	Username(ctx context.Context, userID string) (string, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	if n.State == "" {
		n.State = entity.StateUnread
	}
	m, err := ToNotificationModel(n)
	if err != nil {
		return fmt.Errorf("encode notification data: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	var m models.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotificationNotFound
		}
		return nil, err
	}
	return ToNotificationEntity(&m), nil
}

func (r *notificationRepository) List(ctx context.Context, userID string, filter entity.ListFilter) ([]*entity.Notification, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
		if filter.State != "" {
			q = q.Where("state = ?", string(filter.State))
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Notification
	err := scoped().
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entity.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, ToNotificationEntity(&rows[i]))
	}
	return out, total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND state = ?", userID, string(entity.StateUnread)).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) SaveTransition(ctx context.Context, n *entity.Notification, from entity.State) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND state = ?", n.ID, string(from)).
		Updates(map[string]interface{}{
			"state":       string(n.State),
			"read_at":     n.ReadAt,
			"archived_at": n.ArchivedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// someone else moved it first
		return entity.ErrInvalidTransition
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND state = ?", userID, string(entity.StateUnread)).
		Updates(map[string]interface{}{
			"state":   string(entity.StateRead),
			"read_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) ArchiveReadBefore(ctx context.Context, cutoff, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("state = ? AND created_at < ?", string(entity.StateRead), cutoff).
		Updates(map[string]interface{}{
			"state":       string(entity.StateArchived),
			"archived_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) Recipient(ctx context.Context, userID string) (*entity.Recipient, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("id", "username", "email").Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrRecipientNotFound
		}
		return nil, err
	}
	return &entity.Recipient{UserID: user.ID, Username: user.Username, Email: user.Email}, nil
}

func (r *notificationRepository) Username(ctx context.Context, userID string) (string, error) {
	recipient, err := r.Recipient(ctx, userID)
	if err != nil {
		return "", err
	}
	return recipient.Username, nil
}
