package persistent

import (
	"encoding/json"

	"learnhub/pkg/models"
	"learnhub/services/notification/internal/entity"

	"gorm.io/datatypes"
)

func ToNotificationEntity(m *models.Notification) *entity.Notification {
	if m == nil {
		return nil
	}

	var data map[string]interface{}
	if len(m.Data) > 0 {
		// a corrupt payload only loses the extras
		_ = json.Unmarshal(m.Data, &data)
	}

	return &entity.Notification{
		ID:         m.ID,
		UserID:     m.UserID,
		Type:       m.Type,
		Title:      m.Title,
		Message:    m.Message,
		State:      entity.State(m.State),
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Data:       data,
		CreatedAt:  m.CreatedAt,
		ReadAt:     m.ReadAt,
		ArchivedAt: m.ArchivedAt,
	}
}

func ToNotificationModel(n *entity.Notification) (*models.Notification, error) {
	m := &models.Notification{
		ID:         n.ID,
		UserID:     n.UserID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		State:      models.NotificationState(n.State),
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		CreatedAt:  n.CreatedAt,
		ReadAt:     n.ReadAt,
		ArchivedAt: n.ArchivedAt,
	}
	if len(n.Data) > 0 {
		raw, err := json.Marshal(n.Data)
		if err != nil {
			return nil, err
		}
		m.Data = datatypes.JSON(raw)
	}
	return m, nil
}
