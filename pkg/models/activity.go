package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationState string

const (
	NotificationUnread   NotificationState = "UNREAD"
	NotificationRead     NotificationState = "READ"
	NotificationArchived NotificationState = "ARCHIVED"
)

type Notification struct {
	ID         string            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Type       string            `gorm:"type:varchar(40);not null" json:"type"`
	Title      string            `gorm:"not null" json:"title"`
	Message    string            `gorm:"type:text" json:"message"`
	State      NotificationState `gorm:"type:varchar(10);not null;default:'UNREAD';index" json:"state"`
	EntityType string            `gorm:"type:varchar(40)" json:"entity_type,omitempty"`
	EntityID   string            `gorm:"type:varchar(64)" json:"entity_id,omitempty"`
	Data       datatypes.JSON    `json:"data,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	ReadAt     *time.Time        `json:"read_at,omitempty"`
	ArchivedAt *time.Time        `json:"archived_at,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

type ActivityLog struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Type       string         `gorm:"type:varchar(40);not null;index" json:"type"`
	EntityType string         `gorm:"type:varchar(40)" json:"entity_type,omitempty"`
	EntityID   string         `gorm:"type:varchar(64)" json:"entity_id,omitempty"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// Contribution is the per-user, per-day activity counter behind streaks and
// the profile heatmap. Day is formatted as 2006-01-02 in UTC.
type Contribution struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Day       string    `gorm:"type:varchar(10);primaryKey" json:"day"`
	Count     int       `gorm:"not null;default:0" json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Permission{},
		&Role{},
		&User{},
		&Tag{},
		&Course{},
		&Volume{},
		&Chapter{},
		&Module{},
		&Lesson{},
		&LessonActivity{},
		&CourseEnrollment{},
		&LessonView{},
		&Question{},
		&Answer{},
		&QuestionVote{},
		&AnswerVote{},
		&Notification{},
		&ActivityLog{},
		&Contribution{},
	}
}
