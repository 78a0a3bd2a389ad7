package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnhub/pkg/models"

	"github.com/jinzhu/now"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DayLayout = "2006-01-02"

// DayKey buckets t into its UTC calendar day.
func DayKey(t time.Time) string {
	return now.With(t.UTC()).BeginningOfDay().Format(DayLayout)
}

// Recorder persists each event as an ActivityLog row and bumps the user's
// contribution counter for the event's day.
type Recorder struct {
	db *gorm.DB
}

var _ Listener = (*Recorder)(nil)

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Handle(ctx context.Context, e Event) error {
	if e.UserID == "" {
		return fmt.Errorf("event %s has no user", e.Type)
	}

	var meta datatypes.JSON
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		meta = datatypes.JSON(raw)
	}

	entry := models.ActivityLog{
		UserID:     e.UserID,
		Type:       e.Type,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   meta,
		CreatedAt:  e.At,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("write activity log: %w", err)
	}

	contribution := models.Contribution{
		UserID:    e.UserID,
		Day:       DayKey(e.At),
		Count:     1,
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("contributions.count + ?", 1),
			"updated_at": contribution.UpdatedAt,
		}),
	}).Create(&contribution).Error
	if err != nil {
		return fmt.Errorf("update contribution: %w", err)
	}
	return nil
}
