package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    string         `gorm:"type:uuid;not null;index" json:"author_id"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	CoverURL    string         `json:"cover_url"`
	Published   bool           `gorm:"default:false" json:"published"`
	Tags        []Tag          `gorm:"many2many:course_tags;" json:"tags,omitempty"`
	Volumes     []Volume       `gorm:"foreignKey:CourseID" json:"volumes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

type Tag struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type Volume struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  string    `gorm:"type:uuid;not null;index" json:"course_id"`
	Title     string    `gorm:"not null" json:"title"`
	Position  int       `gorm:"default:0" json:"position"`
	Chapters  []Chapter `gorm:"foreignKey:VolumeID" json:"chapters,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Volume) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

type Chapter struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	VolumeID  string    `gorm:"type:uuid;not null;index" json:"volume_id"`
	Title     string    `gorm:"not null" json:"title"`
	Position  int       `gorm:"default:0" json:"position"`
	Modules   []Module  `gorm:"foreignKey:ChapterID" json:"modules,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ch *Chapter) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	return nil
}

type Module struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID string    `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Title     string    `gorm:"not null" json:"title"`
	Position  int       `gorm:"default:0" json:"position"`
	Lessons   []Lesson  `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// Lesson keeps CourseID alongside ModuleID so progress queries avoid walking
// the tree.
type Lesson struct {
	ID         string           `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID   string           `gorm:"type:uuid;not null;index" json:"module_id"`
	CourseID   string           `gorm:"type:uuid;not null;index" json:"course_id"`
	Title      string           `gorm:"not null" json:"title"`
	Content    string           `gorm:"type:text" json:"content"`
	Position   int              `gorm:"default:0" json:"position"`
	Activities []LessonActivity `gorm:"foreignKey:LessonID" json:"activities,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

type LessonActivity struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID  string    `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Title     string    `gorm:"not null" json:"title"`
	Kind      string    `gorm:"type:varchar(20);not null" json:"kind"`
	Content   string    `gorm:"type:text" json:"content"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *LessonActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// CourseEnrollment has no unique constraint on (user_id, course_id); the
// enrollment use case checks for an existing row before inserting.
type CourseEnrollment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	CourseID  string    `gorm:"type:uuid;not null;index" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *CourseEnrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

type LessonView struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_views_user_lesson" json:"user_id"`
	LessonID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_views_user_lesson" json:"lesson_id"`
	CourseID  string    `gorm:"type:uuid;not null;index" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (lv *LessonView) BeforeCreate(tx *gorm.DB) error {
	if lv.ID == "" {
		lv.ID = uuid.New().String()
	}
	return nil
}
