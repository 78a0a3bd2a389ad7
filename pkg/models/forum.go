package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeObjective  QuestionType = "OBJECTIVE"
	QuestionTypeStructured QuestionType = "STRUCTURED"
	QuestionTypeOpinion    QuestionType = "OPINION"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

type Question struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID         string         `gorm:"type:uuid;not null;index" json:"author_id"`
	CourseID         *string        `gorm:"type:uuid;index" json:"course_id,omitempty"`
	LessonID         *string        `gorm:"type:uuid;index" json:"lesson_id,omitempty"`
	Title            string         `gorm:"not null" json:"title"`
	Body             string         `gorm:"type:text;not null" json:"body"`
	Type             QuestionType   `gorm:"type:varchar(20);not null;default:'OBJECTIVE'" json:"type"`
	Visibility       Visibility     `gorm:"type:varchar(10);not null;default:'PUBLIC'" json:"visibility"`
	AcceptedAnswerID *string        `gorm:"type:uuid" json:"accepted_answer_id,omitempty"`
	AttachmentURLs   string         `gorm:"type:text" json:"-"`
	Tags             []Tag          `gorm:"many2many:question_tags;" json:"tags,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

type Answer struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID string         `gorm:"type:uuid;not null;index" json:"question_id"`
	AuthorID   string         `gorm:"type:uuid;not null;index" json:"author_id"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

type QuestionVote struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID string    `gorm:"type:uuid;not null;uniqueIndex:idx_question_votes_question_user" json:"question_id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_question_votes_question_user" json:"user_id"`
	Value      int       `gorm:"not null" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (v *QuestionVote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

type AnswerVote struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	AnswerID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_answer_votes_answer_user" json:"answer_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_answer_votes_answer_user" json:"user_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *AnswerVote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
