package entity

import (
	"errors"
	"time"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidVote      = errors.New("vote value must be 1 or -1")
	ErrLessonMismatch   = errors.New("lesson does not belong to course")
	ErrTooManyFiles     = errors.New("too many attachments")
)

// MaxAttachments caps the files stored on one question.
const MaxAttachments = 5

type Question struct {
	ID               string    `json:"id"`
	AuthorID         string    `json:"author_id"`
	CourseID         *string   `json:"course_id,omitempty"`
	LessonID         *string   `json:"lesson_id,omitempty"`
	Title            string    `json:"title"`
	Body             string    `json:"body"`
	Type             string    `json:"type"`
	Visibility       string    `json:"visibility"`
	AcceptedAnswerID *string   `json:"accepted_answer_id,omitempty"`
	Attachments      []string  `json:"attachments"`
	Tags             []string  `json:"tags"`
	Score            int       `json:"score"`
	AnswerCount      int64     `json:"answer_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (q *Question) IsPublic() bool {
	return q.Visibility == "PUBLIC"
}

type NewQuestion struct {
	AuthorID   string
	CourseID   *string
	LessonID   *string
	Title      string
	Body       string
	Type       string
	Visibility string
	Tags       []string
}

type QuestionUpdate struct {
	Title      *string
	Body       *string
	Type       *string
	Visibility *string
	Tags       []string
}

type QuestionFilter struct {
	CourseID string
	Tag      string
	AuthorID string
	// ViewerID sees their own private questions and those on courses they author.
	ViewerID string
	// AllPrivate lifts the visibility filter for moderators.
	AllPrivate bool
	Limit      int
	Offset     int
}

// Normalize applies the default page size of 20 and caps it at 100.
func (f *QuestionFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

type Answer struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	AuthorID   string    `json:"author_id"`
	Body       string    `json:"body"`
	Score      int       `json:"score"`
	Accepted   bool      `json:"accepted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// VoteResult is the caller's vote after toggling (0 when removed) and the
// new total score of the target.
type VoteResult struct {
	Vote  int `json:"vote"`
	Score int `json:"score"`
}

// ValidVote reports whether v is an up or down vote.
func ValidVote(v int) bool {
	return v == 1 || v == -1
}
