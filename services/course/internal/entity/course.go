package entity

import (
	"errors"
	"time"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrContentNotFound = errors.New("content not found")
	ErrAlreadyEnrolled = errors.New("already enrolled")
	ErrNotEnrolled     = errors.New("not enrolled")
	ErrLessonNotViewed = errors.New("lesson view not found")
	ErrInvalidParent   = errors.New("parent node does not exist")
)

type Course struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CoverURL    string    `json:"cover_url"`
	Published   bool      `json:"published"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CourseUpdate struct {
	Title       *string
	Description *string
	Published   *bool
	Tags        []string
}

type ListFilter struct {
	Tag           string
	AuthorID      string
	OnlyPublished bool
	Limit         int
	Offset        int
}

// Normalize applies the default page size of 20 and caps it at 100.
func (f *ListFilter) Normalize() {
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
