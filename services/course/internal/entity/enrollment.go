package entity

import "time"

type Enrollment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CourseID  string    `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

type EnrollmentStatus struct {
	Enrolled   bool       `json:"enrolled"`
	EnrolledAt *time.Time `json:"enrolled_at,omitempty"`
}

type EnrolledCourse struct {
	Course     *Course   `json:"course"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type Progress struct {
	CourseID      string  `json:"course_id"`
	ViewedLessons int64   `json:"viewed_lessons"`
	TotalLessons  int64   `json:"total_lessons"`
	Percent       float64 `json:"percent"`
}

// NewProgress rounds the percentage to one decimal.
func NewProgress(courseID string, viewed, total int64) *Progress {
	p := &Progress{CourseID: courseID, ViewedLessons: viewed, TotalLessons: total}
	if total > 0 {
		p.Percent = float64(int64(float64(viewed)*1000/float64(total)+0.5)) / 10
	}
	return p
}

type CourseStats struct {
	CourseID          string `json:"course_id"`
	Title             string `json:"title"`
	Enrollments       int64  `json:"enrollments"`
	RecentEnrollments int64  `json:"recent_enrollments"`
	Questions         int64  `json:"questions"`
	Lessons           int64  `json:"lessons"`
}

type Dashboard struct {
	Courses          []CourseStats `json:"courses"`
	TotalEnrollments int64         `json:"total_enrollments"`
	WindowStart      time.Time     `json:"window_start"`
}
