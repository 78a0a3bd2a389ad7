package entity

import "time"

// NodeKind names a level of the content tree.
type NodeKind string

const (
	NodeVolume   NodeKind = "volume"
	NodeChapter  NodeKind = "chapter"
	NodeModule   NodeKind = "module"
	NodeLesson   NodeKind = "lesson"
	NodeActivity NodeKind = "activity"
)

type CourseTree struct {
	Course  *Course  `json:"course"`
	Volumes []Volume `json:"volumes"`
}

type Volume struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
	Chapters []Chapter `json:"chapters"`
}

type Chapter struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Position int      `json:"position"`
	Modules  []Module `json:"modules"`
}

type Module struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Position int             `json:"position"`
	Lessons  []LessonSummary `json:"lessons"`
}

type LessonSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type Lesson struct {
	ID         string     `json:"id"`
	ModuleID   string     `json:"module_id"`
	CourseID   string     `json:"course_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Position   int        `json:"position"`
	Activities []Activity `json:"activities"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type Activity struct {
	ID       string `json:"id"`
	LessonID string `json:"lesson_id"`
	Title    string `json:"title"`
	Kind     string `json:"kind"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// NewNode is the payload for adding any node below parentID. Position nil
// appends after the last sibling.
type NewNode struct {
	ParentID string
	Title    string
	Content  string
	Kind     string
	Position *int
}

// Node is the created node as returned to the client.
type Node struct {
	ID       string   `json:"id"`
	Kind     NodeKind `json:"kind"`
	ParentID string   `json:"parent_id"`
	CourseID string   `json:"course_id"`
	Title    string   `json:"title"`
	Position int      `json:"position"`
}
