package entity

import (
	"time"

	"learnhub/pkg/activity"
)

// HeatmapDays is the span of the contribution heatmap on a profile.
const HeatmapDays = 365

type Reputation struct {
	UserID        string `json:"user_id"`
	QuestionScore int    `json:"question_score"`
	AnswerScore   int    `json:"answer_score"`
	Reputation    int    `json:"reputation"`
}

type Profile struct {
	UserID        string              `json:"user_id"`
	Username      string              `json:"username"`
	AvatarURL     string              `json:"avatar_url"`
	Reputation    int                 `json:"reputation"`
	Questions     int64               `json:"questions"`
	Answers       int64               `json:"answers"`
	Contributions []activity.DayCount `json:"contributions"`
	Streak        activity.Streak     `json:"streak"`
	MemberSince   time.Time           `json:"member_since"`
}
