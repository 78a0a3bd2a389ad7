package persistent

import (
	"encoding/json"

	"learnhub/pkg/models"
	"learnhub/services/forum/internal/entity"
)

func decodeAttachments(raw string) []string {
	urls := []string{}
	if raw == "" {
		return urls
	}
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return []string{}
	}
	return urls
}

func encodeAttachments(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	raw, _ := json.Marshal(urls)
	return string(raw)
}

func ToQuestionEntity(m *models.Question) *entity.Question {
	if m == nil {
		return nil
	}

	tags := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, t.Name)
	}

	return &entity.Question{
		ID:               m.ID,
		AuthorID:         m.AuthorID,
		CourseID:         m.CourseID,
		LessonID:         m.LessonID,
		Title:            m.Title,
		Body:             m.Body,
		Type:             string(m.Type),
		Visibility:       string(m.Visibility),
		AcceptedAnswerID: m.AcceptedAnswerID,
		Attachments:      decodeAttachments(m.AttachmentURLs),
		Tags:             tags,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func ToAnswerEntity(m *models.Answer, accepted *string) *entity.Answer {
	if m == nil {
		return nil
	}

	return &entity.Answer{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		AuthorID:   m.AuthorID,
		Body:       m.Body,
		Accepted:   accepted != nil && *accepted == m.ID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
