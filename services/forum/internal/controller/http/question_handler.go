package http

import (
	"errors"
	"net/http"
	"strconv"

	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/pkg/s3"
	"learnhub/pkg/validation"
	"learnhub/services/forum/internal/entity"
	"learnhub/services/forum/internal/usecase"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionUseCase usecase.QuestionUseCase
	logger          *logger.Logger
	maxUploadSize   int64
}

func NewQuestionHandler(questionUseCase usecase.QuestionUseCase, log *logger.Logger, maxUploadSize int64) *QuestionHandler {
	return &QuestionHandler{
		questionUseCase: questionUseCase,
		logger:          log,
		maxUploadSize:   maxUploadSize,
	}
}

type CreateQuestionRequest struct {
	Title      string   `json:"title" binding:"required,min=5,max=200"`
	Body       string   `json:"body" binding:"required,min=10"`
	Type       string   `json:"type" binding:"omitempty,oneof=OBJECTIVE STRUCTURED OPINION"`
	Visibility string   `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE"`
	CourseID   *string  `json:"course_id" binding:"omitempty,uuid"`
	LessonID   *string  `json:"lesson_id" binding:"omitempty,uuid"`
	Tags       []string `json:"tags" binding:"max=5,dive,max=30"`
}

type UpdateQuestionRequest struct {
	Title      *string  `json:"title" binding:"omitempty,min=5,max=200"`
	Body       *string  `json:"body" binding:"omitempty,min=10"`
	Type       *string  `json:"type" binding:"omitempty,oneof=OBJECTIVE STRUCTURED OPINION"`
	Visibility *string  `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE"`
	Tags       []string `json:"tags" binding:"omitempty,max=5,dive,max=30"`
}

type QuestionListResponse struct {
	Questions []*entity.Question `json:"questions"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// CreateQuestion godoc
// @Summary      Ask a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateQuestionRequest true "Question"
// @Success      201  {object}  entity.Question
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	question, err := h.questionUseCase.Create(c.Request.Context(), entity.NewQuestion{
		AuthorID:   userID,
		CourseID:   req.CourseID,
		LessonID:   req.LessonID,
		Title:      req.Title,
		Body:       req.Body,
		Type:       req.Type,
		Visibility: req.Visibility,
		Tags:       req.Tags,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// ListQuestions godoc
// @Summary      List questions visible to the caller
// @Tags         questions
// @Produce      json
// @Param        course  query  string  false  "Course ID"
// @Param        tag     query  string  false  "Tag"
// @Param        author  query  string  false  "Author ID"
// @Param        limit   query  int     false  "Page size"  default(20)
// @Param        offset  query  int     false  "Offset"     default(0)
// @Success      200  {object}  QuestionListResponse
// @Router       /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := entity.QuestionFilter{
		CourseID: c.Query("course"),
		Tag:      c.Query("tag"),
		AuthorID: c.Query("author"),
		Limit:    limit,
		Offset:   offset,
	}
	filter.Normalize()

	questions, total, err := h.questionUseCase.List(c.Request.Context(), viewerID, filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, QuestionListResponse{Questions: questions, Total: total, Limit: filter.Limit, Offset: filter.Offset})
}

// GetQuestion godoc
// @Summary      Get a question
// @Tags         questions
// @Produce      json
// @Param        id path string true "Question ID"
// @Success      200  {object}  entity.Question
// @Failure      404  {object}  map[string]string
// @Router       /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)

	question, err := h.questionUseCase.Get(c.Request.Context(), viewerID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// UpdateQuestion godoc
// @Summary      Edit a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Question ID"
// @Param        request body UpdateQuestionRequest true "Fields to change"
// @Success      200  {object}  entity.Question
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	question, err := h.questionUseCase.Update(c.Request.Context(), userID, c.Param("id"), entity.QuestionUpdate{
		Title:      req.Title,
		Body:       req.Body,
		Type:       req.Type,
		Visibility: req.Visibility,
		Tags:       req.Tags,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary      Delete a question
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Question ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	if err := h.questionUseCase.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// UploadAttachment godoc
// @Summary      Attach a file to a question
// @Tags         questions
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Question ID"
// @Param        file formData file true "Attachment"
// @Success      200  {object}  map[string]interface{}
// @Failure      413  {object}  map[string]string
// @Router       /questions/{id}/attachments [post]
func (h *QuestionHandler) UploadAttachment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if err := s3.CheckSize(fileHeader.Size, h.maxUploadSize); err != nil {
		if errors.Is(err, s3.ErrTooLarge) {
			writeError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	urls, err := h.questionUseCase.UploadAttachment(c.Request.Context(), userID, c.Param("id"), file, fileHeader.Size, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attachments": urls})
}
