package http

import (
	"net/http"

	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/pkg/validation"
	"learnhub/services/forum/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	answerUseCase usecase.AnswerUseCase
	voteUseCase   usecase.VoteUseCase
	logger        *logger.Logger
}

func NewAnswerHandler(answerUseCase usecase.AnswerUseCase, voteUseCase usecase.VoteUseCase, log *logger.Logger) *AnswerHandler {
	return &AnswerHandler{
		answerUseCase: answerUseCase,
		voteUseCase:   voteUseCase,
		logger:        log,
	}
}

type AnswerRequest struct {
	Body string `json:"body" binding:"required,min=2"`
}

type VoteRequest struct {
	Value int `json:"value" binding:"required,oneof=1 -1"`
}

// PostAnswer godoc
// @Summary      Answer a question
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Question ID"
// @Param        request body AnswerRequest true "Answer"
// @Success      201  {object}  entity.Answer
// @Failure      404  {object}  map[string]string
// @Router       /questions/{id}/answers [post]
func (h *AnswerHandler) PostAnswer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	answer, err := h.answerUseCase.Post(c.Request.Context(), userID, c.Param("id"), req.Body)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, answer)
}

// ListAnswers godoc
// @Summary      Answers of a question, accepted first
// @Tags         answers
// @Produce      json
// @Param        id path string true "Question ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /questions/{id}/answers [get]
func (h *AnswerHandler) ListAnswers(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)

	answers, err := h.answerUseCase.List(c.Request.Context(), viewerID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answers": answers})
}

// UpdateAnswer godoc
// @Summary      Edit an answer
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Answer ID"
// @Param        request body AnswerRequest true "Answer"
// @Success      200  {object}  entity.Answer
// @Failure      403  {object}  map[string]string
// @Router       /answers/{id} [put]
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	answer, err := h.answerUseCase.Update(c.Request.Context(), userID, c.Param("id"), req.Body)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// DeleteAnswer godoc
// @Summary      Delete an answer
// @Tags         answers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Answer ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /answers/{id} [delete]
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	if err := h.answerUseCase.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted"})
}

// AcceptAnswer godoc
// @Summary      Accept an answer (question author only)
// @Tags         answers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Answer ID"
// @Success      200  {object}  entity.Question
// @Failure      403  {object}  map[string]string
// @Router       /answers/{id}/accept [post]
func (h *AnswerHandler) AcceptAnswer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	question, err := h.answerUseCase.Accept(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// VoteQuestion godoc
// @Summary      Vote on a question
// @Description  Repeating the same value removes the vote; the opposite value flips it
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Question ID"
// @Param        request body VoteRequest true "Vote"
// @Success      200  {object}  entity.VoteResult
// @Router       /questions/{id}/vote [post]
func (h *AnswerHandler) VoteQuestion(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	result, err := h.voteUseCase.VoteQuestion(c.Request.Context(), userID, c.Param("id"), req.Value)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// VoteAnswer godoc
// @Summary      Vote on an answer
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Answer ID"
// @Param        request body VoteRequest true "Vote"
// @Success      200  {object}  entity.VoteResult
// @Router       /answers/{id}/vote [post]
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	result, err := h.voteUseCase.VoteAnswer(c.Request.Context(), userID, c.Param("id"), req.Value)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
