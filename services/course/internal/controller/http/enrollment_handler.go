package http

import (
	"net/http"

	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/services/course/internal/usecase"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	enrollmentUseCase usecase.EnrollmentUseCase
	logger            *logger.Logger
}

func NewEnrollmentHandler(enrollmentUseCase usecase.EnrollmentUseCase, log *logger.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentUseCase: enrollmentUseCase,
		logger:            log,
	}
}

// Enroll godoc
// @Summary      Enroll the current user in a course
// @Tags         enrollment
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Course ID"
// @Success      201  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /courses/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	enrollment, err := h.enrollmentUseCase.Enroll(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Enrolled", "enrollment": enrollment})
}

// Unenroll godoc
// @Summary      Leave a course
// @Tags         enrollment
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Course ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /courses/{id}/enroll [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.enrollmentUseCase.Unenroll(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Unenrolled"})
}

// Status godoc
// @Summary      Enrollment status of the current user
// @Tags         enrollment
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Course ID"
// @Success      200  {object}  entity.EnrollmentStatus
// @Failure      401  {object}  map[string]interface{}
// @Router       /courses/{id}/enrollment [get]
func (h *EnrollmentHandler) Status(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	status, err := h.enrollmentUseCase.Status(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// MyEnrollments godoc
// @Summary      Courses the current user is enrolled in
// @Tags         enrollment
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.EnrolledCourse
// @Router       /me/enrollments [get]
func (h *EnrollmentHandler) MyEnrollments(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	courses, err := h.enrollmentUseCase.MyEnrollments(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollments": courses})
}

// MarkViewed godoc
// @Summary      Mark a lesson as viewed
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lesson ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /lessons/{id}/view [post]
func (h *EnrollmentHandler) MarkViewed(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.enrollmentUseCase.MarkViewed(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lesson marked as viewed"})
}

// UnmarkViewed godoc
// @Summary      Remove a lesson view
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lesson ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /lessons/{id}/view [delete]
func (h *EnrollmentHandler) UnmarkViewed(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.enrollmentUseCase.UnmarkViewed(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lesson view removed"})
}

// Progress godoc
// @Summary      Lesson progress of the current user in a course
// @Tags         progress
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Course ID"
// @Success      200  {object}  entity.Progress
// @Router       /courses/{id}/progress [get]
func (h *EnrollmentHandler) Progress(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	progress, err := h.enrollmentUseCase.Progress(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}
