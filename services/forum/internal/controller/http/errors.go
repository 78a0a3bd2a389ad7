package http

import (
	"errors"
	"net/http"

	"learnhub/pkg/access"
	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/pkg/s3"
	"learnhub/services/forum/internal/entity"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		middleware.AbortUnauthorized(c)
	case errors.Is(err, access.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrQuestionNotFound),
		errors.Is(err, entity.ErrAnswerNotFound),
		errors.Is(err, entity.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrCourseNotFound),
		errors.Is(err, entity.ErrLessonNotFound),
		errors.Is(err, entity.ErrLessonMismatch),
		errors.Is(err, entity.ErrInvalidVote),
		errors.Is(err, entity.ErrTooManyFiles):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, s3.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	default:
		log.Error("[FORUM HANDLER] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
