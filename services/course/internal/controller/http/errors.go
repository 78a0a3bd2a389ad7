package http

import (
	"errors"
	"net/http"

	"learnhub/pkg/access"
	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/pkg/s3"
	"learnhub/services/course/internal/entity"

	"github.com/gin-gonic/gin"
)

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// writeError maps use case errors to the tagged {success, error} body.
func writeError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		middleware.AbortUnauthorized(c)
	case errors.Is(err, access.ErrForbidden):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, access.ErrNotFound),
		errors.Is(err, entity.ErrCourseNotFound),
		errors.Is(err, entity.ErrContentNotFound),
		errors.Is(err, entity.ErrLessonNotViewed):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrInvalidParent):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrAlreadyEnrolled):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, entity.ErrNotEnrolled):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, s3.ErrTooLarge):
		fail(c, http.StatusRequestEntityTooLarge, err.Error())
	default:
		log.Error("[COURSE HANDLER] %s %s: %v", c.Request.Method, c.FullPath(), err)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
