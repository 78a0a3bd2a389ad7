package http

import (
	"errors"
	"net/http"

	"learnhub/pkg/access"
	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/services/notification/internal/entity"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		middleware.AbortUnauthorized(c)
	case errors.Is(err, entity.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error("[NOTIFICATION HANDLER] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
