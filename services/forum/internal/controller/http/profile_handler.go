package http

import (
	"net/http"

	"learnhub/pkg/logger"
	"learnhub/services/forum/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUseCase usecase.ProfileUseCase
	logger         *logger.Logger
}

func NewProfileHandler(profileUseCase usecase.ProfileUseCase, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profileUseCase: profileUseCase, logger: log}
}

// GetReputation godoc
// @Summary      Reputation of a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  entity.Reputation
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/reputation [get]
func (h *ProfileHandler) GetReputation(c *gin.Context) {
	rep, err := h.profileUseCase.Reputation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GetProfile godoc
// @Summary      Public profile with reputation, counters and contribution heatmap
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  entity.Profile
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileUseCase.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
