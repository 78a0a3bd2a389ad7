package http

import (
	"errors"
	"net/http"

	"learnhub/pkg/access"
	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/pkg/s3"
	"learnhub/pkg/validation"
	"learnhub/services/auth/internal/entity"
	"learnhub/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase   usecase.AuthUseCase
	logger        *logger.Logger
	maxUploadSize int64
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, log *logger.Logger, maxUploadSize int64) *AuthHandler {
	return &AuthHandler{
		authUseCase:   authUseCase,
		logger:        log,
		maxUploadSize: maxUploadSize,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OnboardingRequest struct {
	Role string `json:"role" binding:"required,oneof=student teacher"`
}

type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type OnboardingStatusResponse struct {
	NeedsOnboarding bool `json:"needsOnboarding"`
}

func (h *AuthHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		middleware.AbortUnauthorized(c)
	case errors.Is(err, access.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrUserNotFound), errors.Is(err, entity.ErrRoleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrEmailTaken), errors.Is(err, entity.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrAccountDeactivated):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidOnboardRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, s3.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	default:
		h.logger.Error("[AUTH HANDLER] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an account without roles; onboarding attaches the first role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	user, token, err := h.authUseCase.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login godoc
// @Summary      Login user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200  {object}  AuthResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	user, token, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me godoc
// @Summary      Get current user info
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.User
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	user, err := h.authUseCase.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// CheckOnboarding godoc
// @Summary      Check whether the current user still has to pick a role
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  OnboardingStatusResponse
// @Failure      401  {object}  map[string]interface{}
// @Router       /user/check-onboarding [get]
func (h *AuthHandler) CheckOnboarding(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	needs, err := h.authUseCase.NeedsOnboarding(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, OnboardingStatusResponse{NeedsOnboarding: needs})
}

// CompleteOnboarding godoc
// @Summary      Attach the first role to the current user
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body OnboardingRequest true "Chosen role"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  map[string]interface{}
// @Router       /user/onboarding [post]
func (h *AuthHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	user, token, err := h.authUseCase.CompleteOnboarding(c.Request.Context(), userID, req.Role)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// UploadAvatar godoc
// @Summary      Upload user avatar
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Avatar image file"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Router       /user/avatar [post]
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	if err := s3.CheckSize(fileHeader.Size, h.maxUploadSize); err != nil {
		if errors.Is(err, s3.ErrTooLarge) {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	user, err := h.authUseCase.UploadAvatar(c.Request.Context(), userID, file, fileHeader.Size, fileHeader.Filename, contentType)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetRoles godoc
// @Summary      List a user's roles and permissions
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200  {object}  entity.RoleGrant
// @Failure      403  {object}  map[string]string
// @Router       /users/{id}/roles [get]
func (h *AuthHandler) GetRoles(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	grant, err := h.authUseCase.GetRoles(c.Request.Context(), callerID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, grant)
}

// AssignRole godoc
// @Summary      Assign a role to a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body AssignRoleRequest true "Role name"
// @Success      200  {object}  entity.RoleGrant
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/roles [post]
func (h *AuthHandler) AssignRole(c *gin.Context) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	grant, err := h.authUseCase.AssignRole(c.Request.Context(), callerID, c.Param("id"), req.Role)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, grant)
}
