package http

import (
	"errors"
	"net/http"
	"strconv"

	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/pkg/s3"
	"learnhub/pkg/validation"
	"learnhub/services/course/internal/entity"
	"learnhub/services/course/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courseUseCase usecase.CourseUseCase
	logger        *logger.Logger
	maxUploadSize int64
}

func NewCourseHandler(courseUseCase usecase.CourseUseCase, log *logger.Logger, maxUploadSize int64) *CourseHandler {
	return &CourseHandler{
		courseUseCase: courseUseCase,
		logger:        log,
		maxUploadSize: maxUploadSize,
	}
}

type CreateCourseRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=200"`
	Description string   `json:"description" binding:"max=5000"`
	Published   bool     `json:"published"`
	Tags        []string `json:"tags" binding:"max=10,dive,max=30"`
}

type UpdateCourseRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string  `json:"description" binding:"omitempty,max=5000"`
	Published   *bool    `json:"published"`
	Tags        []string `json:"tags" binding:"omitempty,max=10,dive,max=30"`
}

type NodeRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content"`
	Kind     string `json:"kind" binding:"omitempty,oneof=quiz exercise reading video"`
	Position *int   `json:"position" binding:"omitempty,min=0"`
}

type CourseListResponse struct {
	Courses []*entity.Course `json:"courses"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// CreateCourse godoc
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCourseRequest true "Course data"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	course, err := h.courseUseCase.CreateCourse(c.Request.Context(), userID, usecase.CreateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Published:   req.Published,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Course created", "course": course})
}

// ListCourses godoc
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Param        tag     query  string  false  "Tag filter"
// @Param        author  query  string  false  "Author ID"
// @Param        limit   query  int     false  "Page size"  default(20)
// @Param        offset  query  int     false  "Offset"     default(0)
// @Success      200  {object}  CourseListResponse
// @Router       /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := entity.ListFilter{
		Tag:      c.Query("tag"),
		AuthorID: c.Query("author"),
		Limit:    limit,
		Offset:   offset,
	}
	filter.Normalize()

	courses, total, err := h.courseUseCase.ListCourses(c.Request.Context(), viewerID, filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, CourseListResponse{Courses: courses, Total: total, Limit: filter.Limit, Offset: filter.Offset})
}

// GetCourse godoc
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        id path string true "Course ID"
// @Success      200  {object}  entity.Course
// @Failure      404  {object}  map[string]interface{}
// @Router       /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)

	course, err := h.courseUseCase.GetCourse(c.Request.Context(), viewerID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse godoc
// @Summary      Update a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Course ID"
// @Param        request body UpdateCourseRequest true "Fields to change"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	course, err := h.courseUseCase.UpdateCourse(c.Request.Context(), userID, c.Param("id"), entity.CourseUpdate{
		Title:       req.Title,
		Description: req.Description,
		Published:   req.Published,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Course updated", "course": course})
}

// DeleteCourse godoc
// @Summary      Delete a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Course ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	if err := h.courseUseCase.DeleteCourse(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Course deleted"})
}

// UploadCover godoc
// @Summary      Upload a course cover image
// @Tags         courses
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Course ID"
// @Param        cover formData file true "Cover image"
// @Success      200  {object}  map[string]interface{}
// @Failure      413  {object}  map[string]interface{}
// @Router       /courses/{id}/cover [post]
func (h *CourseHandler) UploadCover(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		fail(c, http.StatusBadRequest, "cover file is required")
		return
	}
	if err := s3.CheckSize(fileHeader.Size, h.maxUploadSize); err != nil {
		if errors.Is(err, s3.ErrTooLarge) {
			writeError(c, h.logger, err)
			return
		}
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "failed to read cover")
		return
	}
	defer file.Close()

	course, err := h.courseUseCase.UploadCover(c.Request.Context(), userID, c.Param("id"), file, fileHeader.Size, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cover uploaded", "course": course})
}

// GetTree godoc
// @Summary      Get the content tree of a course
// @Tags         content
// @Produce      json
// @Param        id path string true "Course ID"
// @Success      200  {object}  entity.CourseTree
// @Failure      404  {object}  map[string]interface{}
// @Router       /courses/{id}/tree [get]
func (h *CourseHandler) GetTree(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)

	tree, err := h.courseUseCase.GetTree(c.Request.Context(), viewerID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// GetLesson godoc
// @Summary      Get a lesson with its activities
// @Tags         content
// @Produce      json
// @Param        id path string true "Lesson ID"
// @Success      200  {object}  entity.Lesson
// @Failure      404  {object}  map[string]interface{}
// @Router       /lessons/{id} [get]
func (h *CourseHandler) GetLesson(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)

	lesson, err := h.courseUseCase.GetLesson(c.Request.Context(), viewerID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// AddNode returns a handler creating a node of kind under the :id parent.
// @Summary      Add a content node (volume, chapter, module, lesson, activity)
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Parent ID"
// @Param        request body NodeRequest true "Node data"
// @Success      201  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
func (h *CourseHandler) AddNode(kind entity.NodeKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			middleware.AbortUnauthorized(c)
			return
		}

		var req NodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validation.Respond(c, err)
			return
		}

		node, err := h.courseUseCase.AddNode(c.Request.Context(), userID, kind, entity.NewNode{
			ParentID: c.Param("id"),
			Title:    req.Title,
			Content:  req.Content,
			Kind:     req.Kind,
			Position: req.Position,
		})
		if err != nil {
			writeError(c, h.logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "message": string(kind) + " created", "node": node})
	}
}

// Dashboard godoc
// @Summary      Teacher dashboard over all authored courses
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Dashboard
// @Router       /dashboard [get]
func (h *CourseHandler) Dashboard(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	dashboard, err := h.courseUseCase.Dashboard(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// CourseDashboard godoc
// @Summary      Dashboard counters for one authored course
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Course ID"
// @Success      200  {object}  entity.CourseStats
// @Failure      404  {object}  map[string]interface{}
// @Router       /dashboard/courses/{id} [get]
func (h *CourseHandler) CourseDashboard(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	stats, err := h.courseUseCase.CourseDashboard(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
