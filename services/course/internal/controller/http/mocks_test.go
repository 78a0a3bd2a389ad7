package http

import (
	"context"
	"io"

	"learnhub/pkg/validation"
	"learnhub/services/course/internal/entity"
	"learnhub/services/course/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockCourseUseCase struct {
	mock.Mock
}

func (m *MockCourseUseCase) CreateCourse(ctx context.Context, authorID string, in usecase.CreateCourseInput) (*entity.Course, error) {
	args := m.Called(ctx, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Course), args.Error(1)
}

func (m *MockCourseUseCase) ListCourses(ctx context.Context, viewerID string, filter entity.ListFilter) ([]*entity.Course, int64, error) {
	args := m.Called(ctx, viewerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Course), args.Get(1).(int64), args.Error(2)
}

func (m *MockCourseUseCase) GetCourse(ctx context.Context, viewerID, courseID string) (*entity.Course, error) {
	args := m.Called(ctx, viewerID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Course), args.Error(1)
}

func (m *MockCourseUseCase) UpdateCourse(ctx context.Context, userID, courseID string, update entity.CourseUpdate) (*entity.Course, error) {
	args := m.Called(ctx, userID, courseID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Course), args.Error(1)
}

func (m *MockCourseUseCase) DeleteCourse(ctx context.Context, userID, courseID string) error {
	args := m.Called(ctx, userID, courseID)
	return args.Error(0)
}

func (m *MockCourseUseCase) UploadCover(ctx context.Context, userID, courseID string, file io.ReadSeeker, size int64, filename, contentType string) (*entity.Course, error) {
	args := m.Called(ctx, userID, courseID, file, size, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Course), args.Error(1)
}

func (m *MockCourseUseCase) GetTree(ctx context.Context, viewerID, courseID string) (*entity.CourseTree, error) {
	args := m.Called(ctx, viewerID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CourseTree), args.Error(1)
}

func (m *MockCourseUseCase) GetLesson(ctx context.Context, viewerID, lessonID string) (*entity.Lesson, error) {
	args := m.Called(ctx, viewerID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lesson), args.Error(1)
}

func (m *MockCourseUseCase) AddNode(ctx context.Context, userID string, kind entity.NodeKind, node entity.NewNode) (*entity.Node, error) {
	args := m.Called(ctx, userID, kind, node)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Node), args.Error(1)
}

func (m *MockCourseUseCase) Dashboard(ctx context.Context, userID string) (*entity.Dashboard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Dashboard), args.Error(1)
}

func (m *MockCourseUseCase) CourseDashboard(ctx context.Context, userID, courseID string) (*entity.CourseStats, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CourseStats), args.Error(1)
}

var _ usecase.CourseUseCase = (*MockCourseUseCase)(nil)

type MockEnrollmentUseCase struct {
	mock.Mock
}

func (m *MockEnrollmentUseCase) Enroll(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Enrollment), args.Error(1)
}

func (m *MockEnrollmentUseCase) Unenroll(ctx context.Context, userID, courseID string) error {
	args := m.Called(ctx, userID, courseID)
	return args.Error(0)
}

func (m *MockEnrollmentUseCase) Status(ctx context.Context, userID, courseID string) (*entity.EnrollmentStatus, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EnrollmentStatus), args.Error(1)
}

func (m *MockEnrollmentUseCase) MyEnrollments(ctx context.Context, userID string) ([]*entity.EnrolledCourse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.EnrolledCourse), args.Error(1)
}

func (m *MockEnrollmentUseCase) MarkViewed(ctx context.Context, userID, lessonID string) error {
	args := m.Called(ctx, userID, lessonID)
	return args.Error(0)
}

func (m *MockEnrollmentUseCase) UnmarkViewed(ctx context.Context, userID, lessonID string) error {
	args := m.Called(ctx, userID, lessonID)
	return args.Error(0)
}

func (m *MockEnrollmentUseCase) Progress(ctx context.Context, userID, courseID string) (*entity.Progress, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Progress), args.Error(1)
}

var _ usecase.EnrollmentUseCase = (*MockEnrollmentUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Init()
	return gin.New()
}

func asUser(userID string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		h(c)
	}
}
