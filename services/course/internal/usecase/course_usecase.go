package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"learnhub/pkg/access"
	"learnhub/pkg/activity"
	"learnhub/pkg/logger"
	"learnhub/pkg/models"
	"learnhub/pkg/s3"
	"learnhub/services/course/internal/entity"
	"learnhub/services/course/internal/repo/cache"
	"learnhub/services/course/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jinzhu/now"
)

// DashboardWindowDays is the span of the "recent enrollments" counter.
const DashboardWindowDays = 7

type CreateCourseInput struct {
	Title       string
	Description string
	Published   bool
	Tags        []string
}

type CourseUseCase interface {
	CreateCourse(ctx context.Context, authorID string, in CreateCourseInput) (*entity.Course, error)
	ListCourses(ctx context.Context, viewerID string, filter entity.ListFilter) ([]*entity.Course, int64, error)
	GetCourse(ctx context.Context, viewerID, courseID string) (*entity.Course, error)
	UpdateCourse(ctx context.Context, userID, courseID string, update entity.CourseUpdate) (*entity.Course, error)
	DeleteCourse(ctx context.Context, userID, courseID string) error
	UploadCover(ctx context.Context, userID, courseID string, file io.ReadSeeker, size int64, filename, contentType string) (*entity.Course, error)
	GetTree(ctx context.Context, viewerID, courseID string) (*entity.CourseTree, error)
	GetLesson(ctx context.Context, viewerID, lessonID string) (*entity.Lesson, error)
	AddNode(ctx context.Context, userID string, kind entity.NodeKind, node entity.NewNode) (*entity.Node, error)
	Dashboard(ctx context.Context, userID string) (*entity.Dashboard, error)
	CourseDashboard(ctx context.Context, userID, courseID string) (*entity.CourseStats, error)
}

type courseUseCase struct {
	courseRepo  persistent.CourseRepository
	contentRepo persistent.ContentRepository
	treeCache   cache.TreeCache
	authorizer  access.Authorizer
	uploader    s3.Uploader
	emitter     activity.Emitter
	logger      *logger.Logger
	clock       func() time.Time
}

func NewCourseUseCase(
	courseRepo persistent.CourseRepository,
	contentRepo persistent.ContentRepository,
	treeCache cache.TreeCache,
	authorizer access.Authorizer,
	uploader s3.Uploader,
	emitter activity.Emitter,
	logger *logger.Logger,
) CourseUseCase {
	return &courseUseCase{
		courseRepo:  courseRepo,
		contentRepo: contentRepo,
		treeCache:   treeCache,
		authorizer:  authorizer,
		uploader:    uploader,
		emitter:     emitter,
		logger:      logger,
		clock:       time.Now,
	}
}

// parentKind is the level a new node of kind hangs from. Volumes hang from
// the course itself.
var parentKind = map[entity.NodeKind]entity.NodeKind{
	entity.NodeChapter:  entity.NodeVolume,
	entity.NodeModule:   entity.NodeChapter,
	entity.NodeLesson:   entity.NodeModule,
	entity.NodeActivity: entity.NodeLesson,
}

func mapAccess(err error) error {
	if errors.Is(err, access.ErrNotFound) {
		return entity.ErrCourseNotFound
	}
	return err
}

func (uc *courseUseCase) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "course"
	}

	exists, err := uc.courseRepo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return fmt.Sprintf("%s-%s", base, uuid.New().String()[:8]), nil
}

func (uc *courseUseCase) CreateCourse(ctx context.Context, authorID string, in CreateCourseInput) (*entity.Course, error) {
	if err := uc.authorizer.Require(ctx, authorID, models.PermCourseCreate); err != nil {
		return nil, err
	}

	courseSlug, err := uc.uniqueSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	course := &entity.Course{
		AuthorID:    authorID,
		Title:       in.Title,
		Slug:        courseSlug,
		Description: in.Description,
		Published:   in.Published,
		Tags:        in.Tags,
	}
	if err := uc.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	uc.emitter.Emit(activity.Event{
		UserID:     authorID,
		Type:       activity.TypeCourseCreated,
		EntityType: "course",
		EntityID:   course.ID,
		Metadata:   map[string]interface{}{"title": course.Title},
	})

	uc.logger.Info("[COURSE] %s created course %s (%s)", authorID, course.ID, course.Slug)
	return course, nil
}

func (uc *courseUseCase) ListCourses(ctx context.Context, viewerID string, filter entity.ListFilter) ([]*entity.Course, int64, error) {
	// authors see their own drafts
	filter.OnlyPublished = filter.AuthorID == "" || filter.AuthorID != viewerID
	return uc.courseRepo.List(ctx, filter)
}

func (uc *courseUseCase) visible(ctx context.Context, viewerID string, course *entity.Course) error {
	return courseVisible(ctx, uc.authorizer, viewerID, course)
}

// courseVisible hides unpublished courses from everyone but their managers.
func courseVisible(ctx context.Context, authorizer access.Authorizer, viewerID string, course *entity.Course) error {
	if course.Published {
		return nil
	}
	if viewerID == "" {
		return entity.ErrCourseNotFound
	}
	return mapAccess(authorizer.CanViewCourse(ctx, viewerID, course.ID))
}

func (uc *courseUseCase) GetCourse(ctx context.Context, viewerID, courseID string) (*entity.Course, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := uc.visible(ctx, viewerID, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *courseUseCase) UpdateCourse(ctx context.Context, userID, courseID string, update entity.CourseUpdate) (*entity.Course, error) {
	if err := uc.authorizer.CanManageCourse(ctx, userID, courseID); err != nil {
		return nil, mapAccess(err)
	}

	course, err := uc.courseRepo.Update(ctx, courseID, update)
	if err != nil {
		return nil, err
	}
	uc.treeCache.Invalidate(ctx, courseID)
	return course, nil
}

func (uc *courseUseCase) DeleteCourse(ctx context.Context, userID, courseID string) error {
	if err := uc.authorizer.CanManageCourse(ctx, userID, courseID); err != nil {
		return mapAccess(err)
	}

	if err := uc.courseRepo.Delete(ctx, courseID); err != nil {
		return err
	}
	uc.treeCache.Invalidate(ctx, courseID)
	uc.logger.Info("[COURSE] %s deleted course %s", userID, courseID)
	return nil
}

func (uc *courseUseCase) UploadCover(ctx context.Context, userID, courseID string, file io.ReadSeeker, size int64, filename, contentType string) (*entity.Course, error) {
	if err := uc.authorizer.CanManageCourse(ctx, userID, courseID); err != nil {
		return nil, mapAccess(err)
	}

	url, err := uc.uploader.Upload(ctx, s3.ObjectKey("covers", courseID, filename), file, size, contentType)
	if err != nil {
		return nil, err
	}
	if err := uc.courseRepo.SetCover(ctx, courseID, url); err != nil {
		return nil, err
	}
	uc.treeCache.Invalidate(ctx, courseID)
	return uc.courseRepo.GetByID(ctx, courseID)
}

func (uc *courseUseCase) GetTree(ctx context.Context, viewerID, courseID string) (*entity.CourseTree, error) {
	tree, ok := uc.treeCache.Get(ctx, courseID)
	if !ok {
		var err error
		tree, err = uc.contentRepo.Tree(ctx, courseID)
		if err != nil {
			return nil, err
		}
		uc.treeCache.Set(ctx, tree)
	}

	if err := uc.visible(ctx, viewerID, tree.Course); err != nil {
		return nil, err
	}
	return tree, nil
}

func (uc *courseUseCase) GetLesson(ctx context.Context, viewerID, lessonID string) (*entity.Lesson, error) {
	lesson, err := uc.contentRepo.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	course, err := uc.courseRepo.GetByID(ctx, lesson.CourseID)
	if errors.Is(err, entity.ErrCourseNotFound) {
		return nil, entity.ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := uc.visible(ctx, viewerID, course); err != nil {
		return nil, entity.ErrContentNotFound
	}
	return lesson, nil
}

func (uc *courseUseCase) AddNode(ctx context.Context, userID string, kind entity.NodeKind, node entity.NewNode) (*entity.Node, error) {
	courseID := node.ParentID
	if kind != entity.NodeVolume {
		pk, ok := parentKind[kind]
		if !ok {
			return nil, fmt.Errorf("unknown node kind %q", kind)
		}
		var err error
		courseID, err = uc.contentRepo.CourseIDOf(ctx, pk, node.ParentID)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.authorizer.CanManageCourse(ctx, userID, courseID); err != nil {
		return nil, mapAccess(err)
	}

	created, err := uc.contentRepo.AddNode(ctx, kind, courseID, node)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", kind, err)
	}
	uc.treeCache.Invalidate(ctx, courseID)
	return created, nil
}

func (uc *courseUseCase) windowStart() time.Time {
	return now.With(uc.clock()).BeginningOfDay().AddDate(0, 0, -(DashboardWindowDays - 1))
}

func (uc *courseUseCase) Dashboard(ctx context.Context, userID string) (*entity.Dashboard, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}

	since := uc.windowStart()
	stats, err := uc.courseRepo.AuthorStats(ctx, userID, "", since)
	if err != nil {
		return nil, err
	}

	dashboard := &entity.Dashboard{Courses: stats, WindowStart: since}
	for _, s := range stats {
		dashboard.TotalEnrollments += s.Enrollments
	}
	return dashboard, nil
}

// CourseDashboard is limited to the course author; anyone else gets
// ErrCourseNotFound.
func (uc *courseUseCase) CourseDashboard(ctx context.Context, userID, courseID string) (*entity.CourseStats, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}

	stats, err := uc.courseRepo.AuthorStats(ctx, userID, courseID, uc.windowStart())
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, entity.ErrCourseNotFound
	}
	return &stats[0], nil
}
