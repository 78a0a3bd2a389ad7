package usecase

import (
	"context"
	"io"
	"sync"
	"testing"

	"learnhub/pkg/access"
	"learnhub/pkg/activity"
	"learnhub/pkg/database/dbtest"
	"learnhub/pkg/logger"
	"learnhub/pkg/models"
	"learnhub/pkg/queue"
	"learnhub/services/course/internal/repo/cache"
	"learnhub/services/course/internal/repo/persistent"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []activity.Event
}

func (r *recordingEmitter) Emit(e activity.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return true
}

func (r *recordingEmitter) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingPublisher struct {
	mu    sync.Mutex
	tasks []queue.NotificationTask
}

func (p *recordingPublisher) PublishNotificationTask(task queue.NotificationTask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, task)
	return nil
}

func (p *recordingPublisher) snapshot() []queue.NotificationTask {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.NotificationTask(nil), p.tasks...)
}

type fakeUploader struct{}

func (fakeUploader) Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (fakeUploader) Delete(ctx context.Context, key string) error { return nil }

func (fakeUploader) MaxSize() int64 { return 1 << 20 }

type fixture struct {
	db         *gorm.DB
	courses    CourseUseCase
	enrollment EnrollmentUseCase
	emitter    *recordingEmitter
	publisher  *recordingPublisher
	teacher    models.User
	admin      models.User
	student    models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)

	create := models.Permission{Name: models.PermCourseCreate}
	manage := models.Permission{Name: models.PermCourseManage}
	require.NoError(t, db.Create(&create).Error)
	require.NoError(t, db.Create(&manage).Error)
	teacherRole := models.Role{Name: models.RoleTeacher, Permissions: []models.Permission{create}}
	adminRole := models.Role{Name: models.RoleAdmin, Permissions: []models.Permission{create, manage}}
	studentRole := models.Role{Name: models.RoleStudent}
	require.NoError(t, db.Create(&teacherRole).Error)
	require.NoError(t, db.Create(&adminRole).Error)
	require.NoError(t, db.Create(&studentRole).Error)

	f := &fixture{
		db:        db,
		emitter:   &recordingEmitter{},
		publisher: &recordingPublisher{},
		teacher:   models.User{Email: "t@x.io", Username: "teacher", Password: "x", Roles: []models.Role{teacherRole}},
		admin:     models.User{Email: "a@x.io", Username: "admin", Password: "x", Roles: []models.Role{adminRole}},
		student:   models.User{Email: "s@x.io", Username: "student", Password: "x", Roles: []models.Role{studentRole}},
	}
	require.NoError(t, db.Create(&f.teacher).Error)
	require.NoError(t, db.Create(&f.admin).Error)
	require.NoError(t, db.Create(&f.student).Error)

	log := logger.New()
	courseRepo := persistent.NewCourseRepository(db)
	contentRepo := persistent.NewContentRepository(db)

	f.courses = NewCourseUseCase(
		courseRepo,
		contentRepo,
		cache.NewTreeCache(nil, log),
		access.NewChecker(db),
		fakeUploader{},
		f.emitter,
		log,
	)
	f.enrollment = NewEnrollmentUseCase(
		courseRepo,
		contentRepo,
		persistent.NewEnrollmentRepository(db),
		persistent.NewLessonViewRepository(db),
		access.NewChecker(db),
		f.emitter,
		f.publisher,
		log,
	)
	return f
}
