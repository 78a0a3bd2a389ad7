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
	"learnhub/services/forum/internal/repo/persistent"

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

func (r *recordingEmitter) count(typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
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

func (p *recordingPublisher) byType(typ string) []queue.NotificationTask {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []queue.NotificationTask
	for _, t := range p.tasks {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

type fakeUploader struct{}

func (fakeUploader) Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (fakeUploader) Delete(ctx context.Context, key string) error { return nil }

func (fakeUploader) MaxSize() int64 { return 1 << 20 }

type fixture struct {
	db        *gorm.DB
	questions QuestionUseCase
	answers   AnswerUseCase
	votes     VoteUseCase
	profiles  ProfileUseCase
	emitter   *recordingEmitter
	publisher *recordingPublisher
	alice     models.User
	bob       models.User
	carol     models.User
	moderator models.User
	course    models.Course
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)

	moderate := models.Permission{Name: models.PermQuestionModerate}
	require.NoError(t, db.Create(&moderate).Error)
	admin := models.Role{Name: models.RoleAdmin, Permissions: []models.Permission{moderate}}
	require.NoError(t, db.Create(&admin).Error)

	f := &fixture{
		db:        db,
		emitter:   &recordingEmitter{},
		publisher: &recordingPublisher{},
		alice:     models.User{Email: "alice@x.io", Username: "alice", Password: "x"},
		bob:       models.User{Email: "bob@x.io", Username: "bob", Password: "x"},
		carol:     models.User{Email: "carol@x.io", Username: "carol", Password: "x"},
		moderator: models.User{Email: "mod@x.io", Username: "mod", Password: "x", Roles: []models.Role{admin}},
	}
	for _, u := range []*models.User{&f.alice, &f.bob, &f.carol, &f.moderator} {
		require.NoError(t, db.Create(u).Error)
	}

	f.course = models.Course{AuthorID: f.carol.ID, Title: "Go", Slug: "go", Published: true}
	require.NoError(t, db.Create(&f.course).Error)

	log := logger.New()
	lookup := persistent.NewLookupRepository(db)
	questionRepo := persistent.NewQuestionRepository(db)
	answerRepo := persistent.NewAnswerRepository(db)
	checker := access.NewChecker(db)

	f.questions = NewQuestionUseCase(questionRepo, lookup, checker, fakeUploader{}, f.emitter, f.publisher, log)
	f.answers = NewAnswerUseCase(questionRepo, answerRepo, lookup, checker, f.emitter, f.publisher, log)
	f.votes = NewVoteUseCase(questionRepo, answerRepo, persistent.NewVoteRepository(db), lookup, checker, f.emitter, f.publisher, log)
	f.profiles = NewProfileUseCase(lookup, questionRepo, answerRepo, persistent.NewReputationRepository(db))
	return f
}
