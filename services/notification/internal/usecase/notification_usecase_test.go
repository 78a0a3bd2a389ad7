package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"learnhub/pkg/access"
	"learnhub/pkg/database/dbtest"
	"learnhub/pkg/logger"
	"learnhub/pkg/models"
	"learnhub/pkg/queue"
	"learnhub/services/notification/internal/entity"
	"learnhub/services/notification/internal/repo/persistent"
	"learnhub/services/notification/internal/repo/webapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRealtime struct {
	mu        sync.Mutex
	badges    map[string]int64
	published map[string][][]byte
}

func newFakeRealtime() *fakeRealtime {
	return &fakeRealtime{badges: map[string]int64{}, published: map[string][][]byte{}}
}

func (f *fakeRealtime) Badge(ctx context.Context, userID string) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.badges[userID]
	return v, ok
}

func (f *fakeRealtime) SetBadge(ctx context.Context, userID string, unread int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.badges[userID] = unread
}

func (f *fakeRealtime) Publish(ctx context.Context, userID string, payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[userID] = append(f.published[userID], payload)
}

func (f *fakeRealtime) Subscribe(ctx context.Context, userID string) (<-chan []byte, func(), error) {
	ch := make(chan []byte)
	return ch, func() {}, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []webapi.Email
}

func (m *recordingMailer) Send(ctx context.Context, msg webapi.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type fixture struct {
	uc       *notificationUseCase
	realtime *fakeRealtime
	mailer   *recordingMailer
	now      time.Time
	alice    models.User
	bob      models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)

	alice := models.User{Email: "alice@example.com", Username: "alice", Password: "x"}
	bob := models.User{Email: "bob@example.com", Username: "bob", Password: "x"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	f := &fixture{
		realtime: newFakeRealtime(),
		mailer:   &recordingMailer{},
		now:      time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		alice:    alice,
		bob:      bob,
	}
	uc := NewNotificationUseCase(persistent.NewNotificationRepository(db), f.realtime, f.mailer, logger.New()).(*notificationUseCase)
	uc.clock = func() time.Time { return f.now }
	f.uc = uc
	return f
}

func (f *fixture) deliver(t *testing.T, taskType, userID string) *entity.Notification {
	t.Helper()
	n, err := f.uc.HandleTask(context.Background(), queue.NotificationTask{
		Type:       taskType,
		UserID:     userID,
		ActorID:    f.bob.ID,
		Title:      "New answer",
		Message:    "bob answered your question",
		EntityType: "question",
		EntityID:   "q-1",
	})
	require.NoError(t, err)
	return n
}

func TestHandleTask(t *testing.T) {
	f := newFixture(t)
	n := f.deliver(t, queue.TaskAnswer, f.alice.ID)

	assert.Equal(t, entity.StateUnread, n.State)
	assert.Equal(t, f.bob.ID, n.Data["actor_id"])

	require.Len(t, f.realtime.published[f.alice.ID], 1)
	var pushed entity.Notification
	require.NoError(t, json.Unmarshal(f.realtime.published[f.alice.ID][0], &pushed))
	assert.Equal(t, n.ID, pushed.ID)

	assert.Equal(t, int64(1), f.realtime.badges[f.alice.ID])

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "alice@example.com", f.mailer.sent[0].ToAddress)
	assert.Equal(t, "New answer", f.mailer.sent[0].Subject)
}

func TestHandleTask_VoteIsNotEmailed(t *testing.T) {
	f := newFixture(t)
	f.deliver(t, queue.TaskVote, f.alice.ID)
	assert.Empty(t, f.mailer.sent)
}

func TestHandleTask_NoMailer(t *testing.T) {
	f := newFixture(t)
	f.uc.mailer = nil
	f.deliver(t, queue.TaskAccepted, f.alice.ID)
	assert.Empty(t, f.mailer.sent)
}

func TestHandleTask_Invalid(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.HandleTask(context.Background(), queue.NotificationTask{Type: queue.TaskVote})
	assert.Error(t, err)
}

func TestTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.deliver(t, queue.TaskVote, f.alice.ID)

	read, err := f.uc.MarkRead(ctx, f.alice.ID, n.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateRead, read.State)
	assert.Equal(t, int64(0), f.realtime.badges[f.alice.ID])

	// reading twice is a no-op
	_, err = f.uc.MarkRead(ctx, f.alice.ID, n.ID)
	require.NoError(t, err)

	archived, err := f.uc.Archive(ctx, f.alice.ID, n.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateArchived, archived.State)

	_, err = f.uc.MarkRead(ctx, f.alice.ID, n.ID)
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)
}

func TestTransitions_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	n := f.deliver(t, queue.TaskVote, f.alice.ID)

	_, err := f.uc.MarkRead(ctx, f.bob.ID, n.ID)
	assert.ErrorIs(t, err, entity.ErrNotificationNotFound)

	_, err = f.uc.Archive(ctx, "", n.ID)
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestUnreadCountAndMarkAllRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.deliver(t, queue.TaskVote, f.alice.ID)
	f.deliver(t, queue.TaskVote, f.alice.ID)
	f.deliver(t, queue.TaskVote, f.bob.ID)

	unread, err := f.uc.UnreadCount(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	// badge miss falls back to the database
	delete(f.realtime.badges, f.alice.ID)
	unread, err = f.uc.UnreadCount(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	updated, err := f.uc.MarkAllRead(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	unread, err = f.uc.UnreadCount(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	unread, err = f.uc.UnreadCount(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.deliver(t, queue.TaskVote, f.alice.ID)
	f.now = f.now.Add(time.Minute)
	f.deliver(t, queue.TaskVote, f.alice.ID)

	_, err := f.uc.MarkRead(ctx, f.alice.ID, first.ID)
	require.NoError(t, err)

	list, total, err := f.uc.List(ctx, f.alice.ID, entity.ListFilter{State: entity.StateUnread})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	_, total, err = f.uc.List(ctx, f.alice.ID, entity.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, _, err = f.uc.List(ctx, "", entity.ListFilter{})
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestArchiveStale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.now = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	old := f.deliver(t, queue.TaskVote, f.alice.ID)
	unreadOld := f.deliver(t, queue.TaskVote, f.alice.ID)
	_, err := f.uc.MarkRead(ctx, f.alice.ID, old.ID)
	require.NoError(t, err)

	f.now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := f.deliver(t, queue.TaskVote, f.alice.ID)
	_, err = f.uc.MarkRead(ctx, f.alice.ID, recent.ID)
	require.NoError(t, err)

	archived, err := f.uc.ArchiveStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), archived)

	list, _, err := f.uc.List(ctx, f.alice.ID, entity.ListFilter{State: entity.StateArchived})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, old.ID, list[0].ID)

	list, _, err = f.uc.List(ctx, f.alice.ID, entity.ListFilter{State: entity.StateUnread})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, unreadOld.ID, list[0].ID)
}
