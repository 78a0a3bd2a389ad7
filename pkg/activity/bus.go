// Package activity is the in-process, best-effort event bus behind activity
// logs and contribution streaks. Events are held in memory only: a full
// buffer drops the event and a restart loses whatever was queued.
package activity

import (
	"context"
	"sync"
	"time"

	"learnhub/pkg/logger"
)

// Event types emitted by the services.
const (
	TypeCourseEnrolled   = "course_enrolled"
	TypeCourseUnenrolled = "course_unenrolled"
	TypeLessonViewed     = "lesson_viewed"
	TypeQuestionAsked    = "question_asked"
	TypeAnswerPosted     = "answer_posted"
	TypeAnswerAccepted   = "answer_accepted"
	TypeVoteCast         = "vote_cast"
	TypeCourseCreated    = "course_created"
)

type Event struct {
	UserID     string
	Type       string
	EntityType string
	EntityID   string
	Metadata   map[string]interface{}
	At         time.Time
}

type Listener interface {
	Handle(ctx context.Context, e Event) error
}

type ListenerFunc func(ctx context.Context, e Event) error

func (f ListenerFunc) Handle(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Emitter is what use cases depend on.
type Emitter interface {
	Emit(e Event) bool
}

type Bus struct {
	events    chan Event
	listeners []Listener
	logger    *logger.Logger
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ Emitter = (*Bus)(nil)

func NewBus(bufferSize, workers int, log *logger.Logger, listeners ...Listener) *Bus {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if workers <= 0 {
		workers = 1
	}

	b := &Bus{
		events:    make(chan Event, bufferSize),
		listeners: listeners,
		logger:    log,
		timeout:   10 * time.Second,
	}

	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go b.worker()
	}
	return b
}

// Emit never blocks. It returns false when the event was dropped.
func (b *Bus) Emit(e Event) bool {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return false
	}

	select {
	case b.events <- e:
		return true
	default:
		b.logger.Warn("[ACTIVITY] buffer full, dropping %s event for user %s", e.Type, e.UserID)
		return false
	}
}

// Close stops accepting events and waits for queued ones to be handled.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.events)
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Bus) worker() {
	defer b.wg.Done()
	for e := range b.events {
		for _, l := range b.listeners {
			b.dispatch(l, e)
		}
	}
}

func (b *Bus) dispatch(l Listener, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("[ACTIVITY] listener panicked on %s event: %v", e.Type, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := l.Handle(ctx, e); err != nil {
		b.logger.Error("[ACTIVITY] listener failed on %s event for user %s: %v", e.Type, e.UserID, err)
	}
}
