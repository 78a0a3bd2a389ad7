package usecase

import (
	"context"
	"errors"

	"learnhub/pkg/access"
	"learnhub/pkg/logger"
	"learnhub/pkg/models"
	"learnhub/pkg/queue"
	"learnhub/services/forum/internal/entity"
	"learnhub/services/forum/internal/repo/persistent"
)

// guard answers read and write questions for forum content.
type guard struct {
	lookup     persistent.LookupRepository
	authorizer access.Authorizer
}

func (g *guard) isModerator(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	return g.authorizer.Require(ctx, userID, models.PermQuestionModerate) == nil
}

// canRead hides private questions behind ErrQuestionNotFound for everyone
// but the author, the course author and moderators.
func (g *guard) canRead(ctx context.Context, viewerID string, q *entity.Question) error {
	if q.IsPublic() {
		return nil
	}
	if viewerID == "" {
		return entity.ErrQuestionNotFound
	}
	if q.AuthorID == viewerID {
		return nil
	}
	if q.CourseID != nil {
		authorID, err := g.lookup.CourseAuthor(ctx, *q.CourseID)
		if err != nil && !errors.Is(err, entity.ErrCourseNotFound) {
			return err
		}
		if authorID == viewerID {
			return nil
		}
	}
	if g.isModerator(ctx, viewerID) {
		return nil
	}
	return entity.ErrQuestionNotFound
}

// canModify allows the content author or a moderator.
func (g *guard) canModify(ctx context.Context, userID, authorID string) error {
	if userID == "" {
		return access.ErrUnauthenticated
	}
	if userID == authorID {
		return nil
	}
	return g.authorizer.Require(ctx, userID, models.PermQuestionModerate)
}

// answerHidden reports a hidden or missing parent question as a missing
// answer and passes every other error through.
func answerHidden(err error) error {
	if errors.Is(err, entity.ErrQuestionNotFound) {
		return entity.ErrAnswerNotFound
	}
	return err
}

type notifier struct {
	publisher queue.Publisher
	logger    *logger.Logger
}

// notify publishes in the background. Self-notifications are skipped.
func (n *notifier) notify(task queue.NotificationTask) {
	if n.publisher == nil || task.UserID == "" || task.UserID == task.ActorID {
		return
	}
	go func() {
		if err := n.publisher.PublishNotificationTask(task); err != nil {
			n.logger.Error("[FORUM] Failed to publish %s notification: %v", task.Type, err)
		}
	}()
}
