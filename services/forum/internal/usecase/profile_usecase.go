package usecase

import (
	"context"
	"time"

	"learnhub/pkg/activity"
	"learnhub/services/forum/internal/entity"
	"learnhub/services/forum/internal/repo/persistent"

	"github.com/jinzhu/now"
)

type ProfileUseCase interface {
	Reputation(ctx context.Context, userID string) (*entity.Reputation, error)
	Profile(ctx context.Context, userID string) (*entity.Profile, error)
}

type profileUseCase struct {
	lookup         persistent.LookupRepository
	questionRepo   persistent.QuestionRepository
	answerRepo     persistent.AnswerRepository
	reputationRepo persistent.ReputationRepository
	clock          func() time.Time
}

func NewProfileUseCase(
	lookup persistent.LookupRepository,
	questionRepo persistent.QuestionRepository,
	answerRepo persistent.AnswerRepository,
	reputationRepo persistent.ReputationRepository,
) ProfileUseCase {
	return &profileUseCase{
		lookup:         lookup,
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		reputationRepo: reputationRepo,
		clock:          time.Now,
	}
}

func (uc *profileUseCase) Reputation(ctx context.Context, userID string) (*entity.Reputation, error) {
	if _, err := uc.lookup.User(ctx, userID); err != nil {
		return nil, err
	}
	return uc.reputationRepo.Reputation(ctx, userID)
}

func (uc *profileUseCase) Profile(ctx context.Context, userID string) (*entity.Profile, error) {
	user, err := uc.lookup.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	rep, err := uc.reputationRepo.Reputation(ctx, userID)
	if err != nil {
		return nil, err
	}
	questions, err := uc.questionRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	answers, err := uc.answerRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := now.With(uc.clock().UTC()).BeginningOfDay()
	from := today.AddDate(0, 0, -(entity.HeatmapDays - 1))
	counts, err := uc.reputationRepo.ContributionCounts(ctx, userID, from)
	if err != nil {
		return nil, err
	}
	days, err := uc.reputationRepo.ContributionDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &entity.Profile{
		UserID:        user.ID,
		Username:      user.Username,
		AvatarURL:     user.AvatarURL,
		Reputation:    rep.Reputation,
		Questions:     questions,
		Answers:       answers,
		Contributions: activity.Heatmap(counts, from, today),
		Streak:        activity.ComputeStreak(days, today),
		MemberSince:   user.CreatedAt,
	}, nil
}
