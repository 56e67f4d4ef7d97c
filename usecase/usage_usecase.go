package usecase

import (
	"context"
	"fmt"

	"lently/domain/dto"
	"lently/domain/model"
	"lently/domain/repository"
	"lently/infrastructure/logger"
	"lently/infrastructure/utils"
)

// Usage counter names. These double as the field names inside the embedded
// usage document.
const (
	CounterVideosAnalyzed   = "videosAnalyzed"
	CounterCommentsAnalyzed = "commentsAnalyzed"
	CounterAIQuestionsUsed  = "aiQuestionsUsed"
	CounterReSyncsUsed      = "reSyncsUsed"
)

// IUsageUsecase is the usage ledger: monthly counters, plan limits and the
// quota gate consulted before any billable operation.
type IUsageUsecase interface {
	// CheckLimit loads the user, lazily rolls the monthly window over, and
	// returns model.ErrQuotaExceeded when the counter has reached its plan
	// limit. The returned user reflects any reset that happened.
	CheckLimit(ctx context.Context, userID, counter string) (*model.User, error)
	Increment(ctx context.Context, userID, counter string, by int) error
	GetUsage(ctx context.Context, userID string) (*dto.UsageResponse, error)
	UpdatePlan(ctx context.Context, userID, plan string) error
}

type UsageUsecase struct {
	userRepository repository.IUser
}

func NewUsageUsecase(userRepository repository.IUser) IUsageUsecase {
	return &UsageUsecase{userRepository: userRepository}
}

func (u *UsageUsecase) CheckLimit(ctx context.Context, userID, counter string) (*model.User, error) {
	user, err := u.loadWithReset(ctx, userID)
	if err != nil {
		return nil, err
	}

	limits := model.LimitsForPlan(user.Plan)
	used, limit := counterValue(user.Usage, counter), counterLimit(limits, counter)
	if used >= limit {
		logger.GetLogger().
			WithField("userId", userID).
			WithField("counter", counter).
			WithField("used", used).
			WithField("limit", limit).
			Info("Quota exceeded")
		return nil, fmt.Errorf("%s: %w", counter, model.ErrQuotaExceeded)
	}
	return user, nil
}

func (u *UsageUsecase) Increment(ctx context.Context, userID, counter string, by int) error {
	return u.userRepository.IncrementUsage(ctx, userID, counter, by)
}

func (u *UsageUsecase) GetUsage(ctx context.Context, userID string) (*dto.UsageResponse, error) {
	user, err := u.loadWithReset(ctx, userID)
	if err != nil {
		return nil, err
	}
	limits := model.LimitsForPlan(user.Plan)
	return &dto.UsageResponse{
		Plan:   user.Plan,
		Limits: limits,
		Usage:  user.Usage,
		Remaining: dto.RemainingQuota{
			Videos:      clampZero(limits.VideosPerMonth - user.Usage.VideosAnalyzed),
			AIQuestions: clampZero(limits.AIQuestionsPerMonth - user.Usage.AIQuestionsUsed),
			ReSyncs:     clampZero(limits.ReSyncsPerMonth - user.Usage.ReSyncsUsed),
		},
	}, nil
}

func (u *UsageUsecase) UpdatePlan(ctx context.Context, userID, plan string) error {
	if _, ok := model.AllPlanLimits[plan]; !ok {
		return fmt.Errorf("unknown plan %q", plan)
	}
	expiry := model.NextResetDate(utils.GetCurrentTime())
	return u.userRepository.UpdatePlan(ctx, userID, plan, &expiry)
}

// loadWithReset fetches the user and resets the monthly counters when the
// reset date has passed. The reset is persisted before the user is returned.
func (u *UsageUsecase) loadWithReset(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepository.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	now := utils.GetCurrentTime()
	if !user.Usage.ResetDate.IsZero() && !now.Before(user.Usage.ResetDate) {
		resetDate := model.NextResetDate(now)
		if err := u.userRepository.ResetMonthlyUsage(ctx, userID, resetDate); err != nil {
			return nil, fmt.Errorf("failed to reset monthly usage: %w", err)
		}
		user.Usage = model.Usage{ResetDate: resetDate}
		logger.GetLogger().WithField("userId", userID).Info("Monthly usage reset")
	}
	return user, nil
}

func counterValue(usage model.Usage, counter string) int {
	switch counter {
	case CounterVideosAnalyzed:
		return usage.VideosAnalyzed
	case CounterCommentsAnalyzed:
		return usage.CommentsAnalyzed
	case CounterAIQuestionsUsed:
		return usage.AIQuestionsUsed
	case CounterReSyncsUsed:
		return usage.ReSyncsUsed
	}
	return 0
}

func counterLimit(limits model.PlanLimits, counter string) int {
	switch counter {
	case CounterVideosAnalyzed:
		return limits.VideosPerMonth
	case CounterCommentsAnalyzed:
		return limits.TotalComments
	case CounterAIQuestionsUsed:
		return limits.AIQuestionsPerMonth
	case CounterReSyncsUsed:
		return limits.ReSyncsPerMonth
	}
	return 0
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
