package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lently/domain/model"
	"lently/usecase"
)

func TestCheckLimit_AllowsUnderQuota(t *testing.T) {
	users := new(MockUserRepository)
	users.On("Get", mock.Anything, "user-1").Return(starterUser("user-1", 42), nil)

	uc := usecase.NewUsageUsecase(users)
	user, err := uc.CheckLimit(context.Background(), "user-1", "aiQuestionsUsed")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.UserID)
	users.AssertNotCalled(t, "ResetMonthlyUsage", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckLimit_BlocksAtQuota(t *testing.T) {
	users := new(MockUserRepository)
	users.On("Get", mock.Anything, "user-1").Return(starterUser("user-1", 100), nil)

	uc := usecase.NewUsageUsecase(users)
	_, err := uc.CheckLimit(context.Background(), "user-1", "aiQuestionsUsed")

	assert.ErrorIs(t, err, model.ErrQuotaExceeded)
}

func TestCheckLimit_RollsOverPastResetDate(t *testing.T) {
	users := new(MockUserRepository)
	stale := starterUser("user-1", 100)
	stale.Usage.ResetDate = time.Now().UTC().Add(-time.Hour)
	users.On("Get", mock.Anything, "user-1").Return(stale, nil)
	users.On("ResetMonthlyUsage", mock.Anything, "user-1", mock.MatchedBy(func(resetDate time.Time) bool {
		return resetDate.Day() == 1 && resetDate.After(time.Now().UTC())
	})).Return(nil)

	uc := usecase.NewUsageUsecase(users)
	user, err := uc.CheckLimit(context.Background(), "user-1", "aiQuestionsUsed")

	// the exhausted counter was reset, so the check passes
	assert.NoError(t, err)
	assert.Zero(t, user.Usage.AIQuestionsUsed)
	users.AssertExpectations(t)
}

func TestGetUsage_RemainingFlooredAtZero(t *testing.T) {
	users := new(MockUserRepository)
	over := starterUser("user-1", 150) // beyond the starter allowance
	users.On("Get", mock.Anything, "user-1").Return(over, nil)

	uc := usecase.NewUsageUsecase(users)
	res, err := uc.GetUsage(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, model.PlanStarter, res.Plan)
	assert.Zero(t, res.Remaining.AIQuestions)
	assert.Equal(t, 50, res.Remaining.Videos)
}

func TestUpdatePlan_RejectsUnknownPlan(t *testing.T) {
	users := new(MockUserRepository)
	uc := usecase.NewUsageUsecase(users)

	err := uc.UpdatePlan(context.Background(), "user-1", "platinum")

	assert.Error(t, err)
	users.AssertNotCalled(t, "UpdatePlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePlan_PersistsValidPlan(t *testing.T) {
	users := new(MockUserRepository)
	users.On("UpdatePlan", mock.Anything, "user-1", model.PlanPro, mock.Anything).Return(nil)

	uc := usecase.NewUsageUsecase(users)
	err := uc.UpdatePlan(context.Background(), "user-1", model.PlanPro)

	assert.NoError(t, err)
	users.AssertExpectations(t)
}

func TestNextResetDate_FirstOfNextMonth(t *testing.T) {
	at := time.Date(2026, time.January, 31, 23, 59, 0, 0, time.UTC)
	next := model.NextResetDate(at)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), next)
}
