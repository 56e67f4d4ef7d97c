package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"lently/domain/model"
	"lently/domain/repository"
	"lently/infrastructure/logger"
	"lently/infrastructure/utils"
	"lently/usecase"
)

// AutoSyncScheduler periodically re-syncs videos of users whose plan includes
// auto sync. Each run is still quota gated, so a user who exhausted their
// re-sync budget is skipped until the next month.
type AutoSyncScheduler struct {
	cron            *cron.Cron
	userRepository  repository.IUser
	videoRepository repository.IVideo
	syncUsecase     usecase.ISyncUsecase
	minInterval     time.Duration
}

func NewAutoSyncScheduler(
	userRepository repository.IUser,
	videoRepository repository.IVideo,
	syncUsecase usecase.ISyncUsecase,
	minInterval time.Duration,
) *AutoSyncScheduler {
	return &AutoSyncScheduler{
		cron:            cron.New(),
		userRepository:  userRepository,
		videoRepository: videoRepository,
		syncUsecase:     syncUsecase,
		minInterval:     minInterval,
	}
}

// Start registers the job under the given cron expression and starts the
// scheduler.
func (s *AutoSyncScheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	logger.GetLogger().WithField("spec", spec).Info("Auto-sync scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running pass to finish.
func (s *AutoSyncScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *AutoSyncScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	users, err := s.userRepository.ListByAutoSyncPlans(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Auto-sync: failed to list users")
		return
	}
	eligible := make(map[string]struct{}, len(users))
	for _, u := range users {
		eligible[u.UserID] = struct{}{}
	}
	if len(eligible) == 0 {
		return
	}

	cutoff := utils.GetCurrentTime().Add(-s.minInterval)
	videos, err := s.videoRepository.ListAutoSyncCandidates(ctx, cutoff)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Auto-sync: failed to list videos")
		return
	}

	started := 0
	for _, video := range videos {
		if _, ok := eligible[video.UserID]; !ok {
			continue
		}
		if _, err := s.syncUsecase.Reanalyze(ctx, video.UserID, video.YouTubeVideoID); err != nil {
			if errors.Is(err, model.ErrQuotaExceeded) {
				continue
			}
			logger.GetLogger().
				WithField("videoId", video.YouTubeVideoID).
				WithField("error", err).
				Error("Auto-sync: failed to start re-sync")
			continue
		}
		started++
	}
	logger.GetLogger().
		WithField("candidates", len(videos)).
		WithField("started", started).
		Info("Auto-sync pass finished")
}
