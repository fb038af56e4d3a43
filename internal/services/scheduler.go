package services

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/designmill-backend/internal/logger"
)

// SchedulerService fires one pipeline run per day at a fixed local hour.
// Manual runs through the API share the pipeline's single-flight lock,
// so an overlapping tick simply logs and waits for the next day.
type SchedulerService interface {
	Start(ctx context.Context)
}

type schedulerService struct {
	log      *logger.Logger
	pipeline PipelineService
	hour     int
}

func NewSchedulerService(log *logger.Logger, pipeline PipelineService, hour int) SchedulerService {
	if hour < 0 || hour > 23 {
		hour = 9
	}
	return &schedulerService{
		log:      log.With("service", "SchedulerService"),
		pipeline: pipeline,
		hour:     hour,
	}
}

// Start blocks until ctx is cancelled. Run it on its own goroutine.
func (s *schedulerService) Start(ctx context.Context) {
	s.log.Info("Scheduler started", "hour", s.hour)
	for {
		next := nextFiring(time.Now(), s.hour)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("Scheduler stopped")
			return
		case <-timer.C:
		}

		jobKey := next.Format("2006-01-02")
		res, err := s.pipeline.RunOnce(ctx, RunOptions{JobKey: jobKey})
		switch {
		case errors.Is(err, ErrRunInProgress):
			s.log.Warn("Scheduled run skipped, another run in flight", "job_key", jobKey)
		case err != nil:
			s.log.Error("Scheduled run failed", "job_key", jobKey, "error", err)
		default:
			s.log.Info("Scheduled run finished", "job_key", jobKey, "status", res.Status)
		}
	}
}

// nextFiring returns the next wall-clock instant at the given hour
// strictly after now.
func nextFiring(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
