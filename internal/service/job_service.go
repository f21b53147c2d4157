package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// HistoryPruner deletes old occupancy history.
type HistoryPruner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// JobService holds the bodies of the periodic tasks.
type JobService struct {
	Occupancy *OccupancyService
	History   HistoryPruner
	Retention time.Duration
	now       func() time.Time
}

func NewJobService(occupancy *OccupancyService, history HistoryPruner, retention time.Duration) *JobService {
	return &JobService{Occupancy: occupancy, History: history, Retention: retention, now: time.Now}
}

// RefreshGroup is the scheduled occupancy refresh of one group. A refresh
// superseded by a user triggered one is not an error.
func (s *JobService) RefreshGroup(name string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.Occupancy.Refresh(ctx, name)
		if errors.Is(err, ErrSuperseded) {
			return nil
		}
		return err
	}
}

// PruneHistory deletes history rows older than the retention window.
func (s *JobService) PruneHistory(ctx context.Context) error {
	if s.History == nil || s.Retention <= 0 {
		return nil
	}
	before := s.now().Add(-s.Retention)
	n, err := s.History.DeleteOlderThan(ctx, before)
	if err != nil {
		return fmt.Errorf("cron job: failed to prune occupancy history: %w", err)
	}
	if n > 0 {
		log.Printf("Cron Job: pruned %d occupancy history rows older than %s", n, before.Format(time.RFC3339))
	}
	return nil
}

// Register adds every periodic task to the scheduler.
func (s *JobService) Register(sched *Scheduler, refreshEvery time.Duration) error {
	for _, name := range s.Occupancy.Groups() {
		if _, err := sched.Every("refresh:"+name, refreshEvery, s.RefreshGroup(name)); err != nil {
			return err
		}
	}
	if s.History != nil {
		if _, err := sched.AddTask("prune-history", "@hourly", s.PruneHistory); err != nil {
			return err
		}
	}
	return nil
}
