package menu

import (
	"context"

	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Scheduler funnels planning through a Queue so day generation is never
// interleaved between callers.
type Scheduler struct {
	planner *Planner
	queue   *Queue
}

// NewScheduler creates a scheduler.
func NewScheduler(planner *Planner, queue *Queue) *Scheduler {
	return &Scheduler{planner: planner, queue: queue}
}

// PlanDays plans dates in the queue and describes the result.
func (s *Scheduler) PlanDays(ctx context.Context, dates []string) (*Report, error) {
	// reject bad dates before queueing any work
	if _, err := s.planner.Dates().NormalizeAll(dates); err != nil {
		return nil, err
	}

	var m Menu
	err := s.queue.Do(ctx, func(ctx context.Context) error {
		var err error
		m, err = s.planner.PlanDays(ctx, dates)
		return err
	})
	if err != nil {
		return nil, err
	}

	common.LogInfo("Menu range planned", zap.Int("days", len(m)))
	return s.planner.Describe(ctx, m)
}

// RegenerateDay replans one date in the queue and describes it.
func (s *Scheduler) RegenerateDay(ctx context.Context, date string) (*Report, error) {
	d, err := s.planner.Dates().Normalize(date)
	if err != nil {
		return nil, err
	}

	var day *DayAssignment
	err = s.queue.Do(ctx, func(ctx context.Context) error {
		var err error
		day, err = s.planner.PlanDay(ctx, d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.planner.Describe(ctx, Menu{day.Date: day.Meals})
}

// Status returns the planning queue status.
func (s *Scheduler) Status() Status {
	return s.queue.Status()
}
