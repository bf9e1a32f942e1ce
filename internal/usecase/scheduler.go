package usecase

import (
	"context"
	"time"

	"ContentPilot/internal/ports"
)

// Scheduler wires the interval driver with the automation use case.
type Scheduler struct {
	driver     ports.Scheduler
	automation *Automation
}

// NewScheduler returns a helper to start/stop the automation loop.
func NewScheduler(driver ports.Scheduler, automation *Automation) *Scheduler {
	return &Scheduler{driver: driver, automation: automation}
}

// Start registers the automation tick with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.automation == nil {
		return nil
	}

	job := func(trigger time.Time) {
		_ = s.automation.RunTick(ctx, trigger)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
