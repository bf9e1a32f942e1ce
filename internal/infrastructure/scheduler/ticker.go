package scheduler

import (
	"context"
	"time"

	"ContentPilot/internal/ports"
)

// TickerScheduler drives the automation loop at a fixed interval.
type TickerScheduler struct {
	interval time.Duration
	location *time.Location
	stop     chan struct{}
}

var _ ports.Scheduler = (*TickerScheduler)(nil)

// NewTickerScheduler builds a scheduler firing every interval,
// reporting trigger times in the given location.
func NewTickerScheduler(interval time.Duration, location *time.Location) *TickerScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if location == nil {
		location = time.Local
	}
	return &TickerScheduler{interval: interval, location: location}
}

// Start begins ticking; the job runs once immediately, then on every tick.
func (s *TickerScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		job(time.Now().In(s.location))
		for {
			select {
			case t := <-ticker.C:
				job(t.In(s.location))
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *TickerScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
