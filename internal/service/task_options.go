package service

import (
	"time"
)

type Option func(*TaskService)

// WithClock replaces the source of "today" for Upcoming.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithSlowThreshold(d time.Duration) Option {
	return func(s *TaskService) {
		if d > 0 {
			s.slow = d
		}
	}
}
