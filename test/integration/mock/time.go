package mock

import (
	"sync"
	"time"
)

// Time is a clock that starts at a chosen instant and then moves with the wall clock.
type Time struct {
	mu               sync.Mutex
	currentStartTime time.Time
	updatedAt        time.Time
}

func NewTime() *Time {
	return &Time{
		currentStartTime: time.Now(),
		updatedAt:        time.Now(),
	}
}

func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentStartTime = currentTime
	t.updatedAt = time.Now()
}

func (t *Time) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentStartTime.Add(time.Since(t.updatedAt))
}
