package mocks

import (
	"sort"
	"sync"
	"time"

	"github.com/mcoot/tilegame-go/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// AfterFunc callbacks fire synchronously from Advance and Set.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	pending     []*mockTimer
	nextSeq     int
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

type mockTimer struct {
	clock *MockClock
	when  time.Time
	seq   int
	f     func()
}

// Stop removes the timer from the pending set
func (t *mockTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return true
		}
	}
	return false
}

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

// AfterFunc registers f to fire once the clock has advanced by d
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTimer{clock: c, when: c.CurrentTime.Add(d), seq: c.nextSeq, f: f}
	c.nextSeq++
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the clock forward by the given duration, firing due timers
// in deadline order. Timers scheduled by a callback fire too if they fall
// within the window.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.CurrentTime.Add(d)
	c.mu.Unlock()
	c.runUntil(target)
}

// Set sets the clock to the given time, firing due timers
func (c *MockClock) Set(t time.Time) {
	c.runUntil(t)
}

// PendingTimers returns the number of timers not yet fired or stopped
func (c *MockClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *MockClock) runUntil(target time.Time) {
	for {
		c.mu.Lock()
		sort.SliceStable(c.pending, func(i, j int) bool {
			if c.pending[i].when.Equal(c.pending[j].when) {
				return c.pending[i].seq < c.pending[j].seq
			}
			return c.pending[i].when.Before(c.pending[j].when)
		})
		if len(c.pending) == 0 || c.pending[0].when.After(target) {
			c.CurrentTime = target
			c.mu.Unlock()
			return
		}
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.CurrentTime = next.when
		c.mu.Unlock()

		next.f()
	}
}
