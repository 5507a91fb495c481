package player

import (
	"sync"
	"time"

	"github.com/mcoot/tilegame-go/internal/dependencies/clock"
)

// TickFunc receives the seconds left in the countdown identified by gen
type TickFunc func(gen uint64, secondsLeft int)

// ExpireFunc is called once when the countdown identified by gen reaches zero
type ExpireFunc func(gen uint64)

// TurnTimer is a per-turn countdown that ticks once a second.
// Callbacks run without the timer's lock held, so they may call Start or Stop.
// Each Start begins a new generation; callers use Current to discard
// callbacks from a countdown that has since been restarted.
type TurnTimer struct {
	clock    clock.Clock
	limit    int
	onTick   TickFunc
	onExpire ExpireFunc

	mu          sync.Mutex
	pending     clock.Timer
	gen         uint64
	secondsLeft int
	running     bool
}

// NewTurnTimer creates a stopped timer counting down from limitSeconds
func NewTurnTimer(clk clock.Clock, limitSeconds int, onTick TickFunc, onExpire ExpireFunc) *TurnTimer {
	return &TurnTimer{
		clock:    clk,
		limit:    limitSeconds,
		onTick:   onTick,
		onExpire: onExpire,
	}
}

// Start cancels any running countdown and begins a new one
func (t *TurnTimer) Start() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	t.secondsLeft = t.limit
	t.running = true
	t.schedule(t.gen)
	return t.gen
}

// Stop cancels the running countdown, if any
func (t *TurnTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.gen++
}

// Current reports whether gen identifies the running countdown
func (t *TurnTimer) Current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running && t.gen == gen
}

// Running reports whether a countdown is in progress
func (t *TurnTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// SecondsLeft returns the remaining seconds of the running countdown
func (t *TurnTimer) SecondsLeft() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return 0
	}
	return t.secondsLeft
}

func (t *TurnTimer) stopLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.running = false
}

func (t *TurnTimer) schedule(gen uint64) {
	t.pending = t.clock.AfterFunc(time.Second, func() {
		t.tick(gen)
	})
}

func (t *TurnTimer) tick(gen uint64) {
	t.mu.Lock()
	if !t.running || t.gen != gen {
		t.mu.Unlock()
		return
	}
	t.secondsLeft--
	left := t.secondsLeft
	expired := left <= 0
	if expired {
		t.pending = nil
	} else {
		t.schedule(gen)
	}
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(gen, left)
	}
	if expired {
		if t.onExpire != nil {
			t.onExpire(gen)
		}
		// A callback that did not restart leaves the countdown finished
		t.mu.Lock()
		if t.gen == gen {
			t.running = false
		}
		t.mu.Unlock()
	}
}
