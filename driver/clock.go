// Package driver implements the external collaborators around the
// block-economics engine: an injected time source, a proposer that submits
// blocks and retries on backpressure, and a prover that reacts to
// proof-acceptance events. The engine itself never sleeps or polls; all
// waiting lives here.
package driver

import (
	"sync"
	"time"
)

// Clock supplies the externally-provided now() the engine prices against.
// Implementations must be monotonically non-decreasing.
type Clock interface {
	Now() uint64
}

// SystemClock reads wall-clock time in seconds.
type SystemClock struct{}

// Now returns the current Unix time in seconds.
func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// ManualClock is a settable clock for deterministic tests: elapsed halving
// periods are simulated by advancing it, never by sleeping.
type ManualClock struct {
	mu  sync.Mutex
	now uint64
}

// NewManualClock creates a manual clock starting at the given time.
func NewManualClock(start uint64) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d seconds.
func (c *ManualClock) Advance(d uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}

// Set moves the clock to t. Attempts to move backward are ignored to
// preserve the monotonic contract.
func (c *ManualClock) Set(t uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t > c.now {
		c.now = t
	}
}
