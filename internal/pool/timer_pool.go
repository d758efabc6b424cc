// Package pool provides pooled timers for exchange deadlines and retry
// backoff, avoiding a timer allocation per exchange.
package pool

import (
	"sync"
	"time"
)

var timerPool sync.Pool

// GetTimer returns a timer for the given duration d from the pool.
//
// Return the timer to the pool with PutTimer when done.
func GetTimer(d time.Duration) *time.Timer {
	v := timerPool.Get()
	if v == nil {
		return time.NewTimer(d)
	}

	t, _ := v.(*time.Timer) // only *time.Timer values are ever pooled
	if t.Reset(d) {
		// timer was still active, drain the channel to prevent a stale fire
		select {
		case <-t.C:
		default:
		}
	}

	return t
}

// PutTimer returns timer to the pool.
//
// t must not be accessed after returning to the pool.
func PutTimer(t *time.Timer) {
	if !t.Stop() {
		// drain t.C if the caller hasn't consumed the fire yet
		select {
		case <-t.C:
		default:
		}
	}
	timerPool.Put(t)
}
