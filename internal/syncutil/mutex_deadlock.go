//go:build deadlock

// Package syncutil provides mutexes that can be swapped for deadlock
// detecting ones with the deadlock build tag.
package syncutil

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockEnabled is true if the deadlock detector is enabled.
const DeadlockEnabled = true

func init() {
	// a firmware call is sub-millisecond, anything this long is stuck
	deadlock.Opts.DeadlockTimeout = 10 * time.Second
}

type Mutex struct {
	deadlock.Mutex
}

type RWMutex struct {
	deadlock.RWMutex
}
