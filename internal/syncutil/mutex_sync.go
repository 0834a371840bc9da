//go:build !deadlock

// Package syncutil provides mutexes that can be swapped for deadlock
// detecting ones with the deadlock build tag.
package syncutil

import "sync"

// DeadlockEnabled is true if the deadlock detector is enabled.
const DeadlockEnabled = false

type Mutex struct {
	sync.Mutex
}

type RWMutex struct {
	sync.RWMutex
}
