//go:build !deadlock

// Package syncutil selects the mutex implementation at build time.
// Build with -tags=deadlock to get lock-order and timeout detection
// from github.com/sasha-s/go-deadlock.
package syncutil

import "sync"

// Mutex is a plain sync.Mutex in normal builds.
type Mutex struct {
	sync.Mutex
}
