//go:build deadlock

package syncutil

import deadlock "github.com/sasha-s/go-deadlock"

// Mutex reports potential deadlocks when built with -tags=deadlock.
type Mutex struct {
	deadlock.Mutex
}
