package jobpipe

import (
	"sync"
	"time"
)

// newDebounce returns a function that runs fn once no call has happened
// for the given interval.
func newDebounce(fn func(), interval time.Duration) func() {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(interval, fn)
	}
}
