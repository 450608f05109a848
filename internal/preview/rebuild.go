package preview

import (
	"context"
	"sync"
	"time"
)

// debouncer coalesces bursts of Trigger calls into one signal on C once
// the window has passed without further calls.
type debouncer struct {
	window time.Duration
	C      chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, C: make(chan struct{}, 1)}
}

func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		select {
		case d.C <- struct{}{}:
		default:
		}
	})
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// rebuildWorker runs rebuild for every request on reqs. At most one rebuild
// runs at a time; requests arriving meanwhile collapse into one follow-up.
func rebuildWorker(ctx context.Context, reqs <-chan struct{}, rebuild func(context.Context)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-reqs:
		}
		rebuild(ctx)
		// A request that arrived while rebuilding is buffered in reqs and
		// picked up by the next iteration.
	}
}
