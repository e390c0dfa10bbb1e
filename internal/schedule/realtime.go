package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

// Realtime schedules callbacks on wall-clock timers. Callbacks are serialized
// through one mutex so they keep the single-timeline guarantee.
type Realtime struct {
	mu    sync.Mutex
	start time.Time
	wg    sync.WaitGroup
}

func NewRealtime() *Realtime {
	return &Realtime{start: time.Now()}
}

func (r *Realtime) Now() time.Duration {
	return time.Since(r.start)
}

func (r *Realtime) run(stopped *atomic.Bool, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stopped.Load() {
		return
	}
	fn()
}

func (r *Realtime) Every(period time.Duration, fn func()) Cancel {
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	stopChan := make(chan struct{})
	var stopped atomic.Bool
	var stopOnce sync.Once

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-stopChan:
				return
			case <-ticker.C:
				r.run(&stopped, fn)
			}
		}
	}()

	return func() {
		stopOnce.Do(func() {
			stopped.Store(true)
			close(stopChan)
		})
	}
}

func (r *Realtime) After(delay time.Duration, fn func()) Cancel {
	var stopped atomic.Bool
	t := time.AfterFunc(delay, func() {
		r.run(&stopped, fn)
		stopped.Store(true)
	})
	return func() {
		stopped.Store(true)
		t.Stop()
	}
}

// Wait blocks until every repeating timer goroutine has exited.
func (r *Realtime) Wait() {
	r.wg.Wait()
}
