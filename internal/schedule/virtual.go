package schedule

import (
	"container/heap"
	"sync"
	"time"
)

type timer struct {
	at        time.Duration
	period    time.Duration
	seq       uint64
	fn        func()
	cancelled bool
	index     int
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}
func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}
func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Virtual is a Scheduler whose clock only moves when Advance is called.
// Due callbacks run on the goroutine calling Advance, ordered by due time and
// then by scheduling order.
type Virtual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	queue  timerQueue
	firing bool
}

func NewVirtual() *Virtual {
	return &Virtual{}
}

func (v *Virtual) Now() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) Every(period time.Duration, fn func()) Cancel {
	if period <= 0 {
		period = time.Millisecond
	}
	return v.schedule(period, period, fn)
}

func (v *Virtual) After(delay time.Duration, fn func()) Cancel {
	if delay < 0 {
		delay = 0
	}
	return v.schedule(delay, 0, fn)
}

func (v *Virtual) schedule(delay, period time.Duration, fn func()) Cancel {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	t := &timer{at: v.now + delay, period: period, seq: v.seq, fn: fn}
	heap.Push(&v.queue, t)

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if t.cancelled {
			return
		}
		t.cancelled = true
		if t.index >= 0 {
			heap.Remove(&v.queue, t.index)
		}
	}
}

// Advance moves the clock forward by d, running every callback that falls due
// on the way. It returns the number of callbacks run. Calls from inside a
// callback are ignored.
func (v *Virtual) Advance(d time.Duration) int {
	v.mu.Lock()
	if v.firing {
		v.mu.Unlock()
		return 0
	}
	v.firing = true
	target := v.now + d
	v.mu.Unlock()

	fired := 0
	for {
		v.mu.Lock()
		if len(v.queue) == 0 || v.queue[0].at > target {
			v.now = target
			v.firing = false
			v.mu.Unlock()
			return fired
		}
		t := heap.Pop(&v.queue).(*timer)
		v.now = t.at
		if t.period > 0 {
			v.seq++
			t.seq = v.seq
			t.at += t.period
			heap.Push(&v.queue, t)
		}
		fn := t.fn
		v.mu.Unlock()

		fn()
		fired++
	}
}

// RunUntilIdle advances to each pending timer in turn until none remain or
// the clock would pass limit. It reports whether the queue drained.
func (v *Virtual) RunUntilIdle(limit time.Duration) bool {
	for {
		v.mu.Lock()
		if len(v.queue) == 0 {
			v.mu.Unlock()
			return true
		}
		next := v.queue[0].at
		now := v.now
		v.mu.Unlock()

		if next > limit {
			return false
		}
		v.Advance(next - now)
	}
}

// Pending is the number of live timers.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.queue)
}
