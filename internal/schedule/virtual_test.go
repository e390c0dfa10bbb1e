package schedule

import (
	"testing"
	"time"
)

func TestVirtual_Every(t *testing.T) {
	v := NewVirtual()
	var at []time.Duration
	cancel := v.Every(100*time.Millisecond, func() { at = append(at, v.Now()) })

	if n := v.Advance(99 * time.Millisecond); n != 0 {
		t.Errorf("expected no callbacks before first period, got %d", n)
	}
	v.Advance(251 * time.Millisecond)

	expected := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}
	if len(at) != len(expected) {
		t.Fatalf("expected %d ticks, got %d", len(expected), len(at))
	}
	for i := range expected {
		if at[i] != expected[i] {
			t.Errorf("tick %d at %v, want %v", i, at[i], expected[i])
		}
	}

	cancel()
	cancel()
	v.Advance(time.Second)
	if len(at) != 3 {
		t.Errorf("cancelled timer kept firing: %d ticks", len(at))
	}
	if v.Pending() != 0 {
		t.Errorf("expected empty queue, got %d", v.Pending())
	}
}

func TestVirtual_CancelFromCallback(t *testing.T) {
	v := NewVirtual()
	count := 0
	var cancel Cancel
	cancel = v.Every(10*time.Millisecond, func() {
		count++
		if count == 3 {
			cancel()
		}
	})

	v.Advance(time.Second)
	if count != 3 {
		t.Errorf("expected 3 ticks, got %d", count)
	}
}

func TestVirtual_OrderAndNesting(t *testing.T) {
	v := NewVirtual()
	var order []string

	v.After(50*time.Millisecond, func() {
		order = append(order, "a")
		v.After(0, func() { order = append(order, "a0") })
		v.After(10*time.Millisecond, func() { order = append(order, "a10") })
	})
	v.After(50*time.Millisecond, func() { order = append(order, "b") })
	v.After(55*time.Millisecond, func() { order = append(order, "c") })

	v.Advance(100 * time.Millisecond)

	expected := []string{"a", "b", "a0", "c", "a10"}
	if len(order) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, order)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("position %d: expected %s, got %s", i, expected[i], order[i])
		}
	}
	if v.Now() != 100*time.Millisecond {
		t.Errorf("expected clock at 100ms, got %v", v.Now())
	}
}

func TestVirtual_RunUntilIdle(t *testing.T) {
	v := NewVirtual()
	fired := false
	v.After(3*time.Second, func() { fired = true })

	if v.RunUntilIdle(time.Second) {
		t.Error("expected queue to remain")
	}
	if !v.RunUntilIdle(time.Minute) || !fired {
		t.Error("expected timer to fire and queue to drain")
	}
	if v.Now() != 3*time.Second {
		t.Errorf("expected clock at 3s, got %v", v.Now())
	}
}

func TestRealtime_AfterAndCancel(t *testing.T) {
	r := NewRealtime()
	done := make(chan struct{})
	r.After(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("After callback never ran")
	}

	ticks := make(chan struct{}, 16)
	cancel := r.Every(time.Millisecond, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	<-ticks
	cancel()
	r.Wait()
}
