package event

import (
	"testing"
	"time"
)

func TestImmediateLoop(t *testing.T) {
	var l Loop = ImmediateLoop{}
	ran := 0
	l.Post(func() { ran++ })
	l.PostDelayed(time.Hour, func() { ran++ })
	if ran != 2 {
		t.Fatalf("ran %d callbacks, want 2", ran)
	}
}

func TestRunLoopRunsPostedCallbacks(t *testing.T) {
	l := NewRunLoop()
	done := make(chan struct{})
	var order []int
	l.Post(func() { order = append(order, 1) })
	l.Post(func() { order = append(order, 2) })
	l.Post(func() {
		order = append(order, 3)
		l.Stop()
	})
	go func() {
		l.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
	if len(order) != 3 || order[0] != 1 || order[2] != 3 {
		t.Fatalf("callbacks ran as %v", order)
	}
}

func TestRunLoopPostAfterStopIsDropped(t *testing.T) {
	l := NewRunLoop()
	l.Stop()
	l.Post(func() { t.Error("must not run") })
	l.Run()
}
