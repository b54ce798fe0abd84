package loop

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestState_requestShutdown(t *testing.T) {
	for _, tc := range []struct {
		name   string
		before uint32
		after  uint32
	}{
		{`running`, 0, stateShutdownRequested},
		{`graceful`, stateShutdownRequested, stateShutdownRequested},
		{`immediate`, stateShutdownRequested | stateShutdownImmediate, stateShutdownRequested | stateShutdownImmediate},
		{`terminated graceful`, stateShutdownRequested | stateTerminated, stateShutdownRequested | stateTerminated},
		{`terminated immediate`, stateShutdownRequested | stateShutdownImmediate | stateTerminated, stateShutdownRequested | stateShutdownImmediate | stateTerminated},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var s state
			s.v.Store(tc.before)
			s.requestShutdown()
			if v := s.load(); v != tc.after {
				t.Errorf(`expected %#b, got %#b`, tc.after, v)
			}
		})
	}
}

func TestState_requestShutdownNow(t *testing.T) {
	for _, tc := range []struct {
		name   string
		before uint32
		after  uint32
	}{
		{`running`, 0, stateShutdownRequested | stateShutdownImmediate},
		{`escalates graceful`, stateShutdownRequested, stateShutdownRequested | stateShutdownImmediate},
		{`immediate`, stateShutdownRequested | stateShutdownImmediate, stateShutdownRequested | stateShutdownImmediate},
		// termination wins over a late escalation attempt
		{`terminated graceful`, stateShutdownRequested | stateTerminated, stateShutdownRequested | stateTerminated},
		{`terminated immediate`, stateShutdownRequested | stateShutdownImmediate | stateTerminated, stateShutdownRequested | stateShutdownImmediate | stateTerminated},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var s state
			s.v.Store(tc.before)
			s.requestShutdownNow()
			if v := s.load(); v != tc.after {
				t.Errorf(`expected %#b, got %#b`, tc.after, v)
			}
		})
	}
}

func TestState_markTerminated(t *testing.T) {
	for _, tc := range []struct {
		name   string
		before uint32
		after  uint32
	}{
		{`graceful`, stateShutdownRequested, stateShutdownRequested | stateTerminated},
		{`immediate`, stateShutdownRequested | stateShutdownImmediate, stateShutdownRequested | stateShutdownImmediate | stateTerminated},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var s state
			s.v.Store(tc.before)
			s.markTerminated()
			if v := s.load(); v != tc.after {
				t.Errorf(`expected %#b, got %#b`, tc.after, v)
			}
		})
	}
}

func TestState_predicates(t *testing.T) {
	for _, tc := range []struct {
		name         string
		value        uint32
		isShutdown   bool
		isTerminated bool
		isRunning    bool
		isDraining   bool
	}{
		{`running`, 0, false, false, true, true},
		{`graceful`, stateShutdownRequested, true, false, false, true},
		{`immediate`, stateShutdownRequested | stateShutdownImmediate, true, false, false, false},
		{`terminated graceful`, stateShutdownRequested | stateTerminated, true, true, false, true},
		{`terminated immediate`, stateShutdownRequested | stateShutdownImmediate | stateTerminated, true, true, false, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var s state
			s.v.Store(tc.value)
			if v := s.isShutdown(); v != tc.isShutdown {
				t.Errorf(`isShutdown: expected %v, got %v`, tc.isShutdown, v)
			}
			if v := s.isTerminated(); v != tc.isTerminated {
				t.Errorf(`isTerminated: expected %v, got %v`, tc.isTerminated, v)
			}
			if v := s.isRunning(); v != tc.isRunning {
				t.Errorf(`isRunning: expected %v, got %v`, tc.isRunning, v)
			}
			if v := s.isDraining(); v != tc.isDraining {
				t.Errorf(`isDraining: expected %v, got %v`, tc.isDraining, v)
			}
		})
	}
}

func TestState_concurrentTransitionsAreMonotonic(t *testing.T) {
	const (
		goroutines = 8
		iterations = 2000
	)

	var s state

	var writers sync.WaitGroup
	writers.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer writers.Done()
			for j := 0; j < iterations; j++ {
				if (i+j)%2 == 0 {
					s.requestShutdown()
				} else {
					s.requestShutdownNow()
				}
			}
		}(i)
	}

	var downgraded atomic.Bool
	stop := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		var prev uint32
		for {
			cur := s.load()
			if cur&prev != prev {
				downgraded.Store(true)
				return
			}
			prev = cur
			select {
			case <-stop:
				return
			default:
			}
		}
	}()

	writers.Wait()
	close(stop)
	<-readerDone

	if downgraded.Load() {
		t.Error(`observed a state downgrade`)
	}
	final := s.load()
	if final&stateShutdownRequested == 0 {
		t.Errorf(`shutdown request lost: %#b`, final)
	}
	if final&stateTerminated != 0 {
		t.Errorf(`terminated without a worker: %#b`, final)
	}

	s.markTerminated()
	if v := s.load(); v&stateTerminated == 0 {
		t.Errorf(`markTerminated did not apply: %#b`, v)
	} else if v&^(stateShutdownRequested|stateShutdownImmediate|stateTerminated) != 0 {
		t.Errorf(`unexpected state bits: %#b`, v)
	}
}
