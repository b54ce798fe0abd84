package loop

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

const testAwaitTimeout = 10 * time.Second

type (
	// countingStep performs work for the first works invocations, then
	// reports no work. Counters are atomic so tests can observe progress
	// from other goroutines.
	countingStep struct {
		name  string
		works atomic.Int64
		calls atomic.Int64
	}

	// funcStep is a named step backed by a function.
	funcStep struct {
		name    string
		perform func() bool
	}

	// syncBuffer is a goroutine safe bytes.Buffer for log capture.
	syncBuffer struct {
		mu  sync.Mutex
		buf bytes.Buffer
	}
)

func newCountingStep(name string, works int64) *countingStep {
	x := &countingStep{name: name}
	x.works.Store(works)
	return x
}

func (x *countingStep) Perform() bool {
	x.calls.Add(1)
	for {
		w := x.works.Load()
		if w <= 0 {
			return false
		}
		if x.works.CompareAndSwap(w, w-1) {
			return true
		}
	}
}

func (x *countingStep) String() string { return x.name }

func (x *funcStep) Perform() bool { return x.perform() }

func (x *funcStep) String() string { return x.name }

func (x *syncBuffer) Write(p []byte) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buf.Write(p)
}

func (x *syncBuffer) String() string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buf.String()
}

// testLogger returns a trace level JSON logger without a time field.
func testLogger(w io.Writer) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(logiface.LevelTrace),
	).Logger()
}

// failHandler fails the test if a step error reaches it.
func failHandler(t *testing.T) ErrorHandler {
	return ErrorHandlerFunc(func(l *Loop, step Step, err error) {
		t.Errorf(`unexpected step error in %s: step %s: %v`, l, stepLabel(step), err)
	})
}

// waitFor polls cond until it is true or the deadline elapses.
func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(`condition not met before deadline`)
		}
		time.Sleep(time.Millisecond)
	}
}

// mustStart starts a runner and registers a cleanup that stops it.
func mustStart(t *testing.T, steps []Step, options ...Option) *Runner {
	t.Helper()
	r, err := Start(steps, options...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		r.ShutdownNow()
		if !r.AwaitTermination(testAwaitTimeout) {
			t.Error(`runner did not terminate`)
		}
	})
	return r
}
