package loop

import (
	"fmt"
	"sync/atomic"
)

type (
	// Thread is a handle to the worker created by a [ThreadFactory]. Start
	// is called exactly once, by the runner, during construction.
	Thread interface {
		Name() string
		Start()
	}

	// ThreadFactory creates the worker thread for a [Runner]. The returned
	// thread must not have been started.
	ThreadFactory interface {
		NewThread(run func()) Thread
	}

	// ThreadFactoryFunc implements [ThreadFactory] as a function.
	ThreadFactoryFunc func(run func()) Thread

	goroutineThread struct {
		name string
		run  func()
	}
)

var threadIDCounter atomic.Uint64

func (x ThreadFactoryFunc) NewThread(run func()) Thread { return x(run) }

func (x *goroutineThread) Name() string { return x.name }

func (x *goroutineThread) Start() { go x.run() }

// NamedThreadFactory returns a factory producing goroutine backed threads
// with the given name.
func NamedThreadFactory(name string) ThreadFactory {
	return ThreadFactoryFunc(func(run func()) Thread {
		return &goroutineThread{name: name, run: run}
	})
}

// defaultThreadFactory names threads loop-N, unique per process.
var defaultThreadFactory ThreadFactory = ThreadFactoryFunc(func(run func()) Thread {
	return &goroutineThread{
		name: fmt.Sprintf(`loop-%d`, threadIDCounter.Add(1)),
		run:  run,
	}
})
