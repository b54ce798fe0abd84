// Package loop runs an ordered set of steps on a dedicated worker thread,
// coordinating cooperative shutdown through a lock-free lifecycle state
// machine.
//
// A [Runner] is constructed with [Start] or [StartProviders] and begins
// executing immediately. The worker drives two phases: the main loop, which
// performs every [Step] each iteration and defers to an [IdleStrategy] when
// no work was done, and the shutdown loop, which drains remaining work
// without idling once [Runner.Shutdown] is called. [Runner.ShutdownNow]
// aborts the drain. Termination is observable from any goroutine via
// [Runner.IsTerminated] and [Runner.AwaitTermination].
//
// Lifecycle state is a single atomic bit field, mutated only by
// compare-and-swap, so shutdown requests from any number of goroutines are
// never lost, never block the worker, and only ever move the state forward.
//
// A failing step panics. The driver recovers it, routes it to the
// configured [ErrorHandler] as a [PanicError], and keeps the loop running.
package loop
