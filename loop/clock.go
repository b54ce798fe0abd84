package loop

import (
	"time"
)

// NanoClock returns a monotonically non-decreasing nanosecond count. It is
// consumed by [Runner.AwaitTermination] to bound its wait.
type NanoClock func() int64

// nanotimeAnchor pins the default clock to the process monotonic clock.
var nanotimeAnchor = time.Now()

// nanotime is the default [NanoClock]. time.Since reads the monotonic
// clock, so wall clock adjustments cannot move it backward.
func nanotime() int64 {
	return int64(time.Since(nanotimeAnchor))
}
