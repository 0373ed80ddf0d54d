package utils

import "time"

// Stopwatch measures one operation: a run, a tool call, an LLM request.
type Stopwatch struct {
	start   time.Time
	elapsed time.Duration
	stopped bool
}

// StartTimer returns a running Stopwatch.
func StartTimer() *Stopwatch {
	return &Stopwatch{start: time.Now()}
}

// Stop freezes the measurement and returns it. Later calls return the
// first measurement.
func (s *Stopwatch) Stop() time.Duration {
	if !s.stopped {
		s.elapsed = time.Since(s.start)
		s.stopped = true
	}
	return s.elapsed
}

// Elapsed is the frozen duration once stopped, the running one before.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.stopped {
		return s.elapsed
	}
	return time.Since(s.start)
}
