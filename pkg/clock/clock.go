package clock

import (
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/gavv/monotime"
)

type (
	// Clock defines an interface for obtaining the current time and
	// setting timers, so that time-driven logic is mockable in tests.
	Clock = bclock.Clock

	// Mock is a mock clock whose time only advances when told to.
	Mock = bclock.Mock

	// Timer is a clock-driven timer.
	Timer = bclock.Timer
)

// New returns a Clock backed by the wall clock.
func New() Clock {
	return bclock.New()
}

// NewMock returns a mock Clock for tests.
func NewMock() *Mock {
	return bclock.NewMock()
}

// MonotonicElapsed is a point on the process's monotonic clock.
// It is used to measure durations that must not be affected by
// wall-clock adjustments, such as a task's elapsed run time.
type MonotonicElapsed time.Duration

// Mono captures the current monotonic reading.
func Mono() MonotonicElapsed {
	return MonotonicElapsed(monotime.Now())
}

// Elapsed returns the duration since the reading was captured.
func (m MonotonicElapsed) Elapsed() time.Duration {
	return monotime.Now() - time.Duration(m)
}
