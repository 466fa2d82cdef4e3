package game

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"voxsim/internal/profiling"
)

const defaultSlowTick = 16 * time.Millisecond

// Loop drives a session at a fixed simulated tick length. Pacing only affects
// wall clock time; the simulation always advances 1/rate per tick.
type Loop struct {
	session *Session
	log     logrus.FieldLogger
	dt      float64

	// period is the wall clock time between ticks. Zero runs unthrottled.
	period time.Duration
	next   time.Time

	// SlowTick is the processing time above which a tick is reported.
	SlowTick time.Duration
	// OnTick runs before each tick with the index of the tick about to run.
	OnTick func(tick uint64)
}

// NewLoop creates a loop. tickRate <= 0 runs unthrottled at 60 simulated ticks per second.
func NewLoop(s *Session, tickRate int, log logrus.FieldLogger) *Loop {
	if log == nil {
		log = logrus.StandardLogger()
	}
	l := &Loop{
		session:  s,
		log:      log,
		dt:       1.0 / 60,
		SlowTick: defaultSlowTick,
	}
	if tickRate > 0 {
		l.dt = 1.0 / float64(tickRate)
		l.period = time.Second / time.Duration(tickRate)
	}
	return l
}

// Period returns the wall clock time between ticks, or zero when unthrottled.
func (l *Loop) Period() time.Duration {
	return l.period
}

// Run ticks until ctx is cancelled or maxTicks ticks ran. maxTicks == 0 runs
// until cancelled.
func (l *Loop) Run(ctx context.Context, maxTicks uint64) error {
	l.next = time.Time{}
	for n := uint64(0); maxTicks == 0 || n < maxTicks; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.tick()
		if err := l.pace(ctx); err != nil {
			return err
		}
	}
	return nil
}

// pace sleeps until the next tick is due. Ticks are scheduled on a fixed grid;
// after a stall longer than one period the grid restarts from now instead of
// running a burst of catch-up ticks.
func (l *Loop) pace(ctx context.Context) error {
	if l.period <= 0 {
		return nil
	}
	now := time.Now()
	if l.next.IsZero() || now.Sub(l.next) > l.period {
		l.next = now
	}
	l.next = l.next.Add(l.period)

	wait := time.Until(l.next)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (l *Loop) tick() {
	profiling.ResetFrame()
	start := time.Now()

	if l.OnTick != nil {
		l.OnTick(l.session.Ticks())
	}
	l.session.Tick(l.dt)

	if d := time.Since(start); l.SlowTick > 0 && d > l.SlowTick {
		l.log.WithFields(logrus.Fields{
			"tick":     l.session.Ticks(),
			"duration": d,
			"top":      profiling.TopN(5),
		}).Warn("slow tick")
	}
}
