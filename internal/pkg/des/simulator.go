package des

import (
	"container/heap"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"freightsim/internal/pkg/errs"
)

// TraceRecord describes one executed event. Immediate records come from
// ExecuteNow and carry the sequence number of the event that was firing.
type TraceRecord struct {
	Seq       uint64
	Time      float64
	Name      string
	Immediate bool
}

// String renders the record in a stable single-line form.
func (r TraceRecord) String() string {
	kind := "fire"
	if r.Immediate {
		kind = "exec"
	}
	return fmt.Sprintf("%08d %s t=%.9f %s", r.Seq, kind, r.Time, r.Name)
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithTrace registers a hook called for every executed event, scheduled or
// immediate, in execution order.
func WithTrace(fn func(TraceRecord)) Option {
	return func(s *Simulator) {
		s.trace = fn
	}
}

// WithLogger sets the logger used for run progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// Simulator owns the simulated clock and the future-event list.
// It is not safe for concurrent use; the model it drives is single-threaded.
type Simulator struct {
	now     float64
	seq     uint64
	current uint64
	fired   uint64
	queue   eventQueue
	trace   func(TraceRecord)
	logger  *slog.Logger
}

// New creates a Simulator with its clock at zero.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "des")
	return s
}

// Now returns the current simulated time in days.
func (s *Simulator) Now() float64 {
	return s.now
}

// Pending returns the number of scheduled events that have not fired yet.
func (s *Simulator) Pending() int {
	return s.queue.Len()
}

// NextAt returns the time of the earliest scheduled event, and false when
// nothing is scheduled.
func (s *Simulator) NextAt() (float64, bool) {
	if s.queue.Len() == 0 {
		return 0, false
	}
	return s.queue[0].at, true
}

// Schedule enqueues fn to fire at Now()+delay. Events scheduled for the same
// instant fire in the order they were scheduled. An error returned by fn
// halts the run.
func (s *Simulator) Schedule(delay float64, name string, fn func() error) error {
	if fn == nil {
		return errs.NewValueIsRequiredError("handler")
	}
	if math.IsNaN(delay) || math.IsInf(delay, 0) || delay < 0 {
		return errs.NewValueIsOutOfRangeError("delay", delay, 0, math.Inf(1))
	}

	s.seq++
	heap.Push(&s.queue, &event{
		at:   s.now + delay,
		seq:  s.seq,
		name: name,
		fire: fn,
	})
	return nil
}

// ExecuteNow runs fn immediately, inside the current turn, and returns its
// error unchanged.
func (s *Simulator) ExecuteNow(name string, fn func() error) error {
	if fn == nil {
		return errs.NewValueIsRequiredError("handler")
	}
	if s.trace != nil {
		s.trace(TraceRecord{Seq: s.current, Time: s.now, Name: name, Immediate: true})
	}
	return fn()
}

// Run fires every event due at or before until, then advances the clock to
// until. It stops early when ctx is done or a handler fails; the returned
// error names the failing event.
func (s *Simulator) Run(ctx context.Context, until float64) error {
	if math.IsNaN(until) || until < s.now {
		return errs.NewValueIsOutOfRangeError("until", until, s.now, math.Inf(1))
	}

	for s.queue.Len() > 0 && s.queue[0].at <= until {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.fireNext(); err != nil {
			return err
		}
	}

	s.now = until
	s.logger.DebugContext(ctx, "run reached horizon", "sim_time", s.now, "fired", s.fired)
	return nil
}

// RunSteps fires at most n events and reports how many fired. The clock is
// left at the time of the last fired event.
func (s *Simulator) RunSteps(ctx context.Context, n int) (int, error) {
	if n < 0 {
		return 0, errs.NewValueIsOutOfRangeError("steps", n, 0, math.MaxInt)
	}

	fired := 0
	for fired < n && s.queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return fired, err
		}
		if err := s.fireNext(); err != nil {
			return fired, err
		}
		fired++
	}
	return fired, nil
}

func (s *Simulator) fireNext() error {
	ev := heap.Pop(&s.queue).(*event)
	s.now = ev.at
	s.current = ev.seq
	s.fired++

	if s.trace != nil {
		s.trace(TraceRecord{Seq: ev.seq, Time: ev.at, Name: ev.name})
	}

	if err := ev.fire(); err != nil {
		s.logger.Error("event halted the run", "event", ev.name, "sim_time", ev.at, "error", err)
		return fmt.Errorf("event %q at t=%.6f: %w", ev.name, ev.at, err)
	}
	return nil
}
