package des_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"freightsim/internal/pkg/des"
	"freightsim/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_Schedule(t *testing.T) {
	t.Run("should fire events in time order", func(t *testing.T) {
		sim := des.New()
		var fired []string

		for _, tc := range []struct {
			delay float64
			name  string
		}{{3, "c"}, {1, "a"}, {2, "b"}} {
			name := tc.name
			require.NoError(t, sim.Schedule(tc.delay, name, func() error {
				fired = append(fired, name)
				return nil
			}))
		}

		require.NoError(t, sim.Run(context.Background(), 10))
		assert.Equal(t, []string{"a", "b", "c"}, fired)
		assert.InDelta(t, 10.0, sim.Now(), 1e-12)
	})

	t.Run("should break time ties by insertion order", func(t *testing.T) {
		sim := des.New()
		var fired []int

		for i := range 5 {
			require.NoError(t, sim.Schedule(1, "tie", func() error {
				fired = append(fired, i)
				return nil
			}))
		}

		require.NoError(t, sim.Run(context.Background(), 1))
		assert.Equal(t, []int{0, 1, 2, 3, 4}, fired)
	})

	t.Run("should fire zero delay events after the current one", func(t *testing.T) {
		sim := des.New()
		var fired []string

		require.NoError(t, sim.Schedule(1, "outer", func() error {
			fired = append(fired, "outer")
			return sim.Schedule(0, "inner", func() error {
				fired = append(fired, "inner")
				assert.InDelta(t, 1.0, sim.Now(), 1e-12)
				return nil
			})
		}))
		require.NoError(t, sim.Schedule(1, "sibling", func() error {
			fired = append(fired, "sibling")
			return nil
		}))

		require.NoError(t, sim.Run(context.Background(), 2))
		assert.Equal(t, []string{"outer", "sibling", "inner"}, fired)
	})

	t.Run("should reject negative NaN and infinite delays", func(t *testing.T) {
		sim := des.New()
		noop := func() error { return nil }

		for _, d := range []float64{-1, math.NaN(), math.Inf(1)} {
			err := sim.Schedule(d, "bad", noop)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
		assert.Equal(t, 0, sim.Pending())
	})

	t.Run("should reject nil handler", func(t *testing.T) {
		sim := des.New()

		err := sim.Schedule(1, "nil", nil)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestSimulator_ExecuteNow(t *testing.T) {
	t.Run("should run synchronously at the current time", func(t *testing.T) {
		sim := des.New()
		var order []string

		require.NoError(t, sim.Schedule(2, "event", func() error {
			order = append(order, "before")
			err := sim.ExecuteNow("now", func() error {
				order = append(order, "now")
				assert.InDelta(t, 2.0, sim.Now(), 1e-12)
				return nil
			})
			order = append(order, "after")
			return err
		}))

		require.NoError(t, sim.Run(context.Background(), 5))
		assert.Equal(t, []string{"before", "now", "after"}, order)
	})

	t.Run("should return the handler error unchanged", func(t *testing.T) {
		sim := des.New()
		boom := errors.New("boom")

		err := sim.ExecuteNow("fail", func() error { return boom })

		assert.Same(t, boom, err)
	})
}

func TestSimulator_Run(t *testing.T) {
	t.Run("should leave events after the horizon pending", func(t *testing.T) {
		sim := des.New()
		fired := 0
		inc := func() error { fired++; return nil }

		require.NoError(t, sim.Schedule(1, "in", inc))
		require.NoError(t, sim.Schedule(5, "edge", inc))
		require.NoError(t, sim.Schedule(5.5, "out", inc))

		require.NoError(t, sim.Run(context.Background(), 5))
		assert.Equal(t, 2, fired)
		assert.Equal(t, 1, sim.Pending())

		require.NoError(t, sim.Run(context.Background(), 6))
		assert.Equal(t, 3, fired)
	})

	t.Run("should halt on handler error and name the event", func(t *testing.T) {
		sim := des.New()
		fired := 0
		violation := errs.NewInvariantViolationError("transporter", "assign while busy")

		require.NoError(t, sim.Schedule(1, "bad-event", func() error { return violation }))
		require.NoError(t, sim.Schedule(2, "later", func() error { fired++; return nil }))

		err := sim.Run(context.Background(), 10)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvariantViolation)
		assert.Contains(t, err.Error(), "bad-event")
		assert.Equal(t, 0, fired)
		assert.InDelta(t, 1.0, sim.Now(), 1e-12)
	})

	t.Run("should reject a horizon in the past", func(t *testing.T) {
		sim := des.New()
		require.NoError(t, sim.Run(context.Background(), 3))

		err := sim.Run(context.Background(), 2)

		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		sim := des.New()
		ctx, cancel := context.WithCancel(context.Background())
		fired := 0

		require.NoError(t, sim.Schedule(1, "cancel", func() error { fired++; cancel(); return nil }))
		require.NoError(t, sim.Schedule(2, "never", func() error { fired++; return nil }))

		err := sim.Run(ctx, 10)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, fired)
	})
}

func TestSimulator_NextAt(t *testing.T) {
	t.Run("should report an empty future-event list", func(t *testing.T) {
		_, ok := des.New().NextAt()

		assert.False(t, ok)
	})

	t.Run("should report the earliest event without firing it", func(t *testing.T) {
		sim := des.New()
		require.NoError(t, sim.Schedule(3, "late", func() error { return nil }))
		require.NoError(t, sim.Schedule(1.5, "early", func() error { return nil }))

		at, ok := sim.NextAt()

		assert.True(t, ok)
		assert.InDelta(t, 1.5, at, 1e-12)
		assert.Equal(t, 2, sim.Pending())
	})
}

func TestSimulator_RunSteps(t *testing.T) {
	t.Run("should fire at most n events", func(t *testing.T) {
		sim := des.New()
		for i := range 4 {
			require.NoError(t, sim.Schedule(float64(i+1), "step", func() error { return nil }))
		}

		n, err := sim.RunSteps(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.InDelta(t, 3.0, sim.Now(), 1e-12)
		at, ok := sim.NextAt()
		assert.True(t, ok)
		assert.InDelta(t, 4.0, at, 1e-12)

		n, err = sim.RunSteps(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestSimulator_WithTrace(t *testing.T) {
	t.Run("should record fired and immediate events in execution order", func(t *testing.T) {
		var trace []des.TraceRecord
		var sim *des.Simulator
		sim = des.New(des.WithTrace(func(r des.TraceRecord) { trace = append(trace, r) }))

		require.NoError(t, sim.Schedule(1, "first", func() error {
			return sim.ExecuteNow("nested", func() error { return nil })
		}))
		require.NoError(t, sim.Schedule(2, "second", func() error { return nil }))

		require.NoError(t, sim.Run(context.Background(), 3))
		require.Len(t, trace, 3)
		assert.Equal(t, des.TraceRecord{Seq: 1, Time: 1, Name: "first"}, trace[0])
		assert.Equal(t, des.TraceRecord{Seq: 1, Time: 1, Name: "nested", Immediate: true}, trace[1])
		assert.Equal(t, des.TraceRecord{Seq: 2, Time: 2, Name: "second"}, trace[2])
		assert.Contains(t, trace[1].String(), "exec")
	})
}
