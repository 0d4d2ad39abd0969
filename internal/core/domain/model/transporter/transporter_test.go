package transporter_test

import (
	"context"
	"testing"

	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/order"
	"freightsim/internal/core/domain/model/transporter"
	"freightsim/internal/pkg/des"
	"freightsim/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
}

func (r *recorder) listener(kind string) transporter.Listener {
	return func(t *transporter.Transporter, o *order.Order) error {
		r.events = append(r.events, kind)
		return nil
	}
}

func TestNewTransporter(t *testing.T) {
	t.Run("should create an idle transporter at its start node", func(t *testing.T) {
		sim := des.New()

		tr, err := transporter.NewTransporter(1, 2, travel, sim)

		require.NoError(t, err)
		require.NoError(t, tr.Validate())
		assert.Equal(t, 1, tr.Index())
		assert.True(t, tr.ID().IsEqual(kernel.UUIDFromName("transporter/1")))
		assert.Equal(t, transporter.Idle, tr.Phase())
		assert.Equal(t, kernel.Node(2), tr.CurrentNode())
		_, hasTarget := tr.Target()
		assert.False(t, hasTarget)
		assert.Nil(t, tr.AssignedOrder())
	})

	t.Run("should report every invalid argument", func(t *testing.T) {
		tr, err := transporter.NewTransporter(-1, 5, travel, nil)

		require.Error(t, err)
		assert.Nil(t, tr)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.ErrorIs(t, err, transporter.ErrSchedulerIsRequired)
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var tr transporter.Transporter

		assert.ErrorIs(t, tr.Validate(), transporter.ErrTransporterIsNotConstructed)
	})
}

func TestTransporter_Cycle(t *testing.T) {
	t.Run("should relocate, transport and deliver", func(t *testing.T) {
		sim := des.New()
		tr, err := transporter.NewTransporter(0, 0, travel, sim)
		require.NoError(t, err)
		rec := &recorder{}
		tr.OnStartTransport(rec.listener("start"))
		tr.OnFinishTransport(rec.listener("finish"))
		o := placedOrder(t, 1, 2)
		require.NoError(t, o.Assign(tr.ID()))

		require.NoError(t, tr.Assign(o))
		assert.Equal(t, transporter.Relocating, tr.Phase())

		require.NoError(t, sim.Run(context.Background(), 2.2))
		assert.Equal(t, transporter.Transporting, tr.Phase())
		assert.Equal(t, kernel.Node(1), tr.CurrentNode())
		assert.InDelta(t, 2.2, tr.LastTransitionAt(), 1e-12)
		assert.Equal(t, []string{"start"}, rec.events)

		require.NoError(t, sim.Run(context.Background(), 10))
		assert.Equal(t, transporter.Idle, tr.Phase())
		assert.Equal(t, kernel.Node(2), tr.CurrentNode())
		assert.InDelta(t, 6.2, tr.LastTransitionAt(), 1e-12)
		assert.Nil(t, tr.AssignedOrder())
		assert.Equal(t, []string{"start", "finish"}, rec.events)
		require.NoError(t, tr.Validate())

		util, ok := tr.Utilization(10).Get()
		assert.True(t, ok)
		assert.InDelta(t, 0.4, util, 1e-12)
	})

	t.Run("should notify start synchronously for a same node assignment", func(t *testing.T) {
		sim := des.New()
		tr, _ := transporter.NewTransporter(0, 1, travel, sim)
		rec := &recorder{}
		tr.OnStartTransport(rec.listener("start"))
		o := placedOrder(t, 1, 0)

		require.NoError(t, tr.Assign(o))

		assert.Equal(t, transporter.Transporting, tr.Phase())
		assert.Equal(t, []string{"start"}, rec.events)
		assert.Equal(t, 1, sim.Pending())
	})

	t.Run("should notify finish in a separate event at the same instant", func(t *testing.T) {
		var trace []des.TraceRecord
		sim := des.New(des.WithTrace(func(r des.TraceRecord) { trace = append(trace, r) }))
		tr, _ := transporter.NewTransporter(0, 1, travel, sim)
		o := placedOrder(t, 1, 0)
		var phaseAtNotify transporter.Phase
		tr.OnFinishTransport(func(tt *transporter.Transporter, got *order.Order) error {
			phaseAtNotify = tt.Phase()
			assert.Same(t, o, got)
			return nil
		})

		require.NoError(t, tr.Assign(o))
		require.NoError(t, sim.Run(context.Background(), 5))

		require.Len(t, trace, 2)
		assert.Equal(t, "transporter[0].finish-transport", trace[0].Name)
		assert.Equal(t, "transporter[0].delivered", trace[1].Name)
		assert.Equal(t, trace[0].Time, trace[1].Time)
		assert.Equal(t, transporter.Idle, phaseAtNotify)
	})

	t.Run("should call subscribers in registration order", func(t *testing.T) {
		sim := des.New()
		tr, _ := transporter.NewTransporter(0, 1, travel, sim)
		rec := &recorder{}
		tr.OnStartTransport(rec.listener("first"))
		tr.OnStartTransport(rec.listener("second"))

		require.NoError(t, tr.Assign(placedOrder(t, 1, 2)))

		assert.Equal(t, []string{"first", "second"}, rec.events)
	})

	t.Run("should reject an assignment while busy", func(t *testing.T) {
		sim := des.New()
		tr, _ := transporter.NewTransporter(0, 0, travel, sim)
		first := placedOrder(t, 1, 2)
		require.NoError(t, tr.Assign(first))

		err := tr.Assign(placedOrder(t, 2, 0))

		require.ErrorIs(t, err, errs.ErrInvariantViolation)
		assert.Same(t, first, tr.AssignedOrder())
	})

	t.Run("should halt the run when a subscriber fails", func(t *testing.T) {
		sim := des.New()
		tr, _ := transporter.NewTransporter(0, 0, travel, sim)
		tr.OnStartTransport(func(*transporter.Transporter, *order.Order) error {
			return errs.NewInvariantViolationError("network", "unknown order")
		})
		require.NoError(t, tr.Assign(placedOrder(t, 1, 2)))

		err := sim.Run(context.Background(), 10)

		require.ErrorIs(t, err, errs.ErrInvariantViolation)
		assert.Contains(t, err.Error(), "transporter[0].start-transport")
	})
}

func TestUtilization(t *testing.T) {
	t.Run("should be undefined at time zero", func(t *testing.T) {
		var u transporter.Utilization

		_, ok := u.Average(0).Get()

		assert.False(t, ok)
	})

	t.Run("should weight values by time", func(t *testing.T) {
		var u transporter.Utilization
		u.Observe(1, 2)
		u.Observe(0, 5)
		u.Observe(1, 8)

		avg, ok := u.Average(10).Get()

		assert.True(t, ok)
		assert.InDelta(t, 0.5, avg, 1e-12)
	})
}
