package network

import (
	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/order"
	"freightsim/internal/core/domain/model/transporter"
)

// KPIs are the network's performance indicators at a given instant.
type KPIs struct {
	Time      float64
	Created   int
	Pending   int
	Assigned  int
	Delivered int
	Late      int

	// DelayRate is late / delivered.
	DelayRate kernel.Ratio
	// MeanDelay is the average delay of delivered orders, in days.
	MeanDelay kernel.Ratio
	// TransportingRatio is the mean over the fleet of the fraction of time
	// spent transporting.
	TransportingRatio kernel.Ratio
}

// TransporterSnapshot is a read-only view of a transporter.
type TransporterSnapshot struct {
	ID               kernel.UUID
	Index            int
	Current          kernel.Node
	Target           kernel.Node
	HasTarget        bool
	Phase            transporter.Phase
	OrderID          *kernel.UUID
	LastTransitionAt float64
	Utilization      kernel.Ratio
}

// OrderSnapshot is a read-only view of an order.
type OrderSnapshot struct {
	ID                 kernel.UUID
	Origin             kernel.Node
	Destination        kernel.Node
	Status             order.Status
	PlacedAt           float64
	ExpectedDeliveryAt float64
	ActualDeliveryAt   *float64
	Delay              *float64
}

// KPIs computes the indicators at the current simulated time.
func (n *Network) KPIs() KPIs {
	now := n.Now()
	k := KPIs{
		Time:      now,
		Created:   n.created,
		Pending:   len(n.pending),
		Assigned:  len(n.assigned),
		Delivered: len(n.delivered),
	}

	totalDelay := 0.0
	for _, o := range n.delivered {
		if o.IsLate() {
			k.Late++
		}
		d, _ := o.Delay()
		totalDelay += d
	}
	k.DelayRate = kernel.NewRatio(float64(k.Late), float64(k.Delivered))
	k.MeanDelay = kernel.NewRatio(totalDelay, float64(k.Delivered))

	if now > 0 {
		sum := 0.0
		for _, t := range n.transporters {
			v, _ := t.Utilization(now).Get()
			sum += v
		}
		k.TransportingRatio = kernel.NewRatio(sum, float64(len(n.transporters)))
	}

	return k
}

// Transporters returns a snapshot of the fleet in fleet order.
func (n *Network) Transporters() []TransporterSnapshot {
	now := n.Now()
	out := make([]TransporterSnapshot, 0, len(n.transporters))
	for _, t := range n.transporters {
		target, hasTarget := t.Target()
		s := TransporterSnapshot{
			ID:               t.ID(),
			Index:            t.Index(),
			Current:          t.CurrentNode(),
			Target:           target,
			HasTarget:        hasTarget,
			Phase:            t.Phase(),
			LastTransitionAt: t.LastTransitionAt(),
			Utilization:      t.Utilization(now),
		}
		if o := t.AssignedOrder(); o != nil {
			id := o.ID()
			s.OrderID = &id
		}
		out = append(out, s)
	}
	return out
}

// PendingOrders returns the pending queue, oldest first.
func (n *Network) PendingOrders() []OrderSnapshot {
	return snapshots(n.pending)
}

// DeliveredOrders returns the delivered orders in delivery order.
func (n *Network) DeliveredOrders() []OrderSnapshot {
	return snapshots(n.delivered)
}

func snapshots(orders []*order.Order) []OrderSnapshot {
	out := make([]OrderSnapshot, 0, len(orders))
	for _, o := range orders {
		s := OrderSnapshot{
			ID:                 o.ID(),
			Origin:             o.Origin(),
			Destination:        o.Destination(),
			Status:             o.Status(),
			PlacedAt:           o.PlacedAt(),
			ExpectedDeliveryAt: o.ExpectedDeliveryAt(),
		}
		if at, ok := o.ActualDeliveryAt(); ok {
			s.ActualDeliveryAt = &at
		}
		if d, ok := o.Delay(); ok {
			s.Delay = &d
		}
		out = append(out, s)
	}
	return out
}
