// Package console prints a textual dump of a running network, one block per
// observed step.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"freightsim/internal/core/domain/model/network"
	"freightsim/internal/core/domain/model/transporter"

	"github.com/labstack/gommon/color"
)

// Renderer writes network dumps to an io.Writer.
type Renderer struct {
	out   io.Writer
	color *color.Color
}

// NewRenderer creates a renderer writing to out. Colors are only emitted
// when colored is true.
func NewRenderer(out io.Writer, colored bool) *Renderer {
	c := color.New()
	c.SetOutput(out)
	if colored {
		c.Enable()
	} else {
		c.Disable()
	}
	return &Renderer{out: out, color: c}
}

// Observe renders n. Its signature matches commands.StepObserver.
func (r *Renderer) Observe(_ context.Context, n *network.Network) error {
	_, err := io.WriteString(r.out, r.Render(n))
	return err
}

// Render formats the clock, every transporter, the pending queue and the KPIs.
//
// Example output:
//
//	Time: 2.000000 days
//	#0 [1->2] Transporting order 3f1c... since 1.250000
//	#1 [0]    Idle since 0.000000
//	Pending (1): 8a2e...(2->0)
//	Created 4 | Pending 1 | Assigned 1 | Delivered 2 | Late 1 | Delay rate 0.5000 | Transporting 0.4375
func (r *Renderer) Render(n *network.Network) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %.6f days\n", r.color.Bold("Time:"), n.Now())

	for _, t := range n.Transporters() {
		route := fmt.Sprintf("[%d]", t.Current)
		if t.HasTarget {
			route = fmt.Sprintf("[%d->%d]", t.Current, t.Target)
		}
		fmt.Fprintf(&b, "#%d %-8s %s", t.Index, route, r.phase(t.Phase))
		if t.OrderID != nil {
			fmt.Fprintf(&b, " order %s", t.OrderID.String())
		}
		fmt.Fprintf(&b, " since %.6f\n", t.LastTransitionAt)
	}

	pending := n.PendingOrders()
	fmt.Fprintf(&b, "Pending (%d):", len(pending))
	for _, o := range pending {
		fmt.Fprintf(&b, " %s(%d->%d)", o.ID.String(), o.Origin, o.Destination)
	}
	b.WriteString("\n")

	k := n.KPIs()
	fmt.Fprintf(&b, "Created %d | Pending %d | Assigned %d | Delivered %d | Late %d | Delay rate %s | Transporting %s\n\n",
		k.Created, k.Pending, k.Assigned, k.Delivered, k.Late, k.DelayRate, k.TransportingRatio)

	return b.String()
}

func (r *Renderer) phase(p transporter.Phase) string {
	switch p {
	case transporter.Idle:
		return r.color.Green(p.String())
	case transporter.Relocating:
		return r.color.Yellow(p.String())
	case transporter.Transporting:
		return r.color.Cyan(p.String())
	default:
		return r.color.Red(p.String())
	}
}
