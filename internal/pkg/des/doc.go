// Package des is a small single-threaded discrete-event simulation kernel.
//
// A Simulator keeps a future-event list ordered by (time, insertion sequence)
// and fires events one at a time to completion. Waiting is always expressed
// as a scheduled event; nothing blocks. Effects that must happen in the same
// turn as their cause go through ExecuteNow, which runs synchronously, so
// same-instant causal chains execute in call order.
//
// Simulated time is a float64 number of days since the start of the run.
//
// Randomness comes from SeedSequence: every stochastic entity derives its own
// Stream from the root seed and a fixed set of integer labels, so a stream
// depends only on (root, labels) and never on how many other streams exist or
// in which order events consume them.
//
// Example:
//
//	sim := des.New()
//	_ = sim.Schedule(1.5, "ping", func() error {
//	    fmt.Println("ping at", sim.Now())
//	    return nil
//	})
//	if err := sim.Run(ctx, 10); err != nil {
//	    // a handler failed; the run stopped at that event
//	}
package des
