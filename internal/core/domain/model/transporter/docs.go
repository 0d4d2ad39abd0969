// Package transporter provides the Transporter entity: a vehicle that carries
// one order at a time between nodes of the freight network.
//
// The behaviour is an explicit state machine. Transition is a pure function
// from (State, Trigger) to (State, []Effect) and can be tested without a
// simulation kernel; Transporter applies the effects through a Scheduler.
//
//	Idle --Assign(o), o at current node--> Transporting
//	Idle --Assign(o)--> Relocating --StartTransport--> Transporting
//	Transporting --FinishTransport--> Idle
//
// Subscribers registered with OnStartTransport and OnFinishTransport are
// called in registration order. Start notifications run in the same turn as
// the transition; finish notifications run in a separate zero-delay event.
package transporter
