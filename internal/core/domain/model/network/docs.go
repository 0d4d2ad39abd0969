// Package network provides the freight network: the demand generators, the
// transporter fleet and the dispatcher that matches pending orders with idle
// transporters.
//
// Orders flow through three collections owned by the Network:
//
//	generator --arrival--> pending (FIFO) --Dispatch--> assigned --delivery--> delivered
//
// Every created order is in exactly one collection at any instant. Only the
// network's handlers (arrival, delivery, Dispatch) change the collections;
// transporters change only their own fields.
//
// All randomness is drawn from streams derived from one root seed: one stream
// per generator, one per transporter (its start node) and one for the network
// (delivery deadlines). Two runs with the same seed and configuration produce
// the same sequence of events.
package network
