// Package run provides the Run aggregate: the persisted summary of one
// simulation of the freight network.
//
// A Run records what was simulated (name, seed, horizon, network size) and
// what came out of it (order counts, delay and transporting KPIs, per
// transporter utilization), along with the wall-clock interval the
// simulation took. Runs are immutable once built.
package run
