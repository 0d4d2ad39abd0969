// Package services provides domain services that operate across several
// entities of the freight model.
//
// The package includes:
//   - NearestIdleDispatcher: the greedy policy choosing which idle transporter
//     serves an order
package services
