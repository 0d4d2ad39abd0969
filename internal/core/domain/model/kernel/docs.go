// Package kernel provides the domain primitives shared by the freight model.
//
// The package includes:
//   - UUID: an identifier value object, random or derived from a name
//   - Node: the index of a location in the network
//   - Matrix: an immutable square matrix of per (origin, destination) values
//     such as travel times or demand rates
//   - Ratio: a KPI value that is undefined when its denominator is zero
package kernel
