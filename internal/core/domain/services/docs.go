// Package services provides domain services that work across aggregates and
// reference data.
//
// The package includes:
//   - SnapshotBuilder: prices a checkout against the current catalog menu and
//     freezes the result into an order.MenuSnapshot
package services
