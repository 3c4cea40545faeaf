// Package order implements the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root holding identity, the frozen menu snapshot,
//     the carrier binding and the lifecycle timestamps
//   - Status and Event: the transition table (Status.Next)
//   - Mutator: guarded transitions applied by the order store's compare-and-update
//   - MenuSnapshot: the immutable copy of what was ordered
//   - DeliveryPolicy: who may mark an order delivered
//
// Key business rules:
//   - only a Created order can be claimed, and only by a carrier
//   - only the bound carrier confirms retrieval
//   - only the order's consumer reports it missing
//   - Reopen (admin or system) returns an order to Created and starts a new attempt
//   - Delivered and Cancelled are terminal
//   - an illegal (status, event) pair fails with InvalidTransitionError and changes nothing
package order
