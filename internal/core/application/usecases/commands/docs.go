// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
//
// Order lifecycle commands never write an order directly: each one reads the
// order, builds an order.Mutator and hands it to OrderRepository.CompareAndUpdate
// with the version it observed. A lost race is retried a bounded number of times.
package commands
