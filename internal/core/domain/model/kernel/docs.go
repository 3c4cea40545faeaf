// Package kernel holds the value objects shared by every aggregate of the
// order service.
//
// The package includes:
//   - UUID: identifier for orders, schools, restaurants and principals
//   - Money: an amount in integer cents, used by menu prices and snapshots
//
// Both are immutable and safe for concurrent use. Their zero values are
// invalid and are rejected by Validate.
package kernel
