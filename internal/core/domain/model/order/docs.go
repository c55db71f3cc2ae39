// Package order holds the Order aggregate of the order lifecycle service.
//
// The package includes:
//   - Order: the aggregate root owning status, line items and invariants
//   - LineItem: a product line with a positive quantity and unit price
//   - Status: the NEW -> IN_PROGRESS -> READY/CANCELLED/FAILED state machine
//   - Event: the closed set of domain events raised by the aggregate
//
// Key business rules:
//   - all items of an order share one currency, set by the first item added
//   - items can change only while the order is NEW
//   - an order needs items before processing can start
//   - READY, CANCELLED and FAILED are terminal
//
// The aggregate never performs I/O. Callers drain recorded events with
// PullEvents after a successful mutation and hand them to the outbox.
package order
