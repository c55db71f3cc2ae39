// Package services provides domain services of the order lifecycle that do not
// belong to the Order aggregate itself.
//
// The package includes:
//   - OutcomeResolver: decides how an IN_PROGRESS order ends (ready, cancelled, failed)
//   - ApplyOutcome: applies a decided outcome to the aggregate
//
// The resolver is a seam for the downstream payment and fulfillment process.
// RandomOutcomeResolver is the default and draws an outcome uniformly.
package services
