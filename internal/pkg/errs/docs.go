// Package errs provides standardized error types for the orders service.
// Every error type pairs a sentinel (for errors.Is) with a struct carrying
// the offending parameter and an optional cause (for errors.As).
//
// The package includes:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value violates a domain rule
//   - ValueIsOutOfRangeError: a value falls outside its allowed bounds
//   - ObjectNotFoundError: an aggregate cannot be found in the store
//   - VersionIsInvalidError: an optimistic concurrency check failed
//
// Validation errors are fatal to a single message: the consumers log them and
// move on, they are never retried.
package errs
