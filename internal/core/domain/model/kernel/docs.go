// Package kernel provides the shared value objects of the order domain.
//
// The package includes:
//   - UUID: identifier for orders, line items, products and messages
//   - Money: a non-negative decimal amount in an ISO 4217 currency, rounded
//     half-up to the currency's canonical fraction digits
//   - Quantity: a non-negative whole number of units
//
// All value objects are immutable; every operation returns a new value.
// Zero values of UUID and Money are invalid and fail Validate.
package kernel
