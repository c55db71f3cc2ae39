// Package contracts defines the JSON messages exchanged on the commands and
// events topics.
//
// Both topics carry discriminated unions: commands are tagged by "commandType"
// (CREATE_ORDER, CANCEL_ORDER) and events by "eventType" (ORDER_CREATED,
// ORDER_PROCESSING_STARTED, ORDER_READY, ORDER_CANCELLED,
// ORDER_PROCESSING_FAILED). Every message is keyed by the textual order
// identifier. Timestamps are ISO-8601 local date-times in UTC, prices are
// JSON numbers.
package contracts
