package order

import (
	"errors"
	"fmt"
	"strings"

	"orders/internal/pkg/errs"
)

// ErrInvalidStateTransition is the sentinel behind InvalidStateTransitionError.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	NEW ──> IN_PROGRESS ──> READY
//	 │          │
//	 │          ├──> CANCELLED
//	 │          └──> FAILED
//	 ├──> CANCELLED
//	 └──> FAILED
//
// READY, CANCELLED and FAILED are terminal.
type Status int

const (
	// Unknown is the zero value and is never a valid status.
	Unknown Status = iota

	// New orders are editable and waiting for processing to start.
	New

	// InProgress orders are being processed downstream.
	InProgress

	// Ready orders completed processing successfully.
	Ready

	// Cancelled orders were withdrawn before reaching Ready.
	Cancelled

	// Failed orders could not be processed.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		New:        "NEW",
		InProgress: "IN_PROGRESS",
		Ready:      "READY",
		Cancelled:  "CANCELLED",
		Failed:     "FAILED",
	}
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{New, InProgress, Ready, Cancelled, Failed}
}

// ParseStatus converts the wire name ("NEW", "IN_PROGRESS", ...) back to a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, status := range Statuses() {
		if status.String() == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of the defined statuses.
func (s Status) Validate() error {
	if s < New || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transition is defined from s.
func (s Status) IsTerminal() bool {
	return s == Ready || s == Cancelled || s == Failed
}

// CanFail reports whether MarkFailed is a legal transition from s.
func (s Status) CanFail() bool {
	return s == New || s == InProgress
}

// StartProcessing transitions NEW to IN_PROGRESS.
func (s Status) StartProcessing() (Status, error) {
	if s != New {
		return s, NewInvalidStateTransitionError(s, InProgress)
	}
	return InProgress, nil
}

// Complete transitions IN_PROGRESS to READY.
func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return s, NewInvalidStateTransitionError(s, Ready)
	}
	return Ready, nil
}

// Cancel transitions NEW or IN_PROGRESS to CANCELLED.
func (s Status) Cancel() (Status, error) {
	if !s.CanFail() {
		return s, NewInvalidStateTransitionError(s, Cancelled)
	}
	return Cancelled, nil
}

// MarkFailed transitions NEW or IN_PROGRESS to FAILED.
func (s Status) MarkFailed() (Status, error) {
	if !s.CanFail() {
		return s, NewInvalidStateTransitionError(s, Failed)
	}
	return Failed, nil
}

// InvalidStateTransitionError reports an operation attempted from a status
// that does not allow it.
type InvalidStateTransitionError struct {
	Current Status
	Target  Status
}

// NewInvalidStateTransitionError creates an error for the rejected move from current to target.
func NewInvalidStateTransitionError(current, target Status) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{Current: current, Target: target}
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move order from %s to %s", ErrInvalidStateTransition, e.Current, e.Target)
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}
