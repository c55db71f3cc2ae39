package services

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"orders/internal/core/domain/model/order"
)

// ErrUnknownOutcome is returned by ApplyOutcome for a nil outcome.
var ErrUnknownOutcome = errors.New("unknown outcome")

// SimulatedFailureReason is the reason RandomOutcomeResolver gives failed orders.
const SimulatedFailureReason = "downstream processing failed"

// Outcome is the decision for an order in processing. Implementations are
// ReadyOutcome, CancelledOutcome and FailedOutcome.
type Outcome interface {
	fmt.Stringer

	isOutcome()
}

type ReadyOutcome struct{}

func (ReadyOutcome) String() string { return "READY" }
func (ReadyOutcome) isOutcome()     {}

type CancelledOutcome struct{}

func (CancelledOutcome) String() string { return "CANCELLED" }
func (CancelledOutcome) isOutcome()     {}

type FailedOutcome struct {
	Reason string
}

func (FailedOutcome) String() string { return "FAILED" }
func (FailedOutcome) isOutcome()     {}

// OutcomeResolver decides the terminal outcome of an IN_PROGRESS order.
type OutcomeResolver interface {
	Resolve(o *order.Order) Outcome
}

// RandomOutcomeResolver picks READY, CANCELLED or FAILED with equal probability.
// It ignores the order; it stands in for a real downstream process.
type RandomOutcomeResolver struct {
	intN func(n int) int
}

func NewRandomOutcomeResolver() RandomOutcomeResolver {
	return RandomOutcomeResolver{intN: rand.IntN}
}

// NewSeededOutcomeResolver returns a resolver with a deterministic sequence.
func NewSeededOutcomeResolver(seed uint64) RandomOutcomeResolver {
	rnd := rand.New(rand.NewPCG(seed, seed))
	return RandomOutcomeResolver{intN: rnd.IntN}
}

func (r RandomOutcomeResolver) Resolve(_ *order.Order) Outcome {
	intN := r.intN
	if intN == nil {
		intN = rand.IntN
	}

	switch intN(3) {
	case 0:
		return ReadyOutcome{}
	case 1:
		return CancelledOutcome{}
	default:
		return FailedOutcome{Reason: SimulatedFailureReason}
	}
}

// FixedOutcomeResolver always returns the same outcome.
type FixedOutcomeResolver struct {
	Outcome Outcome
}

func (r FixedOutcomeResolver) Resolve(_ *order.Order) Outcome {
	return r.Outcome
}

// ApplyOutcome invokes the aggregate operation matching outcome.
func ApplyOutcome(o *order.Order, outcome Outcome) error {
	switch oc := outcome.(type) {
	case ReadyOutcome:
		return o.Complete()
	case CancelledOutcome:
		return o.Cancel()
	case FailedOutcome:
		return o.MarkFailed(oc.Reason)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownOutcome, outcome)
	}
}
