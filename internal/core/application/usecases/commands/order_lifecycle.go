package commands

import (
	"context"
	"errors"
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/domain/services"
	"orders/internal/pkg/errs"
)

// ErrOrderMarkedFailed wraps the domain error of a lifecycle step that was
// turned into a FAILED order.
var ErrOrderMarkedFailed = errors.New("order marked as failed")

// lifecycleStep loads an order, applies one mutation and stores the result
// together with the raised events.
//
// When the mutation fails with a domain error while the order can still fail,
// the order is moved to FAILED with the error text as reason in the same
// transaction, so that observers receive an OrderProcessingFailed event.
// The returned error then wraps ErrOrderMarkedFailed and the original error.
type lifecycleStep struct {
	uowFactory OrderUoWFactory
}

func (s lifecycleStep) run(ctx context.Context, orderID kernel.UUID, mutate func(o *order.Order) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}

	stepErr := mutate(aggregate)
	if stepErr != nil {
		if !isDomainError(stepErr) || !aggregate.Status().CanFail() {
			return stepErr
		}
		if err = aggregate.MarkFailed(stepErr.Error()); err != nil {
			return errors.Join(stepErr, err)
		}
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.OutboxRepository().Add(ctx, aggregate.PullEvents()...); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if stepErr != nil {
		return fmt.Errorf("%w: %w", ErrOrderMarkedFailed, stepErr)
	}
	return nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		order.ErrInvalidStateTransition,
		order.ErrOrderHasNoItems,
		order.ErrOrderIsNotEditable,
		order.ErrCurrencyMismatch,
		order.ErrItemNotFound,
		services.ErrUnknownOutcome,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsRequired,
		errs.ErrValueIsOutOfRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
