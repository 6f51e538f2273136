// Package finalize drives a just-accepted offer through to a completed,
// settled transaction. When the caller already knows the transaction id it
// completes it directly; otherwise it polls for the transaction the
// acceptance created, a bounded number of times.
package finalize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
)

const (
	DefaultAttempts = 5
	DefaultInterval = 300 * time.Millisecond
)

// ErrNotFinalized is returned when no transaction appeared for the offer
// within the allowed attempts. Nothing was completed in that case.
var ErrNotFinalized = errors.New("could not complete transaction")

// Lookup finds the transactions created for an offer.
type Lookup interface {
	FindTransactionsByOffer(ctx context.Context, offerID int32) ([]domain.Transaction, error)
}

// Completer requests a status change on a transaction.
type Completer interface {
	CompleteTransaction(ctx context.Context, actingUserID, transactionID int32, target domain.TransactionStatus) (*domain.Transaction, error)
}

type Coordinator struct {
	Lookup    Lookup
	Completer Completer
	Attempts  int
	Interval  time.Duration
	// Sleep waits between attempts. Tests replace it to avoid real delays.
	Sleep func(context.Context, time.Duration) error
}

func NewCoordinator(lookup Lookup, completer Completer, attempts int, interval time.Duration) *Coordinator {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Coordinator{
		Lookup:    lookup,
		Completer: completer,
		Attempts:  attempts,
		Interval:  interval,
		Sleep:     sleep,
	}
}

// Finalize polls for the transaction created by accepting offerID and
// completes it. The interval is waited only between attempts, so N attempts
// sleep N-1 times and ErrNotFinalized is returned right after the last empty
// lookup with no trailing wait. A lookup or completion error ends the run
// immediately.
func (c *Coordinator) Finalize(ctx context.Context, actingUserID, offerID int32) (*domain.Transaction, error) {
	logger.EnterMethod("Coordinator.Finalize", "userID", actingUserID, "offerID", offerID, "attempts", c.Attempts)

	for attempt := 1; attempt <= c.Attempts; attempt++ {
		if attempt > 1 {
			if err := c.Sleep(ctx, c.Interval); err != nil {
				logger.ExitMethodWithError("Coordinator.Finalize", err, "offerID", offerID, "attempt", attempt)
				return nil, err
			}
		}

		txs, err := c.Lookup.FindTransactionsByOffer(ctx, offerID)
		if err != nil {
			err = fmt.Errorf("look up transaction for offer %d: %w", offerID, err)
			logger.ExitMethodWithError("Coordinator.Finalize", err, "attempt", attempt)
			return nil, err
		}
		if len(txs) == 0 {
			logger.Debug("Transaction not visible yet", "offerID", offerID, "attempt", attempt)
			continue
		}

		tx, err := c.FinalizeKnown(ctx, actingUserID, txs[0].ID)
		if err != nil {
			logger.ExitMethodWithError("Coordinator.Finalize", err, "offerID", offerID, "attempt", attempt)
			return nil, err
		}
		logger.ExitMethod("Coordinator.Finalize", "offerID", offerID, "transactionID", tx.ID, "attempt", attempt)
		return tx, nil
	}

	err := fmt.Errorf("%w: no transaction for offer %d after %d attempts", ErrNotFinalized, offerID, c.Attempts)
	logger.ExitMethodWithError("Coordinator.Finalize", err)
	return nil, err
}

// FinalizeKnown completes a transaction whose id is already known.
func (c *Coordinator) FinalizeKnown(ctx context.Context, actingUserID, transactionID int32) (*domain.Transaction, error) {
	return c.Completer.CompleteTransaction(ctx, actingUserID, transactionID, domain.TransactionStatusCompleted)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
