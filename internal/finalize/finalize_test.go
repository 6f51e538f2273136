package finalize_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/finalize"
)

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) FindTransactionsByOffer(ctx context.Context, offerID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) CompleteTransaction(ctx context.Context, actingUserID, transactionID int32, target domain.TransactionStatus) (*domain.Transaction, error) {
	args := m.Called(ctx, actingUserID, transactionID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func newCoordinator(lookup *MockLookup, completer *MockCompleter) (*finalize.Coordinator, *[]time.Duration) {
	var slept []time.Duration
	c := finalize.NewCoordinator(lookup, completer, 0, 0)
	c.Sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestCoordinator_Finalize(t *testing.T) {
	ctx := context.Background()

	t.Run("Found on first attempt", func(t *testing.T) {
		lookup, completer := new(MockLookup), new(MockCompleter)
		c, slept := newCoordinator(lookup, completer)
		lookup.On("FindTransactionsByOffer", ctx, int32(7)).Return([]domain.Transaction{{ID: 11}}, nil).Once()
		completer.On("CompleteTransaction", ctx, int32(2), int32(11), domain.TransactionStatusCompleted).
			Return(&domain.Transaction{ID: 11, Status: domain.TransactionStatusCompleted}, nil).Once()

		tx, err := c.Finalize(ctx, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)
		assert.Empty(t, *slept)
		completer.AssertNumberOfCalls(t, "CompleteTransaction", 1)
	})

	t.Run("Found on third attempt", func(t *testing.T) {
		lookup, completer := new(MockLookup), new(MockCompleter)
		c, slept := newCoordinator(lookup, completer)
		lookup.On("FindTransactionsByOffer", ctx, int32(7)).Return([]domain.Transaction{}, nil).Twice()
		lookup.On("FindTransactionsByOffer", ctx, int32(7)).Return([]domain.Transaction{{ID: 11}}, nil).Once()
		completer.On("CompleteTransaction", ctx, int32(2), int32(11), domain.TransactionStatusCompleted).
			Return(&domain.Transaction{ID: 11, Status: domain.TransactionStatusCompleted}, nil).Once()

		_, err := c.Finalize(ctx, 2, 7)
		require.NoError(t, err)
		assert.Len(t, *slept, 2)
		lookup.AssertNumberOfCalls(t, "FindTransactionsByOffer", 3)
	})

	t.Run("Exhausted without trailing wait", func(t *testing.T) {
		lookup, completer := new(MockLookup), new(MockCompleter)
		c, slept := newCoordinator(lookup, completer)
		lookup.On("FindTransactionsByOffer", ctx, int32(7)).Return([]domain.Transaction{}, nil)

		_, err := c.Finalize(ctx, 2, 7)
		assert.ErrorIs(t, err, finalize.ErrNotFinalized)
		lookup.AssertNumberOfCalls(t, "FindTransactionsByOffer", 5)
		assert.Equal(t, []time.Duration{
			300 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond,
		}, *slept)
		completer.AssertNotCalled(t, "CompleteTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Completion failure is not retried", func(t *testing.T) {
		lookup, completer := new(MockLookup), new(MockCompleter)
		c, _ := newCoordinator(lookup, completer)
		lookup.On("FindTransactionsByOffer", ctx, int32(7)).Return([]domain.Transaction{{ID: 11}}, nil)
		completer.On("CompleteTransaction", ctx, int32(2), int32(11), domain.TransactionStatusCompleted).
			Return(nil, domain.ErrInsufficientFunds)

		_, err := c.Finalize(ctx, 2, 7)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.NotErrorIs(t, err, finalize.ErrNotFinalized)
		completer.AssertNumberOfCalls(t, "CompleteTransaction", 1)
		lookup.AssertNumberOfCalls(t, "FindTransactionsByOffer", 1)
	})

	t.Run("Lookup failure aborts", func(t *testing.T) {
		lookup, completer := new(MockLookup), new(MockCompleter)
		c, slept := newCoordinator(lookup, completer)
		lookup.On("FindTransactionsByOffer", ctx, int32(7)).Return(nil, errors.New("connection refused"))

		_, err := c.Finalize(ctx, 2, 7)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, finalize.ErrNotFinalized)
		assert.Empty(t, *slept)
	})

	t.Run("Cancelled while waiting", func(t *testing.T) {
		lookup, completer := new(MockLookup), new(MockCompleter)
		c := finalize.NewCoordinator(lookup, completer, 5, time.Hour)
		lookup.On("FindTransactionsByOffer", mock.Anything, int32(7)).Return([]domain.Transaction{}, nil)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := c.Finalize(cctx, 2, 7)
		assert.ErrorIs(t, err, context.Canceled)
		lookup.AssertNumberOfCalls(t, "FindTransactionsByOffer", 1)
	})
}

func TestCoordinator_FinalizeKnown(t *testing.T) {
	ctx := context.Background()
	lookup, completer := new(MockLookup), new(MockCompleter)
	c, _ := newCoordinator(lookup, completer)
	completer.On("CompleteTransaction", ctx, int32(1), int32(11), domain.TransactionStatusCompleted).
		Return(&domain.Transaction{ID: 11, Status: domain.TransactionStatusCompleted}, nil)

	tx, err := c.FinalizeKnown(ctx, 1, 11)
	require.NoError(t, err)
	assert.Equal(t, int32(11), tx.ID)
	lookup.AssertNotCalled(t, "FindTransactionsByOffer", mock.Anything, mock.Anything)
}
