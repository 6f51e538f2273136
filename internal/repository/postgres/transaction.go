package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/repository"
)

const transactionColumns = `t.id, t.listing_id, t.seller_id, t.buyer_id, t.offer_id, t.amount, t.status, t.created_at`

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func scanTransaction(s rowScanner) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	var offerID sql.NullInt32
	if err := s.Scan(&t.ID, &t.ListingID, &t.SellerID, &t.BuyerID, &offerID, &t.Amount, &t.Status, &t.CreatedAt); err != nil {
		return nil, err
	}
	if offerID.Valid {
		id := offerID.Int32
		t.OfferID = &id
	}
	return t, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = $1`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "transaction", id)
	}
	return t, nil
}

func (r *transactionRepository) ListByOffer(ctx context.Context, offerID int32) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.offer_id = $1`
	return r.list(ctx, query, offerID)
}

func (r *transactionRepository) ListStalled(ctx context.Context, cutoff time.Time, limit int32) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
	          FROM transactions t JOIN offers o ON o.id = t.offer_id
	          WHERE t.status = $1 AND o.status = $2 AND t.created_at < $3
	          ORDER BY t.created_at
	          LIMIT $4`
	return r.list(ctx, query, domain.TransactionStatusPending, domain.OfferStatusAccepted, cutoff, limit)
}

func (r *transactionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeFailure("list transactions", err)
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, storeFailure("list transactions", err)
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("list transactions", err)
	}
	return txs, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.TransactionStatus) error {
	query := `UPDATE transactions SET status = $1 WHERE id = $2 AND status = $3`
	logger.DatabaseCall("transactions.updateStatus", query, "transactionID", id, "from", from, "to", to)
	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		logger.DatabaseResult("transactions.updateStatus", 0, err)
		return storeFailure("update transaction status", err)
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("transactions.updateStatus", n, err)
	if err != nil {
		return storeFailure("update transaction status", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: transaction %d is no longer %s", domain.ErrInvalidOperation, id, from)
	}
	return nil
}

func (r *transactionRepository) Settle(ctx context.Context, t *domain.Transaction) error {
	logger.EnterMethod("transactionRepository.Settle", "transactionID", t.ID, "amount", t.Amount.String())

	if t.OfferID == nil {
		err := fmt.Errorf("%w: transaction %d has no linked offer", domain.ErrInvalidOperation, t.ID)
		logger.ExitMethodWithError("transactionRepository.Settle", err)
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("transactionRepository.Settle", err, "transactionID", t.ID)
		return storeFailure("begin settlement", err)
	}
	defer rollback(tx, "transactionRepository.Settle")

	if err := r.settle(ctx, tx, t); err != nil {
		logger.ExitMethodWithError("transactionRepository.Settle", err, "transactionID", t.ID)
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("transactionRepository.Settle", err, "transactionID", t.ID)
		return storeFailure("commit settlement", err)
	}

	t.Status = domain.TransactionStatusCompleted
	logger.ExitMethod("transactionRepository.Settle", "transactionID", t.ID)
	return nil
}

func (r *transactionRepository) settle(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	// Both wallets are locked in id order so concurrent settlements between
	// the same two users cannot deadlock.
	rows, err := tx.QueryContext(ctx, `SELECT id, wallet_balance FROM users WHERE id = ANY($1) ORDER BY id FOR UPDATE`,
		pq.Array([]int64{int64(t.BuyerID), int64(t.SellerID)}))
	if err != nil {
		return storeFailure("lock wallets", err)
	}
	balances := make(map[int32]decimal.Decimal, 2)
	for rows.Next() {
		var id int32
		var balance decimal.Decimal
		if err := rows.Scan(&id, &balance); err != nil {
			rows.Close()
			return storeFailure("lock wallets", err)
		}
		balances[id] = balance
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return storeFailure("lock wallets", err)
	}

	buyerBalance, ok := balances[t.BuyerID]
	if !ok {
		return fmt.Errorf("%w: buyer %d", domain.ErrNotFound, t.BuyerID)
	}
	if _, ok := balances[t.SellerID]; !ok {
		return fmt.Errorf("%w: seller %d", domain.ErrNotFound, t.SellerID)
	}
	// The status guard runs before the funds check so that a completion
	// losing a race reports the transaction state, not the drained wallet.
	res, err := tx.ExecContext(ctx, `UPDATE transactions SET status = $1 WHERE id = $2 AND status = $3`,
		domain.TransactionStatusCompleted, t.ID, domain.TransactionStatusPending)
	if err != nil {
		return storeFailure("complete transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeFailure("complete transaction", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: transaction %d is no longer pending", domain.ErrInvalidOperation, t.ID)
	}

	if buyerBalance.LessThan(t.Amount) {
		return fmt.Errorf("%w: buyer %d has %s, needs %s", domain.ErrInsufficientFunds,
			t.BuyerID, domain.FormatAmount(buyerBalance), domain.FormatAmount(t.Amount))
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET wallet_balance = wallet_balance - $1 WHERE id = $2`, t.Amount, t.BuyerID); err != nil {
		return storeFailure("debit buyer", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET wallet_balance = wallet_balance + $1 WHERE id = $2`, t.Amount, t.SellerID); err != nil {
		return storeFailure("credit seller", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE offers SET status = $1 WHERE id = $2`, domain.OfferStatusCompleted, *t.OfferID); err != nil {
		return storeFailure("complete offer", err)
	}
	return nil
}
