package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/repository"
)

type offerRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) repository.OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, o *domain.Offer) error {
	query := `INSERT INTO offers (listing_id, buyer_id, offer_amount, status, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	o.Status = domain.OfferStatusPending
	o.CreatedAt = time.Now()
	if err := r.db.QueryRowContext(ctx, query, o.ListingID, o.BuyerID, o.OfferAmount, o.Status, o.CreatedAt).Scan(&o.ID); err != nil {
		return storeFailure("create offer", err)
	}
	return nil
}

func (r *offerRepository) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	o := &domain.Offer{}
	query := `SELECT o.id, o.listing_id, o.buyer_id, o.offer_amount, o.status, o.created_at, l.seller_id
	          FROM offers o JOIN listings l ON l.id = o.listing_id
	          WHERE o.id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.ListingID, &o.BuyerID, &o.OfferAmount, &o.Status, &o.CreatedAt, &o.SellerID)
	if err != nil {
		return nil, notFound(err, "offer", id)
	}
	return o, nil
}

func (r *offerRepository) HasPending(ctx context.Context, listingID, buyerID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM offers WHERE listing_id = $1 AND buyer_id = $2 AND status = $3)`
	if err := r.db.QueryRowContext(ctx, query, listingID, buyerID, domain.OfferStatusPending).Scan(&exists); err != nil {
		return false, storeFailure("check pending offer", err)
	}
	return exists, nil
}

func (r *offerRepository) ListReceived(ctx context.Context, sellerID int32) ([]domain.OfferView, error) {
	query := `SELECT o.id, o.listing_id, o.buyer_id, o.offer_amount, o.status, o.created_at, l.seller_id, l.title, u.username
	          FROM offers o
	          JOIN listings l ON o.listing_id = l.id
	          JOIN users u ON o.buyer_id = u.id
	          WHERE l.seller_id = $1
	          ORDER BY o.created_at DESC`
	return r.listViews(ctx, query, sellerID)
}

func (r *offerRepository) ListSent(ctx context.Context, buyerID int32) ([]domain.OfferView, error) {
	query := `SELECT o.id, o.listing_id, o.buyer_id, o.offer_amount, o.status, o.created_at, l.seller_id, l.title, u.username
	          FROM offers o
	          JOIN listings l ON o.listing_id = l.id
	          JOIN users u ON l.seller_id = u.id
	          WHERE o.buyer_id = $1
	          ORDER BY o.created_at DESC`
	return r.listViews(ctx, query, buyerID)
}

func (r *offerRepository) listViews(ctx context.Context, query string, userID int32) ([]domain.OfferView, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storeFailure("list offers", err)
	}
	defer rows.Close()

	views := []domain.OfferView{}
	for rows.Next() {
		var v domain.OfferView
		if err := rows.Scan(&v.ID, &v.ListingID, &v.BuyerID, &v.OfferAmount, &v.Status, &v.CreatedAt, &v.SellerID, &v.ListingTitle, &v.CounterpartyName); err != nil {
			return nil, storeFailure("list offers", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("list offers", err)
	}
	return views, nil
}

func (r *offerRepository) Reject(ctx context.Context, offerID int32) error {
	query := `UPDATE offers SET status = $1 WHERE id = $2 AND status = $3`
	logger.DatabaseCall("offers.reject", query, "offerID", offerID)
	result, err := r.db.ExecContext(ctx, query, domain.OfferStatusRejected, offerID, domain.OfferStatusPending)
	if err != nil {
		logger.DatabaseResult("offers.reject", 0, err)
		return storeFailure("reject offer", err)
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("offers.reject", n, err)
	if err != nil {
		return storeFailure("reject offer", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: offer %d is not pending", domain.ErrInvalidOperation, offerID)
	}
	return nil
}

func (r *offerRepository) Accept(ctx context.Context, offer *domain.Offer) (*domain.AcceptResult, error) {
	logger.EnterMethod("offerRepository.Accept", "offerID", offer.ID, "listingID", offer.ListingID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("offerRepository.Accept", err, "offerID", offer.ID)
		return nil, storeFailure("begin accept", err)
	}
	defer rollback(tx, "offerRepository.Accept")

	result, err := r.accept(ctx, tx, offer)
	if err != nil {
		logger.ExitMethodWithError("offerRepository.Accept", err, "offerID", offer.ID)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("offerRepository.Accept", err, "offerID", offer.ID)
		return nil, storeFailure("commit accept", err)
	}

	offer.Status = domain.OfferStatusAccepted
	result.Offer = offer
	logger.ExitMethod("offerRepository.Accept", "offerID", offer.ID, "transactionID", result.TransactionID, "rejected", len(result.RejectedOfferIDs))
	return result, nil
}

// accept runs the writes of Accept inside tx. The listing row is locked
// first so two acceptances on the same listing serialise on it.
func (r *offerRepository) accept(ctx context.Context, tx *sql.Tx, offer *domain.Offer) (*domain.AcceptResult, error) {
	var sellerID int32
	var available bool
	err := tx.QueryRowContext(ctx, `SELECT seller_id, is_available FROM listings WHERE id = $1 FOR UPDATE`, offer.ListingID).Scan(&sellerID, &available)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(err, "listing", offer.ListingID)
	}
	if err != nil {
		return nil, storeFailure("lock listing", err)
	}
	if !available {
		return nil, fmt.Errorf("%w: listing %d already has an accepted offer", domain.ErrConflict, offer.ListingID)
	}

	res, err := tx.ExecContext(ctx, `UPDATE offers SET status = $1 WHERE id = $2 AND status = $3`,
		domain.OfferStatusAccepted, offer.ID, domain.OfferStatusPending)
	if err != nil {
		return nil, storeFailure("accept offer", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, storeFailure("accept offer", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: offer %d is not pending", domain.ErrInvalidOperation, offer.ID)
	}

	result := &domain.AcceptResult{RejectedOfferIDs: []int32{}}
	err = tx.QueryRowContext(ctx, `INSERT INTO transactions (listing_id, seller_id, buyer_id, offer_id, amount, status, created_at)
	                               VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		offer.ListingID, sellerID, offer.BuyerID, offer.ID, offer.OfferAmount, domain.TransactionStatusPending, time.Now(),
	).Scan(&result.TransactionID)
	if err != nil {
		return nil, storeFailure("insert transaction", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE listings SET is_available = false WHERE id = $1`, offer.ListingID); err != nil {
		return nil, storeFailure("close listing", err)
	}

	rows, err := tx.QueryContext(ctx, `UPDATE offers SET status = $1 WHERE listing_id = $2 AND id <> $3 AND status = $4 RETURNING id`,
		domain.OfferStatusRejected, offer.ListingID, offer.ID, domain.OfferStatusPending)
	if err != nil {
		return nil, storeFailure("reject sibling offers", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, storeFailure("reject sibling offers", err)
		}
		result.RejectedOfferIDs = append(result.RejectedOfferIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("reject sibling offers", err)
	}
	return result, nil
}
