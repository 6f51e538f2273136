package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO reviews (transaction_id, reviewer_id, reviewed_id, rating, comment, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	rv.CreatedAt = time.Now()
	err := r.db.QueryRowContext(ctx, query, rv.TransactionID, rv.ReviewerID, rv.ReviewedID, rv.Rating, rv.Comment, rv.CreatedAt).Scan(&rv.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: transaction %d already reviewed by user %d", domain.ErrConflict, rv.TransactionID, rv.ReviewerID)
	}
	if err != nil {
		return storeFailure("create review", err)
	}
	return nil
}

func (r *reviewRepository) Exists(ctx context.Context, transactionID, reviewerID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE transaction_id = $1 AND reviewer_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, transactionID, reviewerID).Scan(&exists); err != nil {
		return false, storeFailure("check review", err)
	}
	return exists, nil
}

func (r *reviewRepository) ListByReviewed(ctx context.Context, userID int32) ([]domain.ReviewView, error) {
	query := `SELECT r.id, r.transaction_id, r.reviewer_id, r.reviewed_id, r.rating, r.comment, r.created_at,
	                 u.username, t.listing_id, l.title
	          FROM reviews r
	          JOIN users u ON r.reviewer_id = u.id
	          JOIN transactions t ON r.transaction_id = t.id
	          JOIN listings l ON t.listing_id = l.id
	          WHERE r.reviewed_id = $1
	          ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storeFailure("list reviews", err)
	}
	defer rows.Close()

	reviews := []domain.ReviewView{}
	for rows.Next() {
		var v domain.ReviewView
		if err := rows.Scan(&v.ID, &v.TransactionID, &v.ReviewerID, &v.ReviewedID, &v.Rating, &v.Comment, &v.CreatedAt,
			&v.ReviewerName, &v.ListingID, &v.ListingTitle); err != nil {
			return nil, storeFailure("list reviews", err)
		}
		reviews = append(reviews, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("list reviews", err)
	}
	return reviews, nil
}
