package postgres

import (
	"context"
	"database/sql"
	"time"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/repository"
)

const listingColumns = `id, title, description, price, seller_id, category_id, condition_type, location, is_available, created_at`

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	l := &domain.Listing{}
	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.Price, &l.SellerID, &l.CategoryID,
		&l.Condition, &l.Location, &l.IsAvailable, &l.CreatedAt,
	)
	return l, err
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO listings (title, description, price, seller_id, category_id, condition_type, location, is_available, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	l.IsAvailable = true
	l.CreatedAt = time.Now()
	logger.DatabaseCall("listings.create", query, "sellerID", l.SellerID, "categoryID", l.CategoryID)
	err := r.db.QueryRowContext(ctx, query,
		l.Title, l.Description, l.Price, l.SellerID, l.CategoryID, l.Condition, l.Location, l.IsAvailable, l.CreatedAt,
	).Scan(&l.ID)
	logger.DatabaseResult("listings.create", 1, err)
	if err != nil {
		return storeFailure("create listing", err)
	}
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	l, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "listing", id)
	}
	return l, nil
}

func (r *listingRepository) List(ctx context.Context, limit int32) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
	          WHERE is_available = true
	          ORDER BY created_at DESC, id DESC
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, storeFailure("list listings", err)
	}
	defer rows.Close()

	listings := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, storeFailure("list listings", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("list listings", err)
	}
	return listings, nil
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	c := &domain.Category{}
	query := `SELECT id, name, COALESCE(description, '') FROM categories WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		return nil, notFound(err, "category", id)
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, COALESCE(description, '') FROM categories ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeFailure("list categories", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, storeFailure("list categories", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("list categories", err)
	}
	return categories, nil
}
