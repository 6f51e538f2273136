package postgres

import (
	"context"
	"fmt"

	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/seed"
)

// Seed inserts categories, users and listings in one transaction.
// Existing categories and users are reused by name.
func (s *Store) Seed(ctx context.Context, data *seed.Data) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeFailure("begin seed", err)
	}
	defer rollback(tx, "seed")

	categoryIDs := make(map[string]int32, len(data.Categories))
	for _, c := range data.Categories {
		var id int32
		err := tx.QueryRowContext(ctx, `INSERT INTO categories (name, description) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
			RETURNING id`, c.Name, c.Description).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create category %s: %w", c.Name, err)
		}
		categoryIDs[c.Name] = id
	}

	userIDs := make(map[string]int32, len(data.Users))
	for _, u := range data.Users {
		var id int32
		err := tx.QueryRowContext(ctx, `INSERT INTO users (username, email, wallet_balance) VALUES ($1, $2, $3)
			ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
			RETURNING id`, u.Username, u.Email, u.WalletBalance).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Username, err)
		}
		userIDs[u.Username] = id
		logger.Debug("Seeded user", "username", u.Username, "id", id)
	}

	for _, l := range data.Listings {
		_, err := tx.ExecContext(ctx, `INSERT INTO listings (title, description, price, seller_id, category_id, condition_type, location, is_available)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)`,
			l.Title, l.Description, l.Price, userIDs[l.Seller], categoryIDs[l.Category], l.Condition, l.Location)
		if err != nil {
			return fmt.Errorf("failed to create listing %q: %w", l.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeFailure("commit seed", err)
	}
	logger.Info("Seed data loaded", "categories", len(data.Categories), "users", len(data.Users), "listings", len(data.Listings))
	return nil
}
