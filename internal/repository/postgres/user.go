package postgres

import (
	"context"
	"database/sql"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, username, email, wallet_balance, created_at FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &u.WalletBalance, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}
