package service

import (
	"context"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetWallet returns the public profile and current balance of a user.
func (s *userService) GetWallet(ctx context.Context, userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
