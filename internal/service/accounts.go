package service

import (
	"context"

	"auth_portal/internal/models"
	"auth_portal/internal/repository"
)

type AccountService struct {
	users repository.Authorization
}

func NewAccountService(users repository.Authorization) *AccountService {
	return &AccountService{users: users}
}

// Profile returns the user or ErrUserNotFound.
func (s *AccountService) Profile(ctx context.Context, userID int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
