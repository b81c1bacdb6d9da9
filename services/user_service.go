package services

import (
	"context"
	"fmt"

	"nosql-repository-backend/models"
	"nosql-repository-backend/repository"
	"nosql-repository-backend/utils/logger"
)

type UserService struct {
	repo   repository.UserRepositoryInterface
	logger logger.Logger
}

func NewUserService(repo repository.UserRepositoryInterface, logger logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserService) GetUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAllUsers(ctx)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return user, nil
}

// CreateUser saves the user keyed by email; saving an existing email replaces it
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	user := req.ToUser()
	if err := s.repo.SaveUser(ctx, user); err != nil {
		s.logger.Errorf("Failed to save user %s: %v", user.Email, err)
		return nil, err
	}
	s.logger.Infof("User %s saved", user.Email)
	return &user, nil
}
