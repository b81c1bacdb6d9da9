package repository

import (
	"context"

	"nosql-repository-backend/entity"
	"nosql-repository-backend/models"
	"nosql-repository-backend/utils/logger"
)

type UserRepository struct {
	main   NoSQLRepository[entity.MainTableEntity]
	logger logger.Logger
}

// NewUserRepository creates a new user repository over the main table
func NewUserRepository(main NoSQLRepository[entity.MainTableEntity], log logger.Logger) *UserRepository {
	return &UserRepository{
		main:   main,
		logger: log,
	}
}

func (r *UserRepository) FindAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.main.FindAllByPK(ctx, models.StringKey(entity.UserPartition))
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.ToUser())
	}
	return users, nil
}

// FindUserByEmail returns nil when no user has the email
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := r.main.FindByPrimaryKeys(ctx, models.StringKey(entity.UserPartition), models.StringKey(email))
	if err != nil || row == nil {
		return nil, err
	}
	user := row.ToUser()
	return &user, nil
}

func (r *UserRepository) SaveUser(ctx context.Context, user models.User) error {
	if err := r.main.Save(ctx, entity.NewUserEntity(user)); err != nil {
		return err
	}
	r.logger.Infof("User saved successfully: %s", user.Email)
	return nil
}
