package user

import (
	"context"

	"go.uber.org/zap"

	domain "user-crud-service/internal/domain/user"
	apperrors "user-crud-service/pkg/errors"
	"user-crud-service/pkg/logger"
)

// Service implements the business rules for user management.
// Repository errors are passed through untouched.
type Service struct {
	repo Repository  // Repository for data access
	log  *zap.Logger // Logger for structured logging
}

var _ Usecase = (*Service)(nil)

// New creates a new instance of Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log}
}

// ListUsers returns every stored user.
func (uc *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	log := logger.WithContext(ctx, uc.log)

	users, err := uc.repo.List(ctx)
	if err != nil {
		log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	log.Debug("listed users", zap.Int("count", len(users)))
	return users, nil
}

// GetUser returns the user with the given id or ErrUserNotFound.
func (uc *Service) GetUser(ctx context.Context, in GetUserRequest) (*domain.User, error) {
	log := logger.WithContext(ctx, uc.log)

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	if u == nil {
		log.Warn("user not found", zap.Int64("id", in.ID))
		return nil, apperrors.ErrUserNotFound
	}

	return u, nil
}

// CreateUser stores a new user after checking that the email is not taken.
func (uc *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*domain.User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.String("email", in.Email))

	existingUser, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		log.Warn("email already exists", zap.String("email", in.Email), zap.Int64("existing_id", existingUser.ID))
		return nil, apperrors.ErrUserAlreadyExists
	}

	created, err := uc.repo.Create(ctx, &domain.User{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Occupation: in.Occupation,
	})
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	log.Info("user created", zap.Int64("id", created.ID))
	return created, nil
}

// UpdateUser applies a partial update to an existing user and returns the stored result.
func (uc *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*domain.User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating user", zap.Int64("id", in.ID))

	current, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		log.Error("failed to get user for update", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	if current == nil {
		log.Warn("update target not found", zap.Int64("id", in.ID))
		return nil, apperrors.ErrUserNotFound
	}

	patch := in.Patch()
	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := uc.repo.Update(ctx, in.ID, patch)
	if err != nil {
		log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	// Deleted between the lookup and the write
	if updated == nil {
		log.Warn("user vanished during update", zap.Int64("id", in.ID))
		return nil, apperrors.ErrUserNotFound
	}

	return updated, nil
}

// DeleteUser removes an existing user and returns the record as it was before removal.
func (uc *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) (*domain.User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Int64("id", in.ID))

	current, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		log.Error("failed to get user for delete", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	if current == nil {
		log.Warn("delete target not found", zap.Int64("id", in.ID))
		return nil, apperrors.ErrUserNotFound
	}

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		log.Error("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return current, nil
}
