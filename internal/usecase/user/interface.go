package user

import (
	"context"

	domain "user-crud-service/internal/domain/user"
)

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, in GetUserRequest) (*domain.User, error)
	CreateUser(ctx context.Context, in CreateUserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*domain.User, error)
}

// Repository defines the interface for user data access operations.
// Lookups return a nil user and a nil error when nothing matches.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Update(ctx context.Context, id int64, p domain.Patch) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
