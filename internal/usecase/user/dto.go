package user

import domain "user-crud-service/internal/domain/user"

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	FirstName  string
	LastName   string
	Email      string
	Occupation string
}

// UpdateUserRequest represents a partial update. Nil fields keep their stored value.
type UpdateUserRequest struct {
	ID         int64
	FirstName  *string
	LastName   *string
	Email      *string
	Occupation *string
}

// Patch returns the domain patch carried by the request.
func (r UpdateUserRequest) Patch() domain.Patch {
	return domain.Patch{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Occupation: r.Occupation,
	}
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}
