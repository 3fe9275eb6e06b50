package gormrepo

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "user-crud-service/internal/domain/user"
)

// UserRepo implements the user Repository on top of GORM.
// Storage errors are returned as-is so their message reaches the client unchanged.
type UserRepo struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	FirstName  string `gorm:"not null"`
	LastName   string `gorm:"not null"`
	Email      string `gorm:"not null;uniqueIndex"`
	Occupation string
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toDomain(m UserSchema) domain.User {
	return domain.User{
		ID:         m.ID,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      m.Email,
		Occupation: m.Occupation,
	}
}

// List returns every stored user ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, err
	}

	users := make([]domain.User, len(models))
	for i, model := range models {
		users[i] = toDomain(model)
	}
	return users, nil
}

// GetByID retrieves a user by id. It returns nil without error when no row matches.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found in db", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, err
	}

	u := toDomain(model)
	return &u, nil
}

// GetByEmail retrieves a user by email. It returns nil without error when no row matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, err
	}

	u := toDomain(model)
	return &u, nil
}

// Create inserts u and returns the stored record with its generated id.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := UserSchema{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Occupation: u.Occupation,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, err
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	created := toDomain(model)
	return &created, nil
}

// Update writes only the fields present in p and returns the record as stored afterwards.
// It returns nil without error when the row no longer exists.
func (r *UserRepo) Update(ctx context.Context, id int64, p domain.Patch) (*domain.User, error) {
	if fields := patchColumns(p); len(fields) > 0 {
		err := r.db.WithContext(ctx).
			Model(&UserSchema{}).
			Where("id = ?", id).
			Updates(fields).Error
		if err != nil {
			r.log.Error("failed to update user in db", zap.Error(err), zap.Int64("id", id))
			return nil, err
		}
		r.log.Info("user updated in db", zap.Int64("id", id), zap.Int("fields", len(fields)))
	}

	return r.GetByID(ctx, id)
}

// Delete removes the user with the given id.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&UserSchema{}, id).Error; err != nil {
		r.log.Error("failed to delete user in db", zap.Error(err), zap.Int64("id", id))
		return err
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// patchColumns maps the set fields of p to column names.
func patchColumns(p domain.Patch) map[string]interface{} {
	fields := make(map[string]interface{}, 4)
	if p.FirstName != nil {
		fields["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		fields["last_name"] = *p.LastName
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.Occupation != nil {
		fields["occupation"] = *p.Occupation
	}
	return fields
}
