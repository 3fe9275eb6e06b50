package cached

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-crud-service/internal/adapter/cache"
	domain "user-crud-service/internal/domain/user"
	"user-crud-service/internal/usecase/user"
)

// UserRepository implements user.Repository with a cache-aside read path.
// Cache failures are logged and never reach the caller.
type UserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group

	// mu orders cache fills against evictions. gen counts writes so a fill
	// that read the database before a write does not store the old row.
	mu  sync.Mutex
	gen uint64
}

var _ user.Repository = (*UserRepository)(nil)

// NewUserRepository wraps dbRepo with the given cache.
func NewUserRepository(dbRepo user.Repository, c cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{
		dbRepo: dbRepo,
		cache:  c,
		log:    log,
	}
}

// List delegates to the DB repository.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.List(ctx)
}

// GetByID reads through the cache. Concurrent misses for one id share a single DB query.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u := r.fromCache(ctx, id); u != nil {
		return u, nil
	}

	// The shared read outlives any single caller's cancellation
	shared := context.WithoutCancel(ctx)

	result, err, _ := r.group.Do(cache.Key(id), func() (any, error) {
		// Another caller may have filled the cache while this one waited
		if u := r.fromCache(shared, id); u != nil {
			return u, nil
		}

		gen := r.generation()
		u, err := r.dbRepo.GetByID(shared, id)
		if err != nil || u == nil {
			return u, err
		}

		r.fill(shared, gen, u)
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u, _ := result.(*domain.User)
	return u, nil
}

func (r *UserRepository) generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// fill caches u unless a write happened since gen was taken.
func (r *UserRepository) fill(ctx context.Context, gen uint64, u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gen != gen {
		r.log.Debug("skipping cache fill after concurrent write", zap.Int64("id", u.ID))
		return
	}
	if err := r.cache.Set(ctx, u); err != nil {
		r.log.Warn("failed to cache user", zap.Int64("id", u.ID), zap.Error(err))
	}
}

func (r *UserRepository) fromCache(ctx context.Context, id int64) *domain.User {
	u, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		return nil
	}
	return u
}

// GetByEmail delegates to the DB repository.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.GetByEmail(ctx, email)
}

// Create delegates to the DB repository.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.dbRepo.Create(ctx, u)
}

// Update updates the user in DB and evicts the cached copy.
func (r *UserRepository) Update(ctx context.Context, id int64, p domain.Patch) (*domain.User, error) {
	updated, err := r.dbRepo.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}

	r.evict(ctx, id)
	return updated, nil
}

// Delete deletes the user from DB and evicts the cached copy.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}

	r.evict(ctx, id)
	return nil
}

func (r *UserRepository) evict(ctx context.Context, id int64) {
	r.group.Forget(cache.Key(id))

	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache", zap.Int64("id", id), zap.Error(err))
	}
}
