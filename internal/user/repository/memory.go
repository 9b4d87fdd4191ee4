package repository

import (
	"context"
	"sync"

	"github.com/apetrov/linechat/internal/common/clock"
	"github.com/apetrov/linechat/internal/user/domain"
)

// MemoryRepository keeps users in a mutex-guarded map. Used by the test
// suite and ephemeral deployments.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
	clock clock.Clock
}

func NewMemoryRepository(clk clock.Clock) *MemoryRepository {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &MemoryRepository{
		users: make(map[string]domain.User),
		clock: clk,
	}
}

func (r *MemoryRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Login]; ok {
		return ErrLoginAlreadyExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.clock.Now()
	}
	r.users[user.Login] = user
	return nil
}

func (r *MemoryRepository) FindByLogin(_ context.Context, login string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[login]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryRepository) Exists(_ context.Context, login string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[login]
	return ok, nil
}
