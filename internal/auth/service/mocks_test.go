package service

import (
	"context"

	"github.com/apetrov/linechat/internal/user/domain"
	userrepo "github.com/apetrov/linechat/internal/user/repository"
)

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user domain.User) error
	findByLoginFunc func(ctx context.Context, login string) (domain.User, error)
	existsFunc      func(ctx context.Context, login string) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByLogin(ctx context.Context, login string) (domain.User, error) {
	if m.findByLoginFunc != nil {
		return m.findByLoginFunc(ctx, login)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) Exists(ctx context.Context, login string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, login)
	}
	return false, nil
}

// mockHasher derives a transparent fake hash so tests stay fast and can
// assert on stored values.
type mockHasher struct {
	salt string
}

func (m *mockHasher) GenerateSalt() (string, error) {
	if m.salt != "" {
		return m.salt, nil
	}
	return "test-salt", nil
}

func (m *mockHasher) Hash(password, salt string) (string, error) {
	return salt + "|" + password, nil
}

func (m *mockHasher) Compare(hash, password, salt string) error {
	attempt, _ := m.Hash(password, salt)
	if hash != attempt {
		return ErrInvalidCredentials
	}
	return nil
}
