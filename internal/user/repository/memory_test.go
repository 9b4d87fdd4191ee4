package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apetrov/linechat/internal/common/clock"
	"github.com/apetrov/linechat/internal/user/domain"
)

func TestMemoryRepositoryCreateAndFind(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	repo := NewMemoryRepository(clk)
	ctx := context.Background()

	if _, err := repo.FindByLogin(ctx, "alice"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("FindByLogin on empty repo = %v, want ErrUserNotFound", err)
	}

	user := domain.User{Login: "alice", Salt: "s1", PasswordHash: "h1"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := repo.FindByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByLogin returned error: %v", err)
	}
	if got.Salt != "s1" || got.PasswordHash != "h1" {
		t.Fatalf("stored user = %+v", got)
	}
	if !got.CreatedAt.Equal(clk.Now()) {
		t.Fatalf("CreatedAt = %v, want clock time", got.CreatedAt)
	}
}

func TestMemoryRepositoryDuplicateCreate(t *testing.T) {
	repo := NewMemoryRepository(nil)
	ctx := context.Background()

	if err := repo.Create(ctx, domain.User{Login: "alice", PasswordHash: "h1"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	err := repo.Create(ctx, domain.User{Login: "alice", PasswordHash: "h2"})
	if !errors.Is(err, ErrLoginAlreadyExists) {
		t.Fatalf("duplicate Create = %v, want ErrLoginAlreadyExists", err)
	}

	got, err := repo.FindByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByLogin returned error: %v", err)
	}
	if got.PasswordHash != "h1" {
		t.Fatal("duplicate Create overwrote the stored user")
	}
}

func TestMemoryRepositoryExists(t *testing.T) {
	repo := NewMemoryRepository(nil)
	ctx := context.Background()

	ok, err := repo.Exists(ctx, "alice")
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}
	if ok {
		t.Fatal("Exists reported an unknown login")
	}

	if err := repo.Create(ctx, domain.User{Login: "alice"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	ok, err = repo.Exists(ctx, "alice")
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}
	if !ok {
		t.Fatal("Exists missed a stored login")
	}
}
