package repository

import (
	"context"

	commonerrors "github.com/apetrov/linechat/internal/common/errors"
	"github.com/apetrov/linechat/internal/user/domain"
)

var (
	ErrUserNotFound       = commonerrors.ErrUserNotFound
	ErrLoginAlreadyExists = commonerrors.ErrLoginAlreadyExists
)

type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByLogin(ctx context.Context, login string) (domain.User, error)
	Exists(ctx context.Context, login string) (bool, error)
}
