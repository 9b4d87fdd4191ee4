package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/apetrov/linechat/internal/common/db"
	"github.com/apetrov/linechat/internal/user/domain"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (login, salt, password_hash) VALUES ($1, $2, $3)`,
		user.Login,
		user.Salt,
		user.PasswordHash,
	)
	if db.IsUniqueViolation(err) {
		return ErrLoginAlreadyExists
	}
	return db.HandleExecError(err, "create user", start)
}

func (r *PgRepository) FindByLogin(ctx context.Context, login string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT login, salt, password_hash, created_at FROM users WHERE login = $1`,
		login,
	)

	var user domain.User
	err := row.Scan(&user.Login, &user.Salt, &user.PasswordHash, &user.CreatedAt)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by login", start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) Exists(ctx context.Context, login string) (bool, error) {
	start := time.Now()
	var exists bool
	err := r.pool.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE login = $1)`,
		login,
	).Scan(&exists)
	if err := db.HandleQueryError(err, ErrUserNotFound, "check user exists", start); err != nil {
		return false, err
	}
	return exists, nil
}
