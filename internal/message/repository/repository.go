package repository

import (
	"context"

	"github.com/apetrov/linechat/internal/message/domain"
)

type Repository interface {
	// Save appends one record; the timestamp is assigned by the store.
	Save(ctx context.Context, msg domain.Message) error
	// Offline returns undelivered messages addressed to login, oldest first.
	Offline(ctx context.Context, login string) ([]domain.Message, error)
	// MarkDelivered flips the delivered flag on every undelivered message
	// addressed to login.
	MarkDelivered(ctx context.Context, login string) error
	// FlushOffline fetches and marks delivered in one atomic step.
	FlushOffline(ctx context.Context, login string) ([]domain.Message, error)
	// History returns every message exchanged between the two logins in
	// either direction, oldest first, regardless of delivery status.
	History(ctx context.Context, userA, userB string) ([]domain.Message, error)
}
