package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/apetrov/linechat/internal/common/db"
	"github.com/apetrov/linechat/internal/message/domain"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Save(ctx context.Context, msg domain.Message) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO messages (sender, recipient, body, delivered) VALUES ($1, $2, $3, $4)`,
		msg.Sender,
		msg.Recipient,
		msg.Body,
		msg.Delivered,
	)
	return db.HandleExecError(err, "save message", start)
}

func (r *PgRepository) Offline(ctx context.Context, login string) ([]domain.Message, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT sender, recipient, body, sent_at, delivered
		 FROM messages
		 WHERE recipient = $1 AND NOT delivered
		 ORDER BY sent_at, id`,
		login,
	)
	if err := db.HandleQueryError(err, nil, "select offline messages", start); err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *PgRepository) MarkDelivered(ctx context.Context, login string) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`UPDATE messages SET delivered = TRUE WHERE recipient = $1 AND NOT delivered`,
		login,
	)
	return db.HandleExecError(err, "mark messages delivered", start)
}

// FlushOffline marks and returns the backlog in a single statement, so
// every message it marks delivered is in the returned set. A message
// queued concurrently is either part of this flush or stays undelivered
// for the next one.
func (r *PgRepository) FlushOffline(ctx context.Context, login string) ([]domain.Message, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`WITH flushed AS (
			UPDATE messages SET delivered = TRUE
			WHERE recipient = $1 AND NOT delivered
			RETURNING id, sender, recipient, body, sent_at, delivered
		 )
		 SELECT sender, recipient, body, sent_at, delivered
		 FROM flushed
		 ORDER BY sent_at, id`,
		login,
	)
	if err := db.HandleQueryError(err, nil, "flush offline messages", start); err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *PgRepository) History(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT sender, recipient, body, sent_at, delivered
		 FROM messages
		 WHERE (sender = $1 AND recipient = $2) OR (sender = $2 AND recipient = $1)
		 ORDER BY sent_at, id`,
		userA,
		userB,
	)
	if err := db.HandleQueryError(err, nil, "select message history", start); err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.Sender, &msg.Recipient, &msg.Body, &msg.SentAt, &msg.Delivered); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
