package service

import (
	"context"
	"fmt"

	"github.com/apetrov/linechat/internal/common/constants"
	"github.com/apetrov/linechat/internal/common/logger"
	"github.com/apetrov/linechat/internal/message/domain"
	msgrepo "github.com/apetrov/linechat/internal/message/repository"
	"github.com/apetrov/linechat/internal/observability/metrics"
)

// MessageService is the message store facade: it persists messages and
// renders the client-visible offline and history lines.
type MessageService struct {
	repo msgrepo.Repository
	log  *logger.Logger
}

func NewMessageService(repo msgrepo.Repository, log *logger.Logger) *MessageService {
	return &MessageService{
		repo: repo,
		log:  log,
	}
}

func (s *MessageService) Save(ctx context.Context, sender, recipient, body string, delivered bool) error {
	msg := domain.Message{
		Sender:    sender,
		Recipient: recipient,
		Body:      body,
		Delivered: delivered,
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"sender":    sender,
			"recipient": recipient,
			"action":    "message_save_failed",
		}).Errorf("failed to save message: %v", err)
		return err
	}

	mode := "offline"
	if delivered {
		mode = "live"
	}
	metrics.ChatMessagesTotal.WithLabelValues(mode).Inc()

	return nil
}

// OfflineMessages returns the undelivered backlog for login as formatted
// lines, oldest first. It does not touch the delivered flag.
func (s *MessageService) OfflineMessages(ctx context.Context, login string) ([]string, error) {
	messages, err := s.repo.Offline(ctx, login)
	if err != nil {
		return nil, err
	}
	return formatOffline(messages), nil
}

func (s *MessageService) MarkDelivered(ctx context.Context, login string) error {
	return s.repo.MarkDelivered(ctx, login)
}

// FlushOffline atomically fetches and marks the backlog delivered.
func (s *MessageService) FlushOffline(ctx context.Context, login string) ([]string, error) {
	messages, err := s.repo.FlushOffline(ctx, login)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"login":  login,
			"action": "offline_flush_failed",
		}).Errorf("failed to flush offline messages: %v", err)
		return nil, err
	}

	metrics.ChatOfflineFlushedTotal.Add(float64(len(messages)))
	return formatOffline(messages), nil
}

func (s *MessageService) History(ctx context.Context, userA, userB string) ([]string, error) {
	messages, err := s.repo.History(ctx, userA, userB)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_a": userA,
			"user_b": userB,
			"action": "history_failed",
		}).Errorf("failed to load message history: %v", err)
		return nil, err
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("[%s] from %s to %s: %s",
			msg.SentAt.UTC().Format(constants.TimestampLayout), msg.Sender, msg.Recipient, msg.Body))
	}
	return lines, nil
}

func formatOffline(messages []domain.Message) []string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s",
			msg.SentAt.UTC().Format(constants.TimestampLayout), msg.Sender, msg.Body))
	}
	return lines
}
