package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/apetrov/linechat/internal/common/clock"
	"github.com/apetrov/linechat/internal/message/domain"
)

// MemoryRepository keeps the message log in a mutex-guarded slice.
// Results are sorted by timestamp, ties kept in insertion order.
type MemoryRepository struct {
	mu       sync.Mutex
	messages []domain.Message
	clock    clock.Clock
}

func NewMemoryRepository(clk clock.Clock) *MemoryRepository {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &MemoryRepository{clock: clk}
}

func (r *MemoryRepository) Save(_ context.Context, msg domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.SentAt = r.clock.Now()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *MemoryRepository) Offline(_ context.Context, login string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Message
	for _, msg := range r.messages {
		if msg.Recipient == login && !msg.Delivered {
			out = append(out, msg)
		}
	}
	sortBySentAt(out)
	return out, nil
}

func (r *MemoryRepository) MarkDelivered(_ context.Context, login string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.markDeliveredLocked(login)
	return nil
}

func (r *MemoryRepository) FlushOffline(_ context.Context, login string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Message
	for _, msg := range r.messages {
		if msg.Recipient == login && !msg.Delivered {
			out = append(out, msg)
		}
	}
	r.markDeliveredLocked(login)
	sortBySentAt(out)
	return out, nil
}

func (r *MemoryRepository) History(_ context.Context, userA, userB string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Message
	for _, msg := range r.messages {
		if (msg.Sender == userA && msg.Recipient == userB) ||
			(msg.Sender == userB && msg.Recipient == userA) {
			out = append(out, msg)
		}
	}
	sortBySentAt(out)
	return out, nil
}

func sortBySentAt(messages []domain.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SentAt.Before(messages[j].SentAt)
	})
}

func (r *MemoryRepository) markDeliveredLocked(login string) {
	for i := range r.messages {
		if r.messages[i].Recipient == login && !r.messages[i].Delivered {
			r.messages[i].Delivered = true
		}
	}
}
