package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"crmhub/internal/models"
)

// OutboxRepository holds messages that would have been delivered by a real
// email/SMS provider. Injected wherever a mock sender is configured, so each
// process (and each test) gets its own isolated store.
type OutboxRepository interface {
	Append(kind models.OutboxKind, to, subject, body string) models.OutboxMessage
	List() []models.OutboxMessage
	Clear()
}

type outboxRepository struct {
	mu       sync.Mutex
	messages []models.OutboxMessage
}

func NewOutboxRepository() OutboxRepository {
	return &outboxRepository{}
}

func (r *outboxRepository) Append(kind models.OutboxKind, to, subject, body string) models.OutboxMessage {
	msg := models.OutboxMessage{
		ID:        uuid.NewString(),
		Kind:      kind,
		To:        to,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now(),
	}
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
	return msg
}

func (r *outboxRepository) List() []models.OutboxMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.OutboxMessage, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *outboxRepository) Clear() {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
}
