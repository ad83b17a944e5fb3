package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmhub/internal/models"
)

func TestOutboxRepository(t *testing.T) {
	outbox := NewOutboxRepository()

	msg := outbox.Append(models.OutboxEmail, "a@example.com", "Welcome", "hello")
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.CreatedAt.IsZero())

	outbox.Append(models.OutboxSMS, "+15550100", "", "your code")

	msgs := outbox.List()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.OutboxEmail, msgs[0].Kind)
	assert.Equal(t, models.OutboxSMS, msgs[1].Kind)

	// List returns a copy
	msgs[0].To = "mutated"
	assert.Equal(t, "a@example.com", outbox.List()[0].To)

	outbox.Clear()
	assert.Empty(t, outbox.List())
}

func TestOutboxRepository_IsolatedPerInstance(t *testing.T) {
	a := NewOutboxRepository()
	b := NewOutboxRepository()

	a.Append(models.OutboxEmail, "a@example.com", "s", "b")
	assert.Empty(t, b.List())
}
