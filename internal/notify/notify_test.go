package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEvent(t *testing.T) {
	a := NewEvent(TopupResolved, "42", map[string]any{"status": "approved"})
	b := NewEvent(TopupResolved, "42", nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "42", a.UserID)
	assert.Equal(t, TopupResolved, a.Type)
	assert.Equal(t, "approved", a.Payload["status"])
	assert.False(t, a.OccurredAt.IsZero())
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), SubscriptionStatus, Event{}))
}
