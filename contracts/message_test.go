package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type orderCreated struct {
	OrderID string
}

func TestMessage(t *testing.T) {
	t.Run("NewMessage carries content only", func(t *testing.T) {
		msg := NewMessage(orderCreated{OrderID: "1"})

		assert.Equal(t, "1", msg.Content.OrderID)
		assert.Empty(t, msg.ID)
		assert.Nil(t, msg.Headers)
	})

	t.Run("With helpers return copies", func(t *testing.T) {
		base := NewMessage(orderCreated{})
		msg := base.WithID("id").WithType("T").WithAppID("app").WithUserID("u").WithCid("c").WithTenant("acme")

		assert.Equal(t, "id", msg.ID)
		assert.Equal(t, "T", msg.Type)
		assert.Equal(t, "app", msg.AppID)
		assert.Equal(t, "u", msg.UserID)
		assert.Equal(t, "c", msg.Cid)
		assert.Equal(t, "acme", msg.Tenant)
		assert.Empty(t, base.ID)
	})

	t.Run("WithHeader does not touch the receiver's map", func(t *testing.T) {
		base := NewMessage(orderCreated{}).WithHeader("a", 1)
		derived := base.WithHeader("b", 2)

		assert.Equal(t, map[string]interface{}{"a": 1}, base.Headers)
		assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, derived.Headers)
	})

	t.Run("WithExpiry sets the expiry header", func(t *testing.T) {
		msg := NewMessage(orderCreated{}).WithExpiry(5)

		assert.Equal(t, 5.0, msg.Headers[HeaderExpiryKey])
	})
}

func TestEnvelopeHeader(t *testing.T) {
	env := &Envelope{Headers: map[string]interface{}{"s": "v", "n": 1}}

	assert.Equal(t, "v", env.HeaderString("s"))
	assert.Equal(t, "", env.HeaderString("n"))
	assert.Equal(t, "", env.HeaderString("missing"))

	var nilEnv *Envelope
	_, ok := nilEnv.Header("s")
	assert.False(t, ok)
}
