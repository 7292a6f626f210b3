package messaging

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/relaypulse/relaypulse-go/contracts"
	"github.com/relaypulse/relaypulse-go/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type OrderCreated struct {
	OrderID string `json:"orderId"`
}

type Wrapper[T any] struct {
	Inner T `json:"inner"`
}

var (
	testTime = time.Date(2024, 3, 5, 14, 30, 15, 123456700, time.UTC)
	testID   = uuid.MustParse("6f1c1f0e-8a3b-4c55-9d9e-2a1b3c4d5e6f")
)

type fixedIDs struct {
	ids []uuid.UUID
	n   int
}

func (f *fixedIDs) New() uuid.UUID {
	id := f.ids[f.n%len(f.ids)]
	f.n++
	return id
}

func fixedClock() Clock {
	return ClockFunc(func() time.Time { return testTime })
}

func newTestBuilder(s settings.PublishSettings) *EnvelopeBuilder {
	return NewEnvelopeBuilder(s, WithClock(fixedClock()))
}

func TestBuild(t *testing.T) {
	t.Run("fixed fields", func(t *testing.T) {
		env := Build(newTestBuilder(settings.PublishSettings{}), testID, contracts.NewMessage(OrderCreated{}))

		assert.Equal(t, "utf-8", env.ContentEncoding)
		assert.Equal(t, "application/json", env.ContentType)
		assert.Equal(t, testID.String(), env.MessageID)
		assert.Empty(t, env.CorrelationID)
		assert.Empty(t, env.UserID)
		assert.Empty(t, env.AppID)
		assert.Empty(t, env.Expiration)
	})

	t.Run("app id from message wins over settings", func(t *testing.T) {
		b := newTestBuilder(settings.PublishSettings{AppID: "settings-app"})

		env := Build(b, testID, contracts.NewMessage(OrderCreated{}).WithAppID("msg-app"))

		assert.Equal(t, "msg-app", env.AppID)
		assert.Equal(t, "msg-app", env.Headers[contracts.HeaderAppID])
	})

	t.Run("app id falls back to settings under configured header", func(t *testing.T) {
		b := newTestBuilder(settings.PublishSettings{AppID: "billing", AppIDHeaderName: "x-app"})

		env := Build(b, testID, contracts.NewMessage(OrderCreated{}))

		assert.Equal(t, "billing", env.AppID)
		assert.Equal(t, "billing", env.Headers["x-app"])
		assert.NotContains(t, env.Headers, contracts.HeaderAppID)
	})

	t.Run("no app id leaves header unset", func(t *testing.T) {
		env := Build(newTestBuilder(settings.PublishSettings{}), testID, contracts.NewMessage(OrderCreated{}))

		assert.NotContains(t, env.Headers, contracts.HeaderAppID)
	})

	t.Run("tenant is header only", func(t *testing.T) {
		b := newTestBuilder(settings.PublishSettings{DefaultTenant: "default-tenant"})

		env := Build(b, testID, contracts.NewMessage(OrderCreated{}))
		assert.Equal(t, "default-tenant", env.Headers[contracts.HeaderTenant])

		env = Build(b, testID, contracts.NewMessage(OrderCreated{}).WithTenant("acme"))
		assert.Equal(t, "acme", env.Headers[contracts.HeaderTenant])
	})

	t.Run("tenant under configured header name", func(t *testing.T) {
		b := newTestBuilder(settings.PublishSettings{TenantHeaderName: "x-tenant"})

		env := Build(b, testID, contracts.NewMessage(OrderCreated{}).WithTenant("acme"))

		assert.Equal(t, "acme", env.Headers["x-tenant"])
		assert.NotContains(t, env.Headers, contracts.HeaderTenant)
	})

	t.Run("type defaults to fully qualified payload name", func(t *testing.T) {
		env := Build(newTestBuilder(settings.PublishSettings{}), testID, contracts.NewMessage(OrderCreated{}))

		assert.Equal(t, "github.com/relaypulse/relaypulse-go/messaging.OrderCreated", env.Type)
		assert.Equal(t, "OrderCreated", env.Headers[contracts.HeaderMsgType])
	})

	t.Run("type falls back to short name for predeclared payloads", func(t *testing.T) {
		env := Build(newTestBuilder(settings.PublishSettings{}), testID, contracts.NewMessage("hello"))

		assert.Equal(t, "string", env.Type)
	})

	t.Run("explicit type wins for type and header", func(t *testing.T) {
		b := newTestBuilder(settings.PublishSettings{TypePrefix: "acme.", MessageTypeValueConverter: "snake_case"})

		env := Build(b, testID, contracts.NewMessage(OrderCreated{}).WithType("OrderPlaced"))

		assert.Equal(t, "OrderPlaced", env.Type)
		assert.Equal(t, "acme.OrderPlaced", env.Headers[contracts.HeaderMsgType])
	})

	t.Run("snake case naming convention", func(t *testing.T) {
		b := newTestBuilder(settings.PublishSettings{TypePrefix: "acme.", MessageTypeValueConverter: contracts.MessageTypeConverterSnakeCase})

		env := Build(b, testID, contracts.NewMessage(OrderCreated{}))

		assert.Equal(t, "acme.order_created", env.Headers[contracts.HeaderMsgType])
	})

	t.Run("generic payload named without type arguments", func(t *testing.T) {
		b := newTestBuilder(settings.PublishSettings{MessageTypeValueConverter: contracts.MessageTypeConverterSnakeCase})

		env := Build(b, testID, contracts.NewMessage(Wrapper[OrderCreated]{}))

		assert.Equal(t, "github.com/relaypulse/relaypulse-go/messaging.Wrapper", env.Type)
		assert.Equal(t, "wrapper", env.Headers[contracts.HeaderMsgType])
	})

	t.Run("naming convention is case insensitive", func(t *testing.T) {
		b := newTestBuilder(settings.PublishSettings{MessageTypeValueConverter: "Snake_Case"})

		env := Build(b, testID, contracts.NewMessage(&OrderCreated{}))

		assert.Equal(t, "order_created", env.Headers[contracts.HeaderMsgType])
	})

	t.Run("as-is naming convention", func(t *testing.T) {
		b := newTestBuilder(settings.PublishSettings{MessageTypeValueConverter: contracts.MessageTypeConverterAsIs, MessageTypeHeaderName: "x-type"})

		env := Build(b, testID, contracts.NewMessage(OrderCreated{}))

		assert.Equal(t, "OrderCreated", env.Headers["x-type"])
	})

	t.Run("sent at uses injected clock", func(t *testing.T) {
		env := Build(newTestBuilder(settings.PublishSettings{}), testID, contracts.NewMessage(OrderCreated{}))

		assert.Equal(t, "2024-03-05T14:30:15.1234567Z", env.Headers[contracts.HeaderSentAt])
	})

	t.Run("sent at is converted to UTC", func(t *testing.T) {
		zone := time.FixedZone("UTC+2", 2*60*60)
		b := NewEnvelopeBuilder(settings.PublishSettings{SentAtHeaderName: "x-sent"},
			WithClock(ClockFunc(func() time.Time { return time.Date(2024, 1, 1, 2, 0, 0, 0, zone) })))

		env := Build(b, testID, contracts.NewMessage(OrderCreated{}))

		assert.Equal(t, "2024-01-01T00:00:00.0000000Z", env.Headers["x-sent"])
	})

	t.Run("correlation and user id only when set", func(t *testing.T) {
		msg := contracts.NewMessage(OrderCreated{}).WithCid("cid-1").WithUserID("guest")

		env := Build(newTestBuilder(settings.PublishSettings{}), testID, msg)
		assert.Equal(t, "cid-1", env.CorrelationID)
		assert.Equal(t, "guest", env.UserID)

		env = Build(newTestBuilder(settings.PublishSettings{}), testID, msg.WithCid("  ").WithUserID(""))
		assert.Empty(t, env.CorrelationID)
		assert.Empty(t, env.UserID)
	})

	t.Run("caller headers win over computed headers", func(t *testing.T) {
		b := newTestBuilder(settings.PublishSettings{AppID: "billing"})
		msg := contracts.NewMessage(OrderCreated{}).
			WithHeader(contracts.HeaderAppID, "override").
			WithHeader(contracts.HeaderMsgType, "custom-type").
			WithHeader("x-trace", "abc")

		env := Build(b, testID, msg)

		assert.Equal(t, "override", env.Headers[contracts.HeaderAppID])
		assert.Equal(t, "custom-type", env.Headers[contracts.HeaderMsgType])
		assert.Equal(t, "abc", env.Headers["x-trace"])
		assert.Equal(t, "billing", env.AppID)
	})
}

func TestBuildExpiry(t *testing.T) {
	tests := []struct {
		name       string
		header     interface{}
		hasHeader  bool
		defaultTTL float64
		expected   string
	}{
		{name: "string header in seconds", header: "5", hasHeader: true, expected: "5000"},
		{name: "fractional seconds", header: "1.5", hasHeader: true, expected: "1500"},
		{name: "numeric header", header: 2, hasHeader: true, expected: "2000"},
		{name: "float header", header: 0.25, hasHeader: true, expected: "250"},
		{name: "rounds to whole milliseconds", header: "0.0016", hasHeader: true, expected: "2"},
		{name: "header wins over default", header: "5", hasHeader: true, defaultTTL: 60, expected: "5000"},
		{name: "settings default", defaultTTL: 60, expected: "60000"},
		{name: "no header and zero default", expected: ""},
		{name: "malformed header falls back to default", header: "soon", hasHeader: true, defaultTTL: 10, expected: "10000"},
		{name: "malformed header with zero default", header: "soon", hasHeader: true, expected: ""},
		{name: "unsupported header type falls back", header: true, hasHeader: true, defaultTTL: 3, expected: "3000"},
		{name: "non finite header falls back", header: "Inf", hasHeader: true, defaultTTL: 3, expected: "3000"},
		{name: "header overflowing milliseconds falls back", header: "1e306", hasHeader: true, defaultTTL: 3, expected: "3000"},
		{name: "header beyond broker ttl range falls back", header: "5000000", hasHeader: true, defaultTTL: 3, expected: "3000"},
		{name: "largest accepted header", header: "4294967.295", hasHeader: true, expected: "4294967295"},
		{name: "default beyond broker ttl range", defaultTTL: 1e306, expected: ""},
		{name: "zero header disables default", header: "0", hasHeader: true, defaultTTL: 60, expected: ""},
		{name: "negative header", header: "-5", hasHeader: true, expected: ""},
		{name: "negative default", defaultTTL: -1, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuilder(settings.PublishSettings{DefaultExpiryInSeconds: tt.defaultTTL})
			msg := contracts.NewMessage(OrderCreated{})
			if tt.hasHeader {
				msg = msg.WithHeader(contracts.HeaderExpiryKey, tt.header)
			}

			env := Build(b, testID, msg)

			assert.Equal(t, tt.expected, env.Expiration)
			assert.NotContains(t, env.Headers, contracts.HeaderExpiryKey)
		})
	}
}

func TestBuildDoesNotMutateMessage(t *testing.T) {
	msg := contracts.NewMessage(OrderCreated{OrderID: "1"}).
		WithHeader(contracts.HeaderExpiryKey, "5").
		WithHeader("x-trace", "abc")
	before := msg.CopyHeaders()

	env := Build(newTestBuilder(settings.PublishSettings{}), testID, msg)
	env.Headers["x-trace"] = "changed"

	assert.Equal(t, before, msg.Headers)
}

func TestBuildIsDeterministic(t *testing.T) {
	b := newTestBuilder(settings.PublishSettings{AppID: "billing", DefaultTenant: "acme", DefaultExpiryInSeconds: 30})
	msg := contracts.NewMessage(OrderCreated{}).WithCid("c").WithHeader("k", "v")

	assert.Equal(t, Build(b, testID, msg), Build(b, testID, msg))
}

func TestBuildConcurrent(t *testing.T) {
	b := newTestBuilder(settings.PublishSettings{AppID: "billing", DefaultExpiryInSeconds: 1})
	msg := contracts.NewMessage(OrderCreated{}).WithHeader(contracts.HeaderExpiryKey, "2")

	var wg sync.WaitGroup
	results := make([]*contracts.Envelope, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Build(b, testID, msg)
		}(i)
	}
	wg.Wait()

	for _, env := range results {
		require.NotNil(t, env)
		assert.Equal(t, "2000", env.Expiration)
	}
	assert.Contains(t, msg.Headers, contracts.HeaderExpiryKey)
}
