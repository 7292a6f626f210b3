package messaging

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/relaypulse/relaypulse-go/contracts"
	"github.com/relaypulse/relaypulse-go/internal/headers"
	"github.com/relaypulse/relaypulse-go/internal/resolve"
	"github.com/relaypulse/relaypulse-go/internal/typename"
	"github.com/relaypulse/relaypulse-go/settings"
)

// EnvelopeBuilder resolves the wire envelope for outbound messages from the
// message itself and the publisher's settings. It holds no mutable state and
// is safe for concurrent use.
type EnvelopeBuilder struct {
	settings settings.PublishSettings
	clock    Clock
}

// EnvelopeBuilderOption configures an EnvelopeBuilder
type EnvelopeBuilderOption func(*EnvelopeBuilder)

// WithClock sets the clock used for the sent-at header
func WithClock(clock Clock) EnvelopeBuilderOption {
	return func(b *EnvelopeBuilder) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// NewEnvelopeBuilder creates a builder for the given publisher settings
func NewEnvelopeBuilder(s settings.PublishSettings, options ...EnvelopeBuilderOption) *EnvelopeBuilder {
	b := &EnvelopeBuilder{
		settings: s,
		clock:    SystemClock{},
	}

	for _, opt := range options {
		opt(b)
	}

	return b
}

// Settings returns the publish settings the builder resolves against
func (b *EnvelopeBuilder) Settings() settings.PublishSettings {
	return b.settings
}

// MessageTypeHeaderName returns the header carrying the message type name
func (b *EnvelopeBuilder) MessageTypeHeaderName() string {
	return resolve.FirstNonEmpty(b.settings.MessageTypeHeaderName, contracts.HeaderMsgType)
}

// Build computes the envelope for msg with message id id. It never fails:
// every missing input falls back to a settings or library default. The
// caller's message, including its header map, is left untouched.
func Build[T any](b *EnvelopeBuilder, id uuid.UUID, msg contracts.Message[T]) *contracts.Envelope {
	return b.build(id.String(), metaOf(msg), typename.Of(msg.Content))
}

// messageMeta is the type-independent part of a Message
type messageMeta struct {
	id, typ, appID, userID, cid, tenant string
	headers                             map[string]interface{}
}

func metaOf[T any](msg contracts.Message[T]) messageMeta {
	return messageMeta{
		id:      msg.ID,
		typ:     msg.Type,
		appID:   msg.AppID,
		userID:  msg.UserID,
		cid:     msg.Cid,
		tenant:  msg.Tenant,
		headers: msg.Headers,
	}
}

func (b *EnvelopeBuilder) build(id string, msg messageMeta, payloadType reflect.Type) *contracts.Envelope {
	s := b.settings
	env := &contracts.Envelope{}
	var hdrs headers.Set

	callerHeaders := make(map[string]interface{}, len(msg.headers))
	for k, v := range msg.headers {
		callerHeaders[k] = v
	}

	if appID := resolve.FirstNonEmpty(msg.appID, s.AppID); appID != "" {
		env.AppID = appID
		hdrs.Add(headers.TierComputed, resolve.FirstNonEmpty(s.AppIDHeaderName, contracts.HeaderAppID), appID)
	}

	expiry := resolve.First(
		popSeconds(callerHeaders, contracts.HeaderExpiryKey),
		resolve.Some(s.DefaultExpiryInSeconds),
	)
	if seconds := expiry.OrElse(0); seconds > 0 {
		if ms, ok := expiryMillis(seconds); ok {
			env.Expiration = strconv.FormatFloat(ms, 'f', 0, 64)
		}
	}

	if tenant := resolve.FirstNonEmpty(msg.tenant, s.DefaultTenant); tenant != "" {
		hdrs.Add(headers.TierComputed, resolve.FirstNonEmpty(s.TenantHeaderName, contracts.HeaderTenant), tenant)
	}

	shortName := typename.ShortName(payloadType)
	env.Type = resolve.FirstNonEmpty(msg.typ, typename.FullName(payloadType), shortName)

	baseName := shortName
	if strings.EqualFold(s.MessageTypeValueConverter, contracts.MessageTypeConverterSnakeCase) {
		baseName = typename.SnakeCase(shortName)
	}
	hdrs.Add(headers.TierComputed, b.MessageTypeHeaderName(), s.TypePrefix+resolve.FirstNonEmpty(msg.typ, baseName))

	hdrs.Add(headers.TierComputed, resolve.FirstNonEmpty(s.SentAtHeaderName, contracts.HeaderSentAt),
		b.clock.Now().UTC().Format(contracts.SentAtLayout))

	if !resolve.IsBlank(msg.cid) {
		env.CorrelationID = msg.cid
	}

	env.ContentEncoding = contracts.ContentEncodingUTF8
	env.ContentType = contracts.ContentTypeJSON
	env.MessageID = id

	if !resolve.IsBlank(msg.userID) {
		env.UserID = msg.userID
	}

	hdrs.AddAll(headers.TierCaller, callerHeaders)
	env.Headers = hdrs.Fold()

	return env
}

// popSeconds removes key from h and parses its value as a number of seconds.
// Values that are missing, unparseable or not finite are reported as absent.
func popSeconds(h map[string]interface{}, key string) resolve.Optional[float64] {
	raw, ok := h[key]
	if !ok {
		return resolve.None[float64]()
	}
	delete(h, key)

	seconds, ok := toFloat(raw)
	if !ok {
		return resolve.None[float64]()
	}
	if _, ok := expiryMillis(seconds); !ok {
		return resolve.None[float64]()
	}
	return resolve.Some(seconds)
}

// maxExpiryMillis is the largest per-message TTL the broker accepts.
const maxExpiryMillis = math.MaxUint32

// expiryMillis converts seconds to whole milliseconds. It reports false when
// the result cannot be written as an AMQP expiration.
func expiryMillis(seconds float64) (float64, bool) {
	ms := math.Round(seconds * 1000)
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms > maxExpiryMillis {
		return 0, false
	}
	return ms, true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
		return f, err == nil
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
