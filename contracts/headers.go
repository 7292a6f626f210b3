package contracts

// Header names shared with existing consumers. These values are part of the
// wire contract and must not change.
const (
	HeaderAppID     = "rp-app-id"
	HeaderTenant    = "rp-tenant"
	HeaderMsgType   = "rp-msg-type"
	HeaderSentAt    = "rp-sent-at"
	HeaderExpiryKey = "rp-expiry"
)

// Message type naming conventions
const (
	MessageTypeConverterAsIs      = "as-is"
	MessageTypeConverterSnakeCase = "snake_case"
)

const (
	ContentEncodingUTF8 = "utf-8"
	ContentTypeJSON     = "application/json"
)

// SentAtLayout formats sent-at timestamps as round-trip ISO-8601 with seven
// fractional digits.
const SentAtLayout = "2006-01-02T15:04:05.0000000Z07:00"
