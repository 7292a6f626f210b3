package messaging

import (
	"github.com/relaypulse/relaypulse-go/contracts"
	"github.com/relaypulse/relaypulse-go/internal/resolve"
)

// ReplyEnvelopeBuilder builds envelopes for replies and messages sent from a
// subscriber context. Unlike EnvelopeBuilder it carries no publisher settings:
// tenant, expiry, sent-at and type naming are not resolved.
type ReplyEnvelopeBuilder struct {
	ids UniqueID
}

// NewReplyEnvelopeBuilder creates a reply builder. A nil generator falls back
// to random UUIDs.
func NewReplyEnvelopeBuilder(ids UniqueID) *ReplyEnvelopeBuilder {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &ReplyEnvelopeBuilder{ids: ids}
}

// BuildReply computes a reply envelope for msg. The message id is msg.ID when
// set, otherwise a freshly generated id. Headers is nil unless msg carries
// headers.
func BuildReply[T any](b *ReplyEnvelopeBuilder, msg contracts.Message[T]) *contracts.Envelope {
	return b.build(metaOf(msg))
}

func (b *ReplyEnvelopeBuilder) build(msg messageMeta) *contracts.Envelope {
	env := &contracts.Envelope{
		ContentEncoding: contracts.ContentEncodingUTF8,
	}

	if !resolve.IsBlank(msg.typ) {
		env.Type = msg.typ
	}
	if !resolve.IsBlank(msg.appID) {
		env.AppID = msg.appID
	}
	if !resolve.IsBlank(msg.userID) {
		env.UserID = msg.userID
	}
	if !resolve.IsBlank(msg.cid) {
		env.CorrelationID = msg.cid
	}

	if resolve.IsBlank(msg.id) {
		env.MessageID = b.ids.New().String()
	} else {
		env.MessageID = msg.id
	}

	for k, v := range msg.headers {
		if env.Headers == nil {
			env.Headers = make(map[string]interface{}, len(msg.headers))
		}
		env.Headers[k] = v
	}

	return env
}
