// Package messaging builds wire envelopes for outbound messages and publishes
// them through a transport.
//
// Two envelope builders are provided:
//   - EnvelopeBuilder: resolves app id, tenant, expiry, type naming and sent-at
//     from the message and the publisher's settings
//   - ReplyEnvelopeBuilder: copies message metadata only, for replies and
//     messages sent from a subscriber context
//
// Both are pure: the only inputs besides the message are the injected Clock
// and UniqueID capabilities.
//
// Example usage:
//
//	publisher := messaging.NewMessagePublisher(transport,
//		messaging.WithPublishSettings(settings.PublishSettings{AppID: "billing"}),
//	)
//	_, err := messaging.Publish(ctx, publisher,
//		contracts.NewMessage(OrderCreated{OrderID: "42"}).WithTenant("acme"),
//	)
package messaging
