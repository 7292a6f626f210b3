package contracts

// Message is an outbound domain message carrying a payload of type T and
// optional transport metadata. Builders only read a Message; the With* helpers
// return modified copies and never touch the receiver's header map.
type Message[T any] struct {
	Content T `json:"content"`

	ID     string `json:"id,omitempty"`
	Type   string `json:"type,omitempty"`
	AppID  string `json:"appId,omitempty"`
	UserID string `json:"userId,omitempty"`
	Cid    string `json:"cid,omitempty"`
	Tenant string `json:"tenant,omitempty"`

	Headers map[string]interface{} `json:"headers,omitempty"`
}

// NewMessage creates a message for content
func NewMessage[T any](content T) Message[T] {
	return Message[T]{Content: content}
}

// WithID returns a copy with the message id set
func (m Message[T]) WithID(id string) Message[T] {
	m.ID = id
	return m
}

// WithType returns a copy with an explicit type name
func (m Message[T]) WithType(typeName string) Message[T] {
	m.Type = typeName
	return m
}

// WithAppID returns a copy with the app id set
func (m Message[T]) WithAppID(appID string) Message[T] {
	m.AppID = appID
	return m
}

// WithUserID returns a copy with the user id set
func (m Message[T]) WithUserID(userID string) Message[T] {
	m.UserID = userID
	return m
}

// WithCid returns a copy with the correlation id set
func (m Message[T]) WithCid(cid string) Message[T] {
	m.Cid = cid
	return m
}

// WithTenant returns a copy with the tenant set
func (m Message[T]) WithTenant(tenant string) Message[T] {
	m.Tenant = tenant
	return m
}

// WithHeader returns a copy carrying an additional header
func (m Message[T]) WithHeader(key string, value interface{}) Message[T] {
	headers := m.CopyHeaders()
	headers[key] = value
	m.Headers = headers
	return m
}

// WithExpiry returns a copy that overrides the publisher's default expiry
func (m Message[T]) WithExpiry(seconds float64) Message[T] {
	return m.WithHeader(HeaderExpiryKey, seconds)
}

// CopyHeaders returns a new map holding the message headers
func (m Message[T]) CopyHeaders() map[string]interface{} {
	headers := make(map[string]interface{}, len(m.Headers)+1)
	for k, v := range m.Headers {
		headers[k] = v
	}
	return headers
}
