package contracts

// Envelope is the resolved wire-level metadata attached to an outbound
// message. A new Envelope is produced for every publish and is owned by the
// transport call that follows.
type Envelope struct {
	ContentEncoding string                 `json:"contentEncoding"`
	ContentType     string                 `json:"contentType,omitempty"`
	MessageID       string                 `json:"messageId"`
	CorrelationID   string                 `json:"correlationId,omitempty"`
	AppID           string                 `json:"appId,omitempty"`
	UserID          string                 `json:"userId,omitempty"`
	Type            string                 `json:"type,omitempty"`
	Expiration      string                 `json:"expiration,omitempty"`
	Headers         map[string]interface{} `json:"headers,omitempty"`
}

// Header returns the header value for key and whether it was set
func (e *Envelope) Header(key string) (interface{}, bool) {
	if e == nil || e.Headers == nil {
		return nil, false
	}
	v, ok := e.Headers[key]
	return v, ok
}

// HeaderString returns the header value for key when it is a string
func (e *Envelope) HeaderString(key string) string {
	v, _ := e.Header(key)
	s, _ := v.(string)
	return s
}
