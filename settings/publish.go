package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// PublishSettings holds per-publisher defaults used when building envelopes.
// A PublishSettings value is read-only once handed to a builder.
type PublishSettings struct {
	AppID                  string  `yaml:"appId"`
	DefaultTenant          string  `yaml:"defaultTenant"`
	DefaultExpiryInSeconds float64 `yaml:"defaultExpiryInSeconds"`

	AppIDHeaderName       string `yaml:"appIdHeaderName"`
	TenantHeaderName      string `yaml:"tenantHeaderName"`
	MessageTypeHeaderName string `yaml:"messageTypeHeaderName"`
	SentAtHeaderName      string `yaml:"sentAtHeaderName"`

	TypePrefix                string `yaml:"typePrefix"`
	MessageTypeValueConverter string `yaml:"messageTypeValueConverter"`

	DefaultExchange   string `yaml:"defaultExchange"`
	DefaultRoutingKey string `yaml:"defaultRoutingKey"`
}

// Environment variables read by ApplyEnv
const (
	EnvAppID              = "RELAYPULSE_APP_ID"
	EnvTenant             = "RELAYPULSE_TENANT"
	EnvExpirySeconds      = "RELAYPULSE_EXPIRY_SECONDS"
	EnvTypePrefix         = "RELAYPULSE_TYPE_PREFIX"
	EnvMessageTypeConvert = "RELAYPULSE_MESSAGE_TYPE_CONVERTER"
	EnvDefaultExchange    = "RELAYPULSE_EXCHANGE"
)

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ApplyEnv returns a copy of s with environment overrides applied. Unset or
// blank variables leave the corresponding field untouched.
func (s PublishSettings) ApplyEnv(lookup LookupFunc) (PublishSettings, error) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	}

	if v, ok := get(EnvAppID); ok {
		s.AppID = v
	}
	if v, ok := get(EnvTenant); ok {
		s.DefaultTenant = v
	}
	if v, ok := get(EnvTypePrefix); ok {
		s.TypePrefix = v
	}
	if v, ok := get(EnvMessageTypeConvert); ok {
		s.MessageTypeValueConverter = v
	}
	if v, ok := get(EnvDefaultExchange); ok {
		s.DefaultExchange = v
	}
	if v, ok := get(EnvExpirySeconds); ok {
		expiry, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return s, fmt.Errorf("settings: invalid %s %q: %w", EnvExpirySeconds, v, err)
		}
		s.DefaultExpiryInSeconds = expiry
	}

	return s, nil
}
