package config

import "time"

// Config is the root configuration for an exporter instance.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Venue    VenueConfig     `yaml:"venue"`
	Stream   StreamConfig    `yaml:"stream"`
	Retry    RetryConfig     `yaml:"retry"`
	Accounts []AccountConfig `yaml:"accounts"`
}

// ServerConfig holds the health/metrics HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// VenueConfig holds the remote venue endpoints.
type VenueConfig struct {
	HTTPBase string        `yaml:"http_base"` // REST base URL (e.g. https://fapi.binance.com)
	WSBase   string        `yaml:"ws_base"`   // WebSocket base URL (e.g. wss://fstream.binance.com)
	Timeout  time.Duration `yaml:"timeout"`   // Total timeout for each REST request
}

// StreamConfig holds per-account stream consumer settings.
type StreamConfig struct {
	EventTypes       []string      `yaml:"event_types"`       // Accepted event types; empty matches all
	RefreshDelta     time.Duration `yaml:"refresh_delta"`     // Proactive listen-key refresh threshold
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"` // WebSocket dial timeout
	PingInterval     time.Duration `yaml:"ping_interval"`     // Keepalive ping cadence
	StaleTimeout     time.Duration `yaml:"stale_timeout"`     // Max silence before the connection is considered dead
	WriteTimeout     time.Duration `yaml:"write_timeout"`     // Write deadline for control frames
	BufferSize       int           `yaml:"buffer_size"`       // Inbound frame channel buffer
}

// RetryConfig holds the backoff schedule shared by token issuance, renewal,
// and connection establishment.
type RetryConfig struct {
	BaseDelay   time.Duration `yaml:"base_delay"`   // First backoff delay
	MaxAttempts int           `yaml:"max_attempts"` // Total attempts before surfacing the last error
}

// AccountConfig holds one account's identity and credential.
type AccountConfig struct {
	Name   string `yaml:"name"`
	APIKey string `yaml:"api_key"`
}
