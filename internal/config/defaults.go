package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHTTPBase         = "https://fapi.binance.com"
	DefaultWSBase           = "wss://fstream.binance.com"
	DefaultVenueTimeout     = 10 * time.Second
	DefaultRefreshDelta     = 55 * time.Minute
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultPingInterval     = 30 * time.Second
	DefaultStaleTimeout     = 2 * time.Minute
	DefaultWriteTimeout     = 5 * time.Second
	DefaultBufferSize       = 1000
	DefaultRetryBaseDelay   = 1 * time.Second
	DefaultRetryMaxAttempts = 5
	DefaultServerHost       = "0.0.0.0"
	DefaultServerPort       = 8080
)

// DefaultEventTypes is the accepted event-type filter when none is configured.
// Balances and positions are both carried by ACCOUNT_UPDATE.
var DefaultEventTypes = []string{"ACCOUNT_UPDATE"}

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Host == "" {
		c.Server.Host = DefaultServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}

	// Venue defaults
	if c.Venue.HTTPBase == "" {
		c.Venue.HTTPBase = DefaultHTTPBase
	}
	if c.Venue.WSBase == "" {
		c.Venue.WSBase = DefaultWSBase
	}
	if c.Venue.Timeout == 0 {
		c.Venue.Timeout = DefaultVenueTimeout
	}

	// Stream defaults
	if c.Stream.EventTypes == nil {
		c.Stream.EventTypes = append([]string(nil), DefaultEventTypes...)
	}
	if c.Stream.RefreshDelta == 0 {
		c.Stream.RefreshDelta = DefaultRefreshDelta
	}
	if c.Stream.HandshakeTimeout == 0 {
		c.Stream.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Stream.PingInterval == 0 {
		c.Stream.PingInterval = DefaultPingInterval
	}
	if c.Stream.StaleTimeout == 0 {
		c.Stream.StaleTimeout = DefaultStaleTimeout
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultWriteTimeout
	}
	if c.Stream.BufferSize == 0 {
		c.Stream.BufferSize = DefaultBufferSize
	}

	// Retry defaults
	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = DefaultRetryBaseDelay
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = DefaultRetryMaxAttempts
	}
}
