package stream

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// TimestampedMessage wraps raw frame data with its receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw frame bytes from the WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL              string        // Full stream URL including the listen key
	APIKey           string        // Account API key, sent as X-MBX-APIKEY
	HandshakeTimeout time.Duration // Dial timeout
	PingInterval     time.Duration // Keepalive ping cadence
	StaleTimeout     time.Duration // Max silence before the connection is considered dead
	WriteTimeout     time.Duration // Write deadline for control frames
	BufferSize       int           // Frame channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     30 * time.Second,
		StaleTimeout:     2 * time.Minute,
		WriteTimeout:     5 * time.Second,
		BufferSize:       1000,
	}
}

// ConsumerConfig configures one account's stream consumer.
type ConsumerConfig struct {
	Account    string       // Account name, for logs and sink calls
	WSBase     string       // WebSocket base URL (e.g. wss://fstream.binance.com)
	APIKey     string       // Account API key
	EventTypes []string     // Accepted event types; empty matches all
	Client     ClientConfig // Connection settings (URL is filled per connect)
}
