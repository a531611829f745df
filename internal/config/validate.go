package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if !strings.HasPrefix(c.Venue.HTTPBase, "http://") && !strings.HasPrefix(c.Venue.HTTPBase, "https://") {
		return fmt.Errorf("venue.http_base must start with http:// or https://, got %q", c.Venue.HTTPBase)
	}
	if !strings.HasPrefix(c.Venue.WSBase, "ws://") && !strings.HasPrefix(c.Venue.WSBase, "wss://") {
		return fmt.Errorf("venue.ws_base must start with ws:// or wss://, got %q", c.Venue.WSBase)
	}
	if c.Venue.Timeout <= 0 {
		return errors.New("venue.timeout must be positive")
	}

	if c.Stream.RefreshDelta <= 0 {
		return errors.New("stream.refresh_delta must be positive")
	}
	if c.Stream.BufferSize < 1 {
		return errors.New("stream.buffer_size must be >= 1")
	}

	if c.Retry.BaseDelay <= 0 {
		return errors.New("retry.base_delay must be positive")
	}
	if c.Retry.MaxAttempts < 1 {
		return errors.New("retry.max_attempts must be >= 1")
	}

	if len(c.Accounts) == 0 {
		return errors.New("at least one account is required")
	}

	seen := make(map[string]struct{}, len(c.Accounts))
	for i, acct := range c.Accounts {
		if acct.Name == "" {
			return fmt.Errorf("accounts[%d].name is required", i)
		}
		if acct.APIKey == "" {
			return fmt.Errorf("accounts[%d] (%s): api_key is required", i, acct.Name)
		}
		if _, dup := seen[acct.Name]; dup {
			return fmt.Errorf("duplicate account name %q", acct.Name)
		}
		seen[acct.Name] = struct{}{}
	}

	return nil
}
