package natsclient

import (
	"fmt"
	"log/slog"
	"time"
)

// ClientOption configures a Client during construction.
type ClientOption func(*Client) error

// WithLogger sets the logger used for connection events.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithName sets the client name reported to the server.
func WithName(name string) ClientOption {
	return func(c *Client) error {
		if name == "" {
			return fmt.Errorf("client name cannot be empty")
		}
		c.name = name
		return nil
	}
}

// WithTimeout sets the connect timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		c.timeout = d
		return nil
	}
}

// WithMaxReconnects sets the reconnect attempt limit. Negative means
// unlimited.
func WithMaxReconnects(n int) ClientOption {
	return func(c *Client) error {
		c.maxReconnects = n
		return nil
	}
}

// WithReconnectWait sets the delay between reconnect attempts.
func WithReconnectWait(d time.Duration) ClientOption {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("reconnect wait must be positive, got %v", d)
		}
		c.reconnectWait = d
		return nil
	}
}
