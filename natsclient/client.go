package natsclient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	serr "github.com/I14Y-ch/structure-generator/errors"
)

// Client manages a NATS connection and its JetStream context.
type Client struct {
	url    string
	logger *slog.Logger

	name          string
	timeout       time.Duration
	drainTimeout  time.Duration
	maxReconnects int
	reconnectWait time.Duration

	mu   sync.RWMutex
	conn *nats.Conn
	js   jetstream.JetStream
}

// NewClient creates a client for the given server URL. The connection is
// established by Connect.
func NewClient(url string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		url:           url,
		logger:        slog.Default(),
		name:          "structure-generator",
		timeout:       5 * time.Second,
		drainTimeout:  30 * time.Second,
		maxReconnects: -1,
		reconnectWait: 2 * time.Second,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, serr.WrapInvalid(err, "natsclient", "NewClient", "apply option")
		}
	}

	return c, nil
}

// URL returns the configured server URL.
func (c *Client) URL() string {
	return c.url
}

// Connect establishes the NATS connection and JetStream context.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && c.conn.IsConnected() {
		return nil
	}

	opts := []nats.Option{
		nats.Name(c.name),
		nats.Timeout(c.timeout),
		nats.MaxReconnects(c.maxReconnects),
		nats.ReconnectWait(c.reconnectWait),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			c.logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			c.logger.Info("nats connection closed")
		}),
	}

	conn, err := nats.Connect(c.url, opts...)
	if err != nil {
		return serr.WrapTransient(err, "natsclient", "Connect", "connect to "+c.url)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return serr.WrapFatal(err, "natsclient", "Connect", "create jetstream context")
	}

	// With RetryOnFailedConnect the handshake may still be in progress.
	for !conn.IsConnected() {
		select {
		case <-ctx.Done():
			conn.Close()
			return serr.WrapTransient(ctx.Err(), "natsclient", "Connect", "wait for connection")
		case <-time.After(50 * time.Millisecond):
		}
	}

	c.conn = conn
	c.js = js
	c.logger.Info("connected to nats", "url", conn.ConnectedUrl())
	return nil
}

// IsHealthy reports whether the connection is currently established.
func (c *Client) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && c.conn.IsConnected()
}

// RTT returns the round-trip time to the server.
func (c *Client) RTT() (time.Duration, error) {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil || !conn.IsConnected() {
		return 0, serr.WrapTransient(serr.ErrStorageUnavailable, "natsclient", "RTT", "not connected")
	}
	rtt, err := conn.RTT()
	if err != nil {
		return 0, serr.WrapTransient(err, "natsclient", "RTT", "measure round trip")
	}
	return rtt, nil
}

// JetStream returns the JetStream context. Connect must have succeeded.
func (c *Client) JetStream() (jetstream.JetStream, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.js == nil {
		return nil, serr.WrapTransient(serr.ErrStorageUnavailable, "natsclient", "JetStream", "not connected")
	}
	return c.js, nil
}

// CreateKeyValueBucket creates the bucket, or binds to it when it already
// exists.
func (c *Client) CreateKeyValueBucket(ctx context.Context, cfg jetstream.KeyValueConfig) (jetstream.KeyValue, error) {
	js, err := c.JetStream()
	if err != nil {
		return nil, err
	}

	bucket, err := js.CreateKeyValue(ctx, cfg)
	if err == nil {
		return bucket, nil
	}

	// Another instance may have created the bucket first.
	bucket, bindErr := js.KeyValue(ctx, cfg.Bucket)
	if bindErr != nil {
		return nil, serr.WrapTransient(err, "natsclient", "CreateKeyValueBucket", "create bucket "+cfg.Bucket)
	}
	return bucket, nil
}

// Close drains the connection, waiting up to the drain timeout for pending
// operations to flush.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	done := make(chan struct{})
	c.conn.SetClosedHandler(func(_ *nats.Conn) {
		close(done)
	})

	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
		c.conn = nil
		c.js = nil
		return serr.WrapTransient(err, "natsclient", "Close", "drain connection")
	}

	select {
	case <-done:
	case <-time.After(c.drainTimeout):
		c.conn.Close()
	case <-ctx.Done():
		c.conn.Close()
	}

	c.conn = nil
	c.js = nil
	return nil
}
