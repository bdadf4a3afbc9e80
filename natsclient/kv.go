package natsclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/I14Y-ch/structure-generator/pkg/retry"
)

// Well-known KV errors.
var (
	ErrKVKeyNotFound        = errors.New("kv: key not found")
	ErrKVKeyExists          = errors.New("kv: key already exists")
	ErrKVRevisionMismatch   = errors.New("kv: revision mismatch (concurrent update)")
	ErrKVMaxRetriesExceeded = errors.New("kv: max retries exceeded")
)

// KVEntry carries a value together with its revision for CAS operations.
type KVEntry struct {
	Key      string
	Value    []byte
	Revision uint64
}

// KVOptions configures KVStore behavior.
type KVOptions struct {
	MaxRetries    int           // CAS retry attempts beyond the first
	RetryDelay    time.Duration // initial delay between retries
	MaxRetryDelay time.Duration
	Timeout       time.Duration // per-operation timeout
	MaxValueSize  int           // reject values larger than this
}

// DefaultKVOptions returns defaults suitable for small JSON documents.
func DefaultKVOptions() KVOptions {
	return KVOptions{
		MaxRetries:    10,
		RetryDelay:    10 * time.Millisecond,
		MaxRetryDelay: time.Second,
		Timeout:       5 * time.Second,
		MaxValueSize:  1024 * 1024,
	}
}

// KVStore wraps a KV bucket with timeouts and CAS retry support.
type KVStore struct {
	bucket  jetstream.KeyValue
	options KVOptions
	logger  *slog.Logger
}

// NewKVStore wraps the given bucket with the client's logger.
func (c *Client) NewKVStore(bucket jetstream.KeyValue, opts ...func(*KVOptions)) *KVStore {
	options := DefaultKVOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &KVStore{
		bucket:  bucket,
		options: options,
		logger:  c.logger,
	}
}

func (kv *KVStore) applyTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if kv.options.Timeout > 0 {
		return context.WithTimeout(ctx, kv.options.Timeout)
	}
	return ctx, func() {}
}

// Get retrieves a value with its revision.
func (kv *KVStore) Get(ctx context.Context, key string) (*KVEntry, error) {
	ctx, cancel := kv.applyTimeout(ctx)
	defer cancel()

	entry, err := kv.bucket.Get(ctx, key)
	if err != nil {
		if IsKVNotFoundError(err) {
			return nil, ErrKVKeyNotFound
		}
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}

	return &KVEntry{
		Key:      key,
		Value:    entry.Value(),
		Revision: entry.Revision(),
	}, nil
}

// Put creates or updates a key without a revision check (last writer wins).
func (kv *KVStore) Put(ctx context.Context, key string, value []byte) (uint64, error) {
	ctx, cancel := kv.applyTimeout(ctx)
	defer cancel()

	rev, err := kv.bucket.Put(ctx, key, value)
	if err != nil {
		return 0, fmt.Errorf("kv put %s: %w", key, err)
	}

	kv.logger.Debug("kv put", "key", key, "revision", rev)
	return rev, nil
}

// Create stores a new key, failing when it already exists.
func (kv *KVStore) Create(ctx context.Context, key string, value []byte) (uint64, error) {
	ctx, cancel := kv.applyTimeout(ctx)
	defer cancel()

	rev, err := kv.bucket.Create(ctx, key, value)
	if err != nil {
		if IsKVConflictError(err) {
			return 0, ErrKVKeyExists
		}
		return 0, fmt.Errorf("kv create %s: %w", key, err)
	}

	kv.logger.Debug("kv create", "key", key, "revision", rev)
	return rev, nil
}

// Update performs a CAS write against an explicit revision.
func (kv *KVStore) Update(ctx context.Context, key string, value []byte, revision uint64) (uint64, error) {
	ctx, cancel := kv.applyTimeout(ctx)
	defer cancel()

	rev, err := kv.bucket.Update(ctx, key, value, revision)
	if err != nil {
		if IsKVConflictError(err) {
			return 0, ErrKVRevisionMismatch
		}
		return 0, fmt.Errorf("kv update %s: %w", key, err)
	}

	kv.logger.Debug("kv update", "key", key, "old_revision", revision, "new_revision", rev)
	return rev, nil
}

// Delete removes a key.
func (kv *KVStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := kv.applyTimeout(ctx)
	defer cancel()

	if err := kv.bucket.Delete(ctx, key); err != nil {
		if IsKVNotFoundError(err) {
			return ErrKVKeyNotFound
		}
		return fmt.Errorf("kv delete %s: %w", key, err)
	}

	kv.logger.Debug("kv delete", "key", key)
	return nil
}

// Keys lists all keys in the bucket.
func (kv *KVStore) Keys(ctx context.Context) ([]string, error) {
	ctx, cancel := kv.applyTimeout(ctx)
	defer cancel()

	keys, err := kv.bucket.Keys(ctx)
	if err != nil {
		// An empty bucket reports "no keys found".
		if strings.Contains(err.Error(), "no keys found") {
			return nil, nil
		}
		return nil, fmt.Errorf("kv keys: %w", err)
	}
	return keys, nil
}

func (kv *KVStore) retryConfig() retry.Config {
	return retry.Config{
		MaxAttempts:  kv.options.MaxRetries + 1,
		InitialDelay: kv.options.RetryDelay,
		MaxDelay:     kv.options.MaxRetryDelay,
		Multiplier:   2.0,
		AddJitter:    true,
	}
}

// UpdateWithRetry applies updateFn under CAS, retrying on revision conflicts.
// A missing key is passed to updateFn as nil and created on success.
func (kv *KVStore) UpdateWithRetry(ctx context.Context, key string,
	updateFn func(current []byte) ([]byte, error)) error {

	ctx, cancel := kv.applyTimeout(ctx)
	defer cancel()

	attempt := 0
	err := retry.Do(ctx, kv.retryConfig(), func() error {
		attempt++

		var currentValue []byte
		var revision uint64

		entry, err := kv.Get(ctx, key)
		switch {
		case err == nil:
			currentValue = entry.Value
			revision = entry.Revision
		case IsKVNotFoundError(err):
			// Missing key becomes a create below.
		default:
			return fmt.Errorf("kv get during update: %w", err)
		}

		newValue, err := updateFn(currentValue)
		if err != nil {
			return retry.NonRetryable(fmt.Errorf("update function: %w", err))
		}
		if kv.options.MaxValueSize > 0 && len(newValue) > kv.options.MaxValueSize {
			return retry.NonRetryable(fmt.Errorf("value size %d exceeds maximum %d",
				len(newValue), kv.options.MaxValueSize))
		}

		if revision == 0 {
			_, err = kv.bucket.Create(ctx, key, newValue)
		} else {
			_, err = kv.Update(ctx, key, newValue, revision)
		}
		if err == nil {
			return nil
		}
		if IsKVConflictError(err) {
			kv.logger.Debug("kv cas conflict, retrying", "key", key, "attempt", attempt)
			return err
		}
		return fmt.Errorf("kv write failed: %w", err)
	})

	if err != nil && IsKVConflictError(err) {
		return ErrKVMaxRetriesExceeded
	}
	return err
}

// IsKVNotFoundError reports whether err indicates a missing key.
func IsKVNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrKVKeyNotFound) || errors.Is(err, jetstream.ErrKeyNotFound) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "key not found") || strings.Contains(msg, "10037")
}

// IsKVConflictError reports whether err indicates a create conflict or a
// revision mismatch.
func IsKVConflictError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrKVRevisionMismatch) || errors.Is(err, ErrKVKeyExists) ||
		errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "wrong last sequence") ||
		strings.Contains(msg, "10071") ||
		strings.Contains(msg, "key exists") ||
		strings.Contains(msg, "10058")
}
