package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/metric"
	"github.com/I14Y-ch/structure-generator/natsclient"
)

const bucketName = "structgen_structures"

// Store persists structure records in a NATS KV bucket.
type Store struct {
	kv      *natsclient.KVStore
	logger  *slog.Logger
	metrics *metric.Metrics
	now     func() time.Time
}

// NewStore creates the KV bucket if needed and returns a store bound to it.
// Metrics may be nil.
func NewStore(ctx context.Context, client *natsclient.Client, logger *slog.Logger, metrics *metric.Metrics) (*Store, error) {
	if client == nil {
		return nil, serr.WrapInvalid(fmt.Errorf("nats client cannot be nil"),
			"store", "NewStore", "validation failed")
	}
	if logger == nil {
		logger = slog.Default()
	}

	bucket, err := client.CreateKeyValueBucket(ctx, jetstream.KeyValueConfig{
		Bucket:      bucketName,
		Description: "Structure snapshots with audit metadata",
		History:     10,
	})
	if err != nil {
		return nil, serr.WrapTransient(err, "store", "NewStore", "create KV bucket")
	}

	return &Store{
		kv:      client.NewKVStore(bucket),
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}, nil
}

func (s *Store) record(operation string, err error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordSnapshotOperation(operation, status)
}

// Create stores a new record. The record must not exist yet; its version and
// timestamps are set by the store.
func (s *Store) Create(ctx context.Context, rec *Record) (err error) {
	defer func() { s.record("create", err) }()

	if rec == nil {
		return serr.WrapInvalid(fmt.Errorf("record cannot be nil"),
			"store", "Create", "validation failed")
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.Version = 1
	now := s.now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	data, err := json.Marshal(rec)
	if err != nil {
		return serr.WrapFatal(err, "store", "Create", "marshal record")
	}

	rev, err := s.kv.Create(ctx, rec.ID, data)
	if err != nil {
		if natsclient.IsKVConflictError(err) {
			return serr.WrapInvalid(serr.ErrSnapshotConflict, "store", "Create",
				"record "+rec.ID+" already exists")
		}
		return serr.WrapTransient(err, "store", "Create", "create in KV")
	}
	rec.revision = rev

	s.logger.Info("structure stored", "id", rec.ID, "name", rec.Name)
	return nil
}

// Get retrieves a record by ID.
func (s *Store) Get(ctx context.Context, id string) (rec *Record, err error) {
	defer func() { s.record("get", err) }()

	if id == "" {
		return nil, serr.WrapInvalid(fmt.Errorf("record ID cannot be empty"),
			"store", "Get", "validation failed")
	}

	entry, err := s.kv.Get(ctx, id)
	if err != nil {
		if natsclient.IsKVNotFoundError(err) {
			return nil, serr.WrapInvalid(serr.ErrSnapshotNotFound, "store", "Get",
				"record "+id)
		}
		return nil, serr.WrapTransient(err, "store", "Get", "get from KV")
	}

	rec = &Record{}
	if err := json.Unmarshal(entry.Value, rec); err != nil {
		return nil, serr.WrapFatal(err, "store", "Get", "unmarshal record")
	}
	rec.revision = entry.Revision
	return rec, nil
}

// Update overwrites an existing record under compare-and-swap: the write
// only lands if nothing changed since the record was read. Records that
// were not read from the store fall back to a version check against the
// stored record. On success the version is incremented.
func (s *Store) Update(ctx context.Context, rec *Record) (err error) {
	defer func() { s.record("update", err) }()

	if rec == nil {
		return serr.WrapInvalid(fmt.Errorf("record cannot be nil"),
			"store", "Update", "validation failed")
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	revision := rec.revision
	if revision == 0 {
		current, err := s.Get(ctx, rec.ID)
		if err != nil {
			return err
		}
		if current.Version != rec.Version {
			return serr.WrapInvalid(serr.ErrSnapshotConflict, "store", "Update",
				fmt.Sprintf("version mismatch: stored %d, caller %d", current.Version, rec.Version))
		}
		revision = current.revision
		rec.CreatedAt = current.CreatedAt
	}

	rec.Version++
	rec.UpdatedAt = s.now()

	data, err := json.Marshal(rec)
	if err != nil {
		rec.Version--
		return serr.WrapFatal(err, "store", "Update", "marshal record")
	}

	rev, err := s.kv.Update(ctx, rec.ID, data, revision)
	if err != nil {
		rec.Version--
		if natsclient.IsKVConflictError(err) {
			return serr.WrapInvalid(serr.ErrSnapshotConflict, "store", "Update",
				"record "+rec.ID+" was modified concurrently")
		}
		return serr.WrapTransient(err, "store", "Update", "cas write to KV")
	}
	rec.revision = rev

	s.logger.Info("structure updated", "id", rec.ID, "version", rec.Version)
	return nil
}

// Delete removes a record by ID.
func (s *Store) Delete(ctx context.Context, id string) (err error) {
	defer func() { s.record("delete", err) }()

	if id == "" {
		return serr.WrapInvalid(fmt.Errorf("record ID cannot be empty"),
			"store", "Delete", "validation failed")
	}

	if err := s.kv.Delete(ctx, id); err != nil {
		if natsclient.IsKVNotFoundError(err) {
			return serr.WrapInvalid(serr.ErrSnapshotNotFound, "store", "Delete",
				"record "+id)
		}
		return serr.WrapTransient(err, "store", "Delete", "delete from KV")
	}

	s.logger.Info("structure deleted", "id", id)
	return nil
}

// List retrieves all stored records.
func (s *Store) List(ctx context.Context) (recs []*Record, err error) {
	defer func() { s.record("list", err) }()

	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return nil, serr.WrapTransient(err, "store", "List", "list KV keys")
	}

	recs = make([]*Record, 0, len(keys))
	for _, key := range keys {
		rec, err := s.Get(ctx, key)
		if err != nil {
			// Entries deleted between Keys and Get are skipped.
			if serr.IsNotFound(err) {
				continue
			}
			return nil, serr.WrapTransient(err, "store", "List", "get record "+key)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
