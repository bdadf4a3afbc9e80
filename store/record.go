package store

import (
	"fmt"
	"time"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/schema"
)

// Record is a stored structure snapshot with identity and audit metadata.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Version for optimistic concurrency control.
	Version int64 `json:"version"`

	Snapshot schema.Snapshot `json:"snapshot"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// revision is the KV revision the record was read at, carried so
	// Update can compare-and-swap against it. Zero means "not read from
	// the store".
	revision uint64
}

// Validate checks that the record can be stored.
func (r *Record) Validate() error {
	if r.ID == "" {
		return serr.WrapInvalid(fmt.Errorf("record ID cannot be empty"),
			"store", "Validate", "validation failed")
	}
	if r.Name == "" {
		return serr.WrapInvalid(fmt.Errorf("record name cannot be empty"),
			"store", "Validate", "validation failed")
	}
	if len(r.Snapshot.Nodes) == 0 {
		return serr.WrapInvalid(fmt.Errorf("snapshot has no nodes"),
			"store", "Validate", "validation failed")
	}

	datasets := 0
	for _, n := range r.Snapshot.Nodes {
		if n.Kind == string(schema.KindDataset) {
			datasets++
		}
	}
	if datasets != 1 {
		return serr.WrapInvalid(
			fmt.Errorf("snapshot must contain exactly one dataset node, found %d", datasets),
			"store", "Validate", "validation failed")
	}

	return nil
}
