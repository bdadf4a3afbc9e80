//go:build integration

package store

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/metric"
	"github.com/I14Y-ch/structure-generator/natsclient"
	"github.com/I14Y-ch/structure-generator/schema"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	tc := natsclient.NewTestClient(t)

	reg := metric.NewRegistry()
	s, err := NewStore(context.Background(), tc.Client, slog.Default(), reg.Metrics())
	require.NoError(t, err)
	return s
}

func testRecord(t *testing.T, id string) *Record {
	t.Helper()
	g := schema.New("Gebäuderegister", "")
	_, err := g.AddNode(schema.KindDataElement, "EGID", "Eidg. Gebäudeidentifikator")
	require.NoError(t, err)

	return &Record{
		ID:       id,
		Name:     "Gebäuderegister",
		Snapshot: g.Snapshot(),
	}
}

func TestStoreLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := testRecord(t, "lifecycle")

	t.Run("create", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, rec))
		assert.Equal(t, int64(1), rec.Version)
		assert.False(t, rec.CreatedAt.IsZero())
	})

	t.Run("create duplicate conflicts", func(t *testing.T) {
		err := s.Create(ctx, testRecord(t, "lifecycle"))
		assert.ErrorIs(t, err, serr.ErrSnapshotConflict)
	})

	t.Run("get round trip", func(t *testing.T) {
		got, err := s.Get(ctx, "lifecycle")
		require.NoError(t, err)
		assert.Equal(t, rec.Name, got.Name)
		assert.Equal(t, rec.Version, got.Version)
		assert.Len(t, got.Snapshot.Nodes, len(rec.Snapshot.Nodes))
	})

	t.Run("update increments version", func(t *testing.T) {
		got, err := s.Get(ctx, "lifecycle")
		require.NoError(t, err)

		got.Description = "aktualisiert"
		require.NoError(t, s.Update(ctx, got))
		assert.Equal(t, int64(2), got.Version)

		again, err := s.Get(ctx, "lifecycle")
		require.NoError(t, err)
		assert.Equal(t, "aktualisiert", again.Description)
	})

	t.Run("stale update conflicts", func(t *testing.T) {
		stale := testRecord(t, "lifecycle")
		stale.Version = 1
		err := s.Update(ctx, stale)
		assert.ErrorIs(t, err, serr.ErrSnapshotConflict)
	})

	t.Run("interleaved update conflicts", func(t *testing.T) {
		// Two readers hold the same version; only the first write lands,
		// the second fails the compare-and-swap instead of overwriting.
		first, err := s.Get(ctx, "lifecycle")
		require.NoError(t, err)
		second, err := s.Get(ctx, "lifecycle")
		require.NoError(t, err)
		require.Equal(t, first.Version, second.Version)

		first.Description = "erster Schreiber"
		require.NoError(t, s.Update(ctx, first))

		second.Description = "zweiter Schreiber"
		err = s.Update(ctx, second)
		assert.ErrorIs(t, err, serr.ErrSnapshotConflict)

		got, err := s.Get(ctx, "lifecycle")
		require.NoError(t, err)
		assert.Equal(t, "erster Schreiber", got.Description)
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, testRecord(t, "second")))

		recs, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "second"))

		_, err := s.Get(ctx, "second")
		assert.ErrorIs(t, err, serr.ErrSnapshotNotFound)

		err = s.Delete(ctx, "second")
		assert.ErrorIs(t, err, serr.ErrSnapshotNotFound)
	})
}

func TestStoreGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, serr.ErrSnapshotNotFound)
	assert.True(t, serr.IsNotFound(err))
}
