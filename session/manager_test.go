package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/schema"
)

func TestManagerCreateGetDelete(t *testing.T) {
	m := NewManager(Config{}, nil, nil)

	s, err := m.Create("Testdatensatz", "")
	require.NoError(t, err)
	require.NotEmpty(t, s.ID())
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Delete(s.ID()))
	assert.Equal(t, 0, m.Len())

	_, err = m.Get(s.ID())
	assert.ErrorIs(t, err, serr.ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(s.ID()), serr.ErrSessionNotFound)
}

func TestSessionDoSerializesAccess(t *testing.T) {
	m := NewManager(Config{}, nil, nil)
	s, err := m.Create("Test", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Do(func(g *schema.Graph) error {
				_, err := g.AddNode(schema.KindConcept, "n", "")
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.NoError(t, s.Do(func(g *schema.Graph) error {
		assert.Equal(t, 21, g.Len())
		return nil
	}))
}

func TestSessionReplace(t *testing.T) {
	m := NewManager(Config{}, nil, nil)
	s, err := m.Create("Alt", "")
	require.NoError(t, err)

	s.Replace(schema.New("Neu", ""))
	require.NoError(t, s.Do(func(g *schema.Graph) error {
		assert.Equal(t, "Neu", g.Dataset().DisplayTitle())
		return nil
	}))
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	m := NewManager(Config{IdleTimeout: time.Minute}, nil, nil)
	idle, err := m.Create("Idle", "")
	require.NoError(t, err)
	active, err := m.Create("Active", "")
	require.NoError(t, err)

	// Backdate the idle session past the timeout.
	idle.mu.Lock()
	idle.lastActive = time.Now().Add(-2 * time.Minute)
	idle.mu.Unlock()

	evicted := m.sweep(time.Now())
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(idle.ID())
	assert.ErrorIs(t, err, serr.ErrSessionNotFound)
	_, err = m.Get(active.ID())
	assert.NoError(t, err)
}

func TestManagerShutdownClosesStore(t *testing.T) {
	m := NewManager(Config{SweepInterval: time.Millisecond}, nil, nil)
	s, err := m.Create("Test", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	assert.Equal(t, 0, m.Len())

	_, err = m.Create("Zu spät", "")
	assert.ErrorIs(t, err, serr.ErrSessionClosed)

	_, err = m.Get(s.ID())
	assert.ErrorIs(t, err, serr.ErrSessionClosed)
}

func TestSweepKeepsRecentlyTouched(t *testing.T) {
	m := NewManager(Config{IdleTimeout: time.Minute}, nil, nil)
	s, err := m.Create("Test", "")
	require.NoError(t, err)

	s.mu.Lock()
	s.lastActive = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()

	// Touching through Do resets the idle clock.
	require.NoError(t, s.Do(func(*schema.Graph) error { return nil }))
	assert.Equal(t, 0, m.sweep(time.Now()))
	assert.Equal(t, 1, m.Len())
}
