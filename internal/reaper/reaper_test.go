package reaper

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabinFqt/minesweeper-session-server/internal/board"
	"github.com/GabinFqt/minesweeper-session-server/internal/gamecore"
	"github.com/GabinFqt/minesweeper-session-server/internal/registry"
)

func newTestGame(t *testing.T) *gamecore.Game {
	t.Helper()
	b, err := board.New(3, 3, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return gamecore.New(b)
}

type spyAdmissionGC struct {
	calls int
}

func (s *spyAdmissionGC) GC() { s.calls++ }

func TestTick_RemovesGameOlderThanEmptyThreshold(t *testing.T) {
	reg := registry.New()
	id, err := reg.Create(newTestGame(t))
	require.NoError(t, err)

	r := New(reg, nil, time.Second, time.Hour, 0, nil)
	r.tick()

	_, ok := reg.Get(id)
	assert.False(t, ok)
}

func TestTick_KeepsRecentlyActiveGame(t *testing.T) {
	reg := registry.New()
	id, err := reg.Create(newTestGame(t))
	require.NoError(t, err)

	r := New(reg, nil, time.Second, time.Hour, time.Hour, nil)
	r.tick()

	_, ok := reg.Get(id)
	assert.True(t, ok)
}

func TestTick_GarbageCollectsAdmissionBuckets(t *testing.T) {
	reg := registry.New()
	adm := &spyAdmissionGC{}

	r := New(reg, adm, time.Second, time.Hour, time.Hour, nil)
	r.tick()
	r.tick()

	assert.Equal(t, 2, adm.calls)
}

func TestTick_NilAdmissionIsOptional(t *testing.T) {
	reg := registry.New()
	r := New(reg, nil, time.Second, time.Hour, time.Hour, nil)
	assert.NotPanics(t, r.tick)
}
