package registry

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabinFqt/minesweeper-session-server/internal/board"
	"github.com/GabinFqt/minesweeper-session-server/internal/gamecore"
)

func newTestGame(t *testing.T) *gamecore.Game {
	t.Helper()
	b, err := board.New(3, 3, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return gamecore.New(b)
}

func TestCreateGetRemove(t *testing.T) {
	r := New()
	g := newTestGame(t)

	id, err := r.Create(g)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Same(t, g, got)

	r.Remove(id)
	_, ok = r.Get(id)
	assert.False(t, ok)
}

func TestGet_UnknownID(t *testing.T) {
	r := New()
	_, ok := r.Get("does-not-exist")
	assert.False(t, ok)
}

func TestIds_ReflectsCreatedGames(t *testing.T) {
	r := New()
	ids := map[string]bool{}
	for i := 0; i < 5; i++ {
		id, err := r.Create(newTestGame(t))
		require.NoError(t, err)
		ids[id] = true
	}

	for _, id := range r.Ids() {
		assert.True(t, ids[id])
	}
	assert.Len(t, r.Ids(), 5)
}
