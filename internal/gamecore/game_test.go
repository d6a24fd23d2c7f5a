package gamecore

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabinFqt/minesweeper-session-server/internal/board"
)

type fakeSink struct {
	frames [][]byte
	accept bool
	// acceptAfter, if > 0, lets through the first acceptAfter sends
	// regardless of accept, then falls back to accept for the rest —
	// used to let a subscriber receive its initial Init frame before
	// simulating an overflow on a later broadcast.
	acceptAfter int
}

func (f *fakeSink) TrySend(frame []byte) bool {
	if f.acceptAfter > 0 {
		f.acceptAfter--
		f.frames = append(f.frames, frame)
		return true
	}
	if !f.accept {
		return false
	}
	f.frames = append(f.frames, frame)
	return true
}

func newGame(t *testing.T, w, h, bombs uint16) *Game {
	t.Helper()
	b, err := board.New(w, h, bombs, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return New(b)
}

func TestAttach_SendsInitFrame(t *testing.T) {
	g := newGame(t, 2, 2, 0)
	sink := &fakeSink{accept: true}

	id := g.Attach(sink)
	assert.NotEmpty(t, id)
	require.Len(t, sink.frames, 1)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(sink.frames[0], &decoded))
	assert.Equal(t, "init", decoded["type"])
}

func TestApply_RevealBroadcastsUpdate(t *testing.T) {
	g := newGame(t, 2, 2, 0)
	sink := &fakeSink{accept: true}
	g.Attach(sink)

	g.Apply(Action{Kind: ActionReveal, Pos: board.Position{X: 0, Y: 0}})
	require.Len(t, sink.frames, 2) // init + update

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(sink.frames[1], &decoded))
	assert.Equal(t, "update", decoded["type"])
	assert.Equal(t, true, decoded["won"])
	assert.Equal(t, false, decoded["lost"])
}

func TestApply_RestartBroadcastsFreshInit(t *testing.T) {
	g := newGame(t, 3, 3, 2)
	sink := &fakeSink{accept: true}
	g.Attach(sink)

	g.Apply(Action{Kind: ActionRestart})
	require.Len(t, sink.frames, 2)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(sink.frames[1], &decoded))
	assert.Equal(t, "init", decoded["type"])
}

func TestOverflow_DetachesSlowSubscriberOthersUnaffected(t *testing.T) {
	g := newGame(t, 2, 2, 0)
	slow := &fakeSink{accept: false, acceptAfter: 1}
	fast := &fakeSink{accept: true}

	g.Attach(slow)
	g.Attach(fast)
	assert.Equal(t, 2, g.SubscriberCount())

	g.Apply(Action{Kind: ActionReveal, Pos: board.Position{X: 0, Y: 0}})

	// slow was detached on its failed enqueue; fast kept receiving.
	assert.Equal(t, 1, g.SubscriberCount())
	assert.True(t, len(fast.frames) >= 2)
}

func TestDetach_Idempotent(t *testing.T) {
	g := newGame(t, 2, 2, 0)
	sink := &fakeSink{accept: true}
	id := g.Attach(sink)

	g.Detach(id)
	g.Detach(id) // no panic
	assert.Equal(t, 0, g.SubscriberCount())
}

func TestIsIdle(t *testing.T) {
	g := newGame(t, 2, 2, 0)
	now := time.Now()

	// No subscribers: idle uses the empty threshold.
	assert.False(t, g.IsIdle(now, time.Hour, time.Hour))
	future := now.Add(2 * time.Hour)
	assert.True(t, g.IsIdle(future, time.Hour, time.Hour))

	sink := &fakeSink{accept: true}
	g.Attach(sink)
	assert.False(t, g.IsIdle(time.Now(), time.Hour, 0))
}
