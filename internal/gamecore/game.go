// Package gamecore implements the per-game broadcast fabric: a Board plus
// its attached subscriber sinks and activity clock, with mutations and
// fan-out serialized under one mutex so every subscriber observes the
// same totally-ordered sequence of frames.
package gamecore

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/GabinFqt/minesweeper-session-server/internal/board"
	"github.com/GabinFqt/minesweeper-session-server/internal/idgen"
	"github.com/GabinFqt/minesweeper-session-server/internal/wire"
)

// Sink is a write-only, non-blocking outbound queue for one subscriber.
// TrySend must never block; it returns false if the frame could not be
// enqueued (full buffer, closed transport), at which point the caller is
// detached.
type Sink interface {
	TrySend(frame []byte) bool
}

// ActionKind discriminates the three mutating operations a client can
// request.
type ActionKind int

const (
	ActionReveal ActionKind = iota
	ActionFlag
	ActionRestart
)

// Action is one inbound client request to apply against a Game's board.
type Action struct {
	Kind ActionKind
	Pos  board.Position
}

// Game wraps a Board, its attached subscriber sinks, and a monotonic
// last-activity clock. All three fields are serialized by mu.
type Game struct {
	mu sync.Mutex

	board        *board.Board
	subscribers  map[string]Sink
	lastActivity time.Time
}

// New wraps b in a fresh Game with no attached subscribers.
func New(b *board.Board) *Game {
	return &Game{
		board:        b,
		subscribers:  make(map[string]Sink),
		lastActivity: time.Now(),
	}
}

// Attach registers sink, bumps last-activity, and synchronously enqueues
// an Init frame carrying the full public projection of the board. Returns
// the minted subscriber id.
func (g *Game) Attach(sink Sink) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := idgen.SubscriberID()
	g.subscribers[id] = sink
	g.lastActivity = time.Now()

	frame := wire.NewInitFrame(g.board.Width, g.board.Height, g.board.BombCount, g.board.Snapshot())
	g.sendLocked(id, frame)

	return id
}

// Detach removes a subscriber's sink. Idempotent.
func (g *Game) Detach(subscriberID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.subscribers, subscriberID)
}

// Apply dispatches action to the board and broadcasts the resulting
// Init/Update frame to every attached subscriber. Illegal-but-safe actions
// (reveal on a revealed cell, any action after the game ended, etc.) are
// absorbed as a no-op by the board itself; Apply never errors.
func (g *Game) Apply(action Action) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.lastActivity = time.Now()

	switch action.Kind {
	case ActionRestart:
		g.board.Restart()
		frame := wire.NewInitFrame(g.board.Width, g.board.Height, g.board.BombCount, g.board.Snapshot())
		g.broadcastLocked(frame)

	case ActionReveal:
		changes := g.board.Reveal(action.Pos)
		frame := wire.NewUpdateFrame(changes, g.board.Won, g.board.Lost)
		g.broadcastLocked(frame)

	case ActionFlag:
		change, ok := g.board.Flag(action.Pos)
		var changes []board.Change
		if ok {
			changes = []board.Change{change}
		}
		frame := wire.NewUpdateFrame(changes, g.board.Won, g.board.Lost)
		g.broadcastLocked(frame)
	}
}

// IsIdle reports whether this Game should be reclaimed: no subscribers and
// idle at least thresholdEmpty, or subscribers attached but silent for at
// least thresholdConnected.
func (g *Game) IsIdle(now time.Time, thresholdConnected, thresholdEmpty time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	idleFor := now.Sub(g.lastActivity)
	if len(g.subscribers) == 0 {
		return idleFor >= thresholdEmpty
	}
	return idleFor >= thresholdConnected
}

// SubscriberCount returns the number of attached subscribers.
func (g *Game) SubscriberCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subscribers)
}

// broadcastLocked marshals frame once and try-sends it to every attached
// subscriber, detaching any whose sink overflows. Callers must hold mu.
func (g *Game) broadcastLocked(frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	for id := range g.subscribers {
		g.sendLocked(id, data)
	}
}

// sendLocked marshals frame (if not already []byte) and try-sends to one
// subscriber, detaching it on overflow. Callers must hold mu.
func (g *Game) sendLocked(id string, frame interface{}) {
	var data []byte
	switch v := frame.(type) {
	case []byte:
		data = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return
		}
		data = encoded
	}

	sink, ok := g.subscribers[id]
	if !ok {
		return
	}
	if !sink.TrySend(data) {
		delete(g.subscribers, id)
	}
}
