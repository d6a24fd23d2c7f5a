// Package sessionloop is the per-connection driver: it dispatches inbound
// client messages into the owning Game and pumps outbound frames to the
// transport. It terminates when the transport closes; there is no
// separate cancellation signal.
package sessionloop

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GabinFqt/minesweeper-session-server/internal/gamecore"
	"github.com/GabinFqt/minesweeper-session-server/internal/wire"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 10 * time.Second
	sendBuffer = 256
)

// Sink is the gamecore.Sink implementation backing one live connection: a
// bounded, non-blocking outbound queue.
type Sink struct {
	send      chan []byte
	closeOnce sync.Once
}

// NewSink builds a Sink with the given bounded buffer.
func NewSink(buffer int) *Sink {
	return &Sink{send: make(chan []byte, buffer)}
}

// TrySend implements gamecore.Sink: a non-blocking enqueue.
func (s *Sink) TrySend(frame []byte) bool {
	select {
	case s.send <- frame:
		return true
	default:
		return false
	}
}

// Close shuts the sink down; safe to call more than once.
func (s *Sink) Close() {
	s.closeOnce.Do(func() { close(s.send) })
}

// Run attaches a new subscriber to game and drives the connection until
// it closes: reading inbound frames and applying them, and writing
// outbound frames from the subscriber's sink. Run blocks until the
// connection is done.
func Run(conn *websocket.Conn, game *gamecore.Game, logger *slog.Logger) {
	sink := NewSink(sendBuffer)
	subscriberID := game.Attach(sink)

	writerDone := make(chan struct{})
	go runWritePump(conn, sink, writerDone, subscriberID, logger)

	readPump(conn, game, subscriberID, logger)

	game.Detach(subscriberID)
	sink.Close()
	<-writerDone
	_ = conn.Close()
}

// readPump decodes inbound client frames and applies them to game until
// the transport closes or a read fails. A frame that cannot be decoded as
// a recognized client message is silently ignored, not fatal, per the
// wire protocol.
func readPump(conn *websocket.Conn, game *gamecore.Game, subscriberID string, logger *slog.Logger) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if logger != nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Info("session read error", "subscriber_id", subscriberID, "error", err.Error())
			}
			return
		}

		var msg wire.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue // unrecognized messages are ignored, not fatal
		}

		action, ok := toAction(msg)
		if !ok {
			continue
		}
		game.Apply(action)
	}
}

func toAction(msg wire.ClientMessage) (gamecore.Action, bool) {
	switch msg.Action {
	case wire.ActionReveal:
		return gamecore.Action{Kind: gamecore.ActionReveal, Pos: msg.Pos.ToBoardPosition()}, true
	case wire.ActionFlag:
		return gamecore.Action{Kind: gamecore.ActionFlag, Pos: msg.Pos.ToBoardPosition()}, true
	case wire.ActionRestart:
		return gamecore.Action{Kind: gamecore.ActionRestart}, true
	default:
		return gamecore.Action{}, false
	}
}

// runWritePump runs writePump guarded by a recover(): it is the body of its
// own goroutine, outside the net/http request goroutine the transport
// recovery middleware guards, so a panic here must be caught locally or it
// takes the whole process down. writePump's own deferred cleanup closes
// done on any return path, including mid-panic unwinding, so this recover
// only needs to log — closing done again here would panic on an
// already-closed channel.
func runWritePump(conn *websocket.Conn, sink *Sink, done chan struct{}, subscriberID string, logger *slog.Logger) {
	defer func() {
		if rec := recover(); rec != nil && logger != nil {
			logger.Error("recovered panic in write pump", "subscriber_id", subscriberID, "panic", rec)
		}
	}()
	writePump(conn, sink, done)
}

// writePump pumps frames from sink to the transport, batching any frames
// that queued up since the last write, and keeps the connection alive
// with periodic pings. It returns when sink is closed or a write fails.
func writePump(conn *websocket.Conn, sink *Sink, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(done)
	}()

	for {
		select {
		case frame, ok := <-sink.send:
			if !flushFrame(conn, sink, frame, ok) {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// flushFrame writes one frame plus any others that queued up behind it,
// newline-delimited in a single WebSocket message, so a burst of broadcasts
// costs one frame instead of one write syscall per update. It reports
// whether the pump should keep running.
func flushFrame(conn *websocket.Conn, sink *Sink, frame []byte, ok bool) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if !ok {
		_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
		return false
	}

	w, err := conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return false
	}
	_, _ = w.Write(frame)

	queued := len(sink.send)
	for i := 0; i < queued; i++ {
		_, _ = w.Write([]byte{'\n'})
		_, _ = w.Write(<-sink.send)
	}

	return w.Close() == nil
}
