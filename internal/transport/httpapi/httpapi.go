// Package httpapi implements the HTTP surface: POST /create and the
// GET /ws upgrade, plus the shared error-response helpers and the
// identity resolution used by POST /create.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/GabinFqt/minesweeper-session-server/internal/admission"
	"github.com/GabinFqt/minesweeper-session-server/internal/board"
	"github.com/GabinFqt/minesweeper-session-server/internal/gamecore"
	"github.com/GabinFqt/minesweeper-session-server/internal/registry"
	"github.com/GabinFqt/minesweeper-session-server/internal/sessionloop"
)

const (
	defaultWidth  = 9
	defaultHeight = 9
	defaultBombs  = 10
)

// Handler holds the collaborators needed by the HTTP surface.
type Handler struct {
	registry  *registry.Registry
	admission *admission.Controller
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

// New builds a Handler. allowedOrigins gates the WebSocket upgrade's
// Origin header the same way rs/cors gates POST /create.
func New(reg *registry.Registry, adm *admission.Controller, allowedOrigins []string, logger *slog.Logger) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Handler{
		registry:  reg,
		admission: adm,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true // non-browser clients send no Origin header
				}
				return allowed[origin]
			},
		},
		logger: logger,
	}
}

// Mount registers the HTTP surface's routes on r.
func (h *Handler) Mount(r *mux.Router) {
	r.HandleFunc("/create", h.CreateGame).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/ws", h.Connect).Methods(http.MethodGet)
}

type createGameRequest struct {
	Width  *uint16 `json:"width"`
	Height *uint16 `json:"height"`
	Bombs  *uint16 `json:"bombs"`
}

type createGameResponse struct {
	ID string `json:"id"`
}

// CreateGame handles POST /create.
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	if !h.admission.Allow(id) {
		writeTooManyRequests(w, "rate limit exceeded")
		return
	}

	req := createGameRequest{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}
	}

	width := defaultWidth
	if req.Width != nil {
		width = int(*req.Width)
	}
	height := defaultHeight
	if req.Height != nil {
		height = int(*req.Height)
	}
	bombs := defaultBombs
	if req.Bombs != nil {
		bombs = int(*req.Bombs)
	}

	b, err := board.New(uint16(width), uint16(height), uint16(bombs), rand.New(rand.NewSource(rand.Int63())))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	game := gamecore.New(b)
	gameID, err := h.registry.Create(game)
	if err != nil {
		writeInternalServerError(w, "failed to create game")
		return
	}

	if h.logger != nil {
		h.logger.Info("game created", "game_id", gameID, "identity", id)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(createGameResponse{ID: gameID})
}

// Connect handles GET /ws?id=<id>, upgrading to a bidirectional message
// stream and attaching a subscriber to the named game.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("id")
	game, ok := h.registry.Get(gameID)
	if !ok {
		writeNotFound(w, "game not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Info("websocket upgrade failed", "error", err.Error())
		}
		return
	}

	sessionloop.Run(conn, game, h.logger)
}
