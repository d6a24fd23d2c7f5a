// Package registry implements the process-wide concurrent mapping from
// game id to Game handle. It is sharded so unrelated games never contend
// on the same lock.
package registry

import (
	"hash/fnv"
	"sync"

	"github.com/GabinFqt/minesweeper-session-server/internal/gamecore"
	"github.com/GabinFqt/minesweeper-session-server/internal/idgen"
)

const shardCount = 16

type shard struct {
	mu    sync.RWMutex
	games map[string]*gamecore.Game
}

// Registry is a sharded, concurrency-safe id -> *gamecore.Game map.
type Registry struct {
	shards [shardCount]*shard
}

// New builds an empty Registry.
func New() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &shard{games: make(map[string]*gamecore.Game)}
	}
	return r
}

func (r *Registry) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return r.shards[h.Sum32()%shardCount]
}

// Create mints a fresh unguessable id, installs game under it (reselecting
// on the vanishingly unlikely collision), and returns the id.
func (r *Registry) Create(game *gamecore.Game) (string, error) {
	for {
		id, err := idgen.GameID()
		if err != nil {
			return "", err
		}
		s := r.shardFor(id)
		s.mu.Lock()
		if _, exists := s.games[id]; exists {
			s.mu.Unlock()
			continue
		}
		s.games[id] = game
		s.mu.Unlock()
		return id, nil
	}
}

// Get returns the handle registered under id, if any.
func (r *Registry) Get(id string) (*gamecore.Game, bool) {
	s := r.shardFor(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	return g, ok
}

// Remove drops id from the registry. In-flight holders of the handle
// continue operating on it until they release it.
func (r *Registry) Remove(id string) {
	s := r.shardFor(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// Ids returns a snapshot of every currently-registered game id.
func (r *Registry) Ids() []string {
	var out []string
	for _, s := range r.shards {
		s.mu.RLock()
		for id := range s.games {
			out = append(out, id)
		}
		s.mu.RUnlock()
	}
	return out
}
