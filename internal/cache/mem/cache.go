// Package mem keeps the latest replayed rating table in memory.
package mem

import (
	"sync"

	"glickoserver/internal/domain"
	"glickoserver/internal/normalize"
)

// Cache holds the players of the last rating replay, ordered by rank,
// with a case insensitive name index on top. Any write through the
// service invalidates it until the next replay.
type Cache struct {
	mu      sync.RWMutex
	valid   bool
	ordered []domain.Player
	byName  map[string]domain.Player
}

func New() *Cache {
	return &Cache{
		byName: make(map[string]domain.Player),
	}
}

// Update replaces the cached table. Players must already be ordered by
// rank.
func (c *Cache) Update(players []domain.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ordered = append([]domain.Player(nil), players...)
	c.byName = make(map[string]domain.Player, len(players))
	for _, p := range players {
		c.byName[normalize.Name(p.Name)] = p
	}
	c.valid = true
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
}

func (c *Cache) Valid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.valid
}

func (c *Cache) GetPlayerByName(name string) (domain.Player, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	player, ok := c.byName[normalize.Name(name)]
	return player, ok
}

// GetRatings returns a copy of the cached table, callers are free to
// reslice it.
func (c *Cache) GetRatings() []domain.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]domain.Player(nil), c.ordered...)
}
