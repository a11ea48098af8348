// Package playerkeys caches the per-viewer encryption keys registered
// out of band. The engine looks keys up by the opaque player identity
// when it materializes encrypted hole cards.
package playerkeys

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

const defaultCacheSize = 100000

type Cache struct {
	keys *lru.Cache
}

func NewCache() (*Cache, error) {
	keys, err := lru.New(defaultCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize player key cache")
	}
	return &Cache{keys: keys}, nil
}

// Register stores a viewer key for a player identity. The key must be a
// uuid string; anything else is rejected before it is stored.
func (c *Cache) Register(playerHash string, playerKey string) error {
	if playerHash == "" {
		return errors.New("missing playerHash")
	}
	key, err := uuid.Parse(playerKey)
	if err != nil {
		return errors.Wrap(err, "player key must be a uuid")
	}
	c.keys.Add(playerHash, key)
	return nil
}

func (c *Cache) Get(playerHash string) (uuid.UUID, bool) {
	v, exists := c.keys.Get(playerHash)
	if !exists {
		return uuid.UUID{}, false
	}
	return v.(uuid.UUID), true
}
