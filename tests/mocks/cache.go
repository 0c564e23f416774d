package mocks

import (
	"context"
	"encoding/json"
	"sync"

	sharedCache "github.com/davicafu/usermgmt/internal/shared/infra/platform/cache"
)

// DummyCache es un mock de caché en memoria, genérico y seguro para
// concurrencia. Almacena bytes (JSON) para imitar a Redis.
type DummyCache struct {
	store   map[string][]byte
	lastTTL int
	mu      sync.RWMutex
}

// Verificación estática
var _ sharedCache.Cache = (*DummyCache)(nil)

func NewDummyCache() *DummyCache {
	return &DummyCache{
		store: make(map[string][]byte),
	}
}

func (c *DummyCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.store[key]
	if !ok {
		return false, nil // cache miss
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DummyCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(val)
	if err != nil {
		return err
	}

	c.store[key] = data
	c.lastTTL = ttlSecs
	return nil
}

// LastTTL devuelve el TTL (en segundos) de la última escritura.
func (c *DummyCache) LastTTL() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastTTL
}

func (c *DummyCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// SetForTest inserta directamente un valor serializado, para simular hits.
func (c *DummyCache) SetForTest(key string, val interface{}) {
	data, _ := json.Marshal(val)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = data
}

// Contains indica si la clave está presente, sin deserializar.
func (c *DummyCache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.store[key]
	return ok
}

// StrictCache envuelve la DummyCache respetando la cancelación del
// contexto, igual que hace el cliente de Redis: toda operación sobre un
// contexto cancelado falla con ctx.Err().
type StrictCache struct {
	DummyCache
}

var _ sharedCache.Cache = (*StrictCache)(nil)

func NewStrictCache() *StrictCache {
	return &StrictCache{DummyCache: DummyCache{store: make(map[string][]byte)}}
}

func (c *StrictCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return c.DummyCache.Get(ctx, key, dest)
}

func (c *StrictCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.DummyCache.Set(ctx, key, val, ttlSecs)
}

func (c *StrictCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.DummyCache.Delete(ctx, key)
}
