package cache

import (
	"io"
	"time"
)

const refillTTL = time.Minute

// Layered reads memory first, then the backing cache, refilling memory on a
// L2 hit. Writes go through to both. Backing errors degrade to misses.
type Layered struct {
	mem     *TTLCache
	backing BytesCache
}

func NewLayered(backing BytesCache) *Layered {
	return &Layered{mem: NewTTLCache(), backing: backing}
}

func (l *Layered) GetBytes(key string) ([]byte, bool, error) {
	if b, ok, _ := l.mem.GetBytes(key); ok {
		return b, true, nil
	}
	b, ok, err := l.backing.GetBytes(key)
	if err != nil || !ok {
		return nil, false, err
	}
	// Remaining L2 TTL is unknown; cap the memory copy so it re-checks soon.
	_ = l.mem.SetBytes(key, b, refillTTL)
	return b, true, nil
}

func (l *Layered) SetBytes(key string, value []byte, ttl time.Duration) error {
	_ = l.mem.SetBytes(key, value, ttl)
	return l.backing.SetBytes(key, value, ttl)
}

// Close releases the backing cache when it holds a connection pool.
func (l *Layered) Close() error {
	if c, ok := l.backing.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
