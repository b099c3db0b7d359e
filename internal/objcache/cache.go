/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package objcache is the per-node instance-data cache: unsolicited remote
// instance data is stored keyed by (ObjectID, Version) to accelerate
// subsequent maps. Grounded on nabbar/golib/cache (a generic, context-scoped,
// expiring key/value store): the same Store/Load/Expire shape over a map
// guarded by a single mutex, with the object-version key this domain needs
// in place of an arbitrary comparable key. There is no background expiry
// sweep; entries age out only when ExpireInstanceData is called.
package objcache

import (
	"sync"
	"time"

	"github.com/eilecollage/collage/internal/wire"
)

// Key identifies one cached instance snapshot.
type Key struct {
	Object  wire.ObjectID
	Version wire.Version
}

type entry struct {
	data    []byte
	stored  time.Time
}

// Cache is a thread-safe, optionally-disabled LRU-ish store of instance
// data. Expiry is driven by explicit ExpireInstanceData(age) calls rather
// than a per-item timer, so entries older than a caller-chosen threshold
// are evicted in one sweep instead of one timer per entry. LocalNode does
// not call ExpireInstanceData.
type Cache struct {
	mu       sync.RWMutex
	items    map[Key]entry
	order    []Key
	capacity int
	disabled bool
}

// New returns a Cache bounded to capacity entries (0 = unbounded).
func New(capacity int) *Cache {
	return &Cache{items: make(map[Key]entry), capacity: capacity}
}

// SetDisabled globally turns caching off; Store becomes a no-op and Load
// always misses.
func (c *Cache) SetDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = disabled
}

// Store records data for key, evicting the oldest entry if at capacity.
func (c *Cache) Store(key Key, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return
	}
	if _, exists := c.items[key]; !exists {
		if c.capacity > 0 && len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.items, oldest)
		}
		c.order = append(c.order, key)
	}
	c.items[key] = entry{data: data, stored: time.Now()}
}

// Load retrieves data for key, or reports a miss.
func (c *Cache) Load(key Key) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.disabled {
		return nil, false
	}
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return e.data, true
}

// Oldest returns the oldest still-cached version for an object, to
// satisfy VERSION_OLDEST map requests.
func (c *Cache) Oldest(object wire.ObjectID) (wire.Version, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var best *wire.Version
	for _, k := range c.order {
		if k.Object != object {
			continue
		}
		if best == nil || k.Version.Less(*best) {
			v := k.Version
			best = &v
		}
	}
	if best == nil {
		return wire.Version{}, false
	}
	return *best, true
}

// ExpireInstanceData evicts entries whose age exceeds the given duration.
func (c *Cache) ExpireInstanceData(age time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	kept := c.order[:0]
	for _, k := range c.order {
		if now.Sub(c.items[k].stored) > age {
			delete(c.items, k)
			continue
		}
		kept = append(kept, k)
	}
	c.order = kept
}

// Len reports the number of cached entries, for diagnostics and tests.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
