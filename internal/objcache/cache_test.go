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

package objcache

import (
	"testing"
	"time"

	"github.com/eilecollage/collage/internal/wire"
)

func TestCacheStoreLoad(t *testing.T) {
	c := New(0)
	key := Key{Object: wire.GenerateID(), Version: wire.Concrete(1)}
	c.Store(key, []byte("payload"))

	got, ok := c.Load(key)
	if !ok || string(got) != "payload" {
		t.Fatalf("Load() = (%q, %v), want (\"payload\", true)", got, ok)
	}
}

func TestCacheDisabledShortCircuits(t *testing.T) {
	c := New(0)
	c.SetDisabled(true)
	key := Key{Object: wire.GenerateID(), Version: wire.Concrete(1)}
	c.Store(key, []byte("payload"))

	if _, ok := c.Load(key); ok {
		t.Fatalf("Load() should always miss while disabled")
	}
}

func TestCacheEvictsAtCapacity(t *testing.T) {
	c := New(1)
	obj := wire.GenerateID()
	k1 := Key{Object: obj, Version: wire.Concrete(1)}
	k2 := Key{Object: obj, Version: wire.Concrete(2)}

	c.Store(k1, []byte("a"))
	c.Store(k2, []byte("b"))

	if _, ok := c.Load(k1); ok {
		t.Fatalf("oldest entry should have been evicted at capacity 1")
	}
	if _, ok := c.Load(k2); !ok {
		t.Fatalf("newest entry should still be cached")
	}
}

func TestCacheOldestPicksLowestVersion(t *testing.T) {
	c := New(0)
	obj := wire.GenerateID()
	c.Store(Key{Object: obj, Version: wire.Concrete(5)}, []byte("a"))
	c.Store(Key{Object: obj, Version: wire.Concrete(2)}, []byte("b"))
	c.Store(Key{Object: obj, Version: wire.Concrete(9)}, []byte("c"))

	oldest, ok := c.Oldest(obj)
	if !ok || oldest.Low != 2 {
		t.Fatalf("Oldest() = (%v, %v), want (Concrete(2), true)", oldest, ok)
	}
}

func TestCacheExpireInstanceData(t *testing.T) {
	c := New(0)
	key := Key{Object: wire.GenerateID(), Version: wire.Concrete(1)}
	c.Store(key, []byte("payload"))

	time.Sleep(10 * time.Millisecond)
	c.ExpireInstanceData(time.Millisecond)

	if _, ok := c.Load(key); ok {
		t.Fatalf("entry older than the expiry age should have been evicted")
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", c.Len())
	}
}
