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

package buffer

import "sync"

// Pool is a LIFO free list of Buffers, guarded by a mutex for cross-thread
// use by the node's receiver goroutine and any application goroutine that
// releases a buffer. Grounded on nabbar/golib's pooled-collection idiom in
// errors/pool (a generic, thread-safe pool of reusable entries).
type Pool struct {
	mu   sync.Mutex
	free []*Buffer
}

// NewPool returns an empty buffer pool.
func NewPool() *Pool {
	return &Pool{free: make([]*Buffer, 0, 16)}
}

// Alloc pops a Buffer from the free list, resizing it to fit capacity, or
// constructs a fresh one if the pool is empty.
func (p *Pool) Alloc(capacity int) *Buffer {
	p.mu.Lock()
	n := len(p.free)
	if n == 0 {
		p.mu.Unlock()
		return New(capacity, p.release)
	}
	b := p.free[n-1]
	p.free = p.free[:n-1]
	p.mu.Unlock()

	if capacity > b.Cap() {
		b.data = make([]byte, capacity)
	}
	b.reset(p.release)
	return b
}

// release is the FreeListener installed on every buffer this pool hands
// out: buffers within CacheSize are pushed back onto the free list,
// larger ones are dropped so the pool does not retain oversized payloads.
func (p *Pool) release(b *Buffer) {
	if b.Cap() > CacheSize {
		return
	}
	p.mu.Lock()
	p.free = append(p.free, b)
	p.mu.Unlock()
}

// Len reports the number of buffers currently cached, for tests.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
