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

// Package buffer provides the zero-copy, reference-counted byte container
// reused across the receive path, and the pool that recycles it.
package buffer

import "sync/atomic"

// MinSize is the smallest capacity a pooled Buffer is allocated with.
const MinSize = 256

// CacheSize is the largest capacity a Buffer may have and still be
// returned to its pool; larger buffers are discarded on release.
const CacheSize = 4096

// FreeListener is invoked exactly once, on the last release of a Buffer,
// so the owning pool can decide whether to recycle or discard it.
type FreeListener func(b *Buffer)

// Buffer is a heap-allocated byte vector with a strong reference count.
// The zero value is not usable; construct with New or a Pool.
type Buffer struct {
	data     []byte
	length   int
	refs     int32
	listener FreeListener
}

// New allocates a Buffer with the given capacity and an initial refcount
// of one. listener, if non-nil, is invoked instead of discarding the
// backing array when the last reference is released.
func New(capacity int, listener FreeListener) *Buffer {
	if capacity < MinSize {
		capacity = MinSize
	}
	return &Buffer{
		data:     make([]byte, capacity),
		length:   0,
		refs:     1,
		listener: listener,
	}
}

// Retain increments the strong reference count. Callers handing a Buffer
// to a second goroutine (e.g. a dispatched ICommand plus a pending-list
// entry) must Retain before the second use and Release when done.
func (b *Buffer) Retain() {
	atomic.AddInt32(&b.refs, 1)
}

// Release decrements the strong reference count. On the last release the
// listener is invoked with the buffer so its pool can recycle or discard
// it; the buffer must not be touched by the releasing goroutine afterward.
func (b *Buffer) Release() {
	if atomic.AddInt32(&b.refs, -1) == 0 {
		if b.listener != nil {
			b.listener(b)
		}
	}
}

// RefCount reports the current strong reference count; intended for tests
// and diagnostics only, never for control flow.
func (b *Buffer) RefCount() int32 {
	return atomic.LoadInt32(&b.refs)
}

// Bytes returns the logically-filled portion of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.length]
}

// Cap returns the buffer's allocated capacity.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// SetLength marks how much of the backing array is logically in use,
// growing the backing array if necessary.
func (b *Buffer) SetLength(n int) {
	if n > cap(b.data) {
		grown := make([]byte, n)
		copy(grown, b.data)
		b.data = grown
	} else if n > len(b.data) {
		b.data = b.data[:cap(b.data)]
	}
	b.length = n
}

// reset prepares a released buffer for reuse: logical length goes back to
// zero but the allocated capacity, and thus the amortized allocation, is
// retained, and the refcount is reset to one for the next acquirer.
func (b *Buffer) reset(listener FreeListener) {
	b.length = 0
	b.listener = listener
	atomic.StoreInt32(&b.refs, 1)
}
