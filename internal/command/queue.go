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

package command

import "sync"

// Queue is a thread-safe FIFO with a blocking Pop, consumed by a single
// caller-owned worker goroutine per attached object (component D). It is
// backed by a slice plus condition variable rather than a Go channel so
// that Flush can force a re-examination pass without a fabricated message.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []*Command
	closed  bool
	flushed bool
}

// NewQueue returns an empty, open Queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a Command to the tail of the queue and wakes one waiter.
func (q *Queue) Push(c *Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		c.Release()
		return
	}
	q.items = append(q.items, c)
	q.cond.Signal()
}

// Pop blocks until a Command is available or the queue is closed, in
// which case it returns (nil, false). FIFO order is preserved per
// connection.
func (q *Queue) Pop() (*Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 && q.closed {
		return nil, false
	}
	c := q.items[0]
	q.items = q.items[1:]
	return c, true
}

// Flush marks the queue for redispatch and broadcasts on the queue's
// condition variable. Pop does not return on a flush alone: a consumer
// blocked in Pop goes back to waiting until a Command is pushed or the
// queue is closed. A consumer reads the mark with TakeFlush.
func (q *Queue) Flush() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.flushed = true
	q.cond.Broadcast()
}

// TakeFlush reports and clears whether Flush was called since the last
// TakeFlush.
func (q *Queue) TakeFlush() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	f := q.flushed
	q.flushed = false
	return f
}

// Len reports the current queue depth, used for diagnostics/metrics.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed and wakes every blocked Pop; any Commands
// still queued are released rather than delivered.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	for _, c := range q.items {
		c.Release()
	}
	q.items = nil
	q.cond.Broadcast()
}
