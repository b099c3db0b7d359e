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

package barrier

import (
	"sync"
	"time"
)

// Monitor is a wait-for-equal counter used to park a caller until some
// other goroutine advances a shared count to a target value, adapted from
// the wait/signal pattern in nabbar/golib/semaphore/sem (a channel-backed
// counting primitive) since the corpus carries no direct generic "monitor"
// type. A waiter blocks on a broadcast channel that is closed and replaced
// on every change, rather than on sync.Cond, so a bounded wait can select
// it against a timer without the cross-goroutine Cond.Wait pitfalls that
// design invites. WaitEQ/TimedWaitEQ never unwind via panic or exception —
// every blocking path returns a plain bool.
type Monitor struct {
	mu      sync.Mutex
	value   uint32
	changed chan struct{}
}

// NewMonitor returns a Monitor initialized to zero.
func NewMonitor() *Monitor {
	return &Monitor{changed: make(chan struct{})}
}

// Get reads the current value.
func (m *Monitor) Get() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// Set overwrites the value directly, used when (re)attaching a barrier
// instance (getInstanceData/applyInstanceData reset leaveNotify to 0).
func (m *Monitor) Set(v uint32) {
	m.mu.Lock()
	m.value = v
	ch := m.changed
	m.changed = make(chan struct{})
	m.mu.Unlock()
	close(ch)
}

// Increment advances the value by one and wakes every waiter; this is how
// both a local unlock and a received BarrierEnterReply signal completion.
func (m *Monitor) Increment() {
	m.mu.Lock()
	m.value++
	ch := m.changed
	m.changed = make(chan struct{})
	m.mu.Unlock()
	close(ch)
}

// WaitEQ blocks indefinitely until the value equals target.
func (m *Monitor) WaitEQ(target uint32) {
	for {
		m.mu.Lock()
		if m.value == target {
			m.mu.Unlock()
			return
		}
		ch := m.changed
		m.mu.Unlock()
		<-ch
	}
}

// TimedWaitEQ blocks until the value equals target or timeout elapses,
// returning false on timeout. A false return does not mean completion can
// never happen: a reply may still arrive later and simply advance the
// counter past a value the caller has already moved on from, which the
// caller treats as harmless rather than an error.
func (m *Monitor) TimedWaitEQ(target uint32, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		m.mu.Lock()
		if m.value == target {
			m.mu.Unlock()
			return true
		}
		ch := m.changed
		m.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return m.Get() == target
		}
		timer := time.NewTimer(remaining)
		select {
		case <-ch:
			timer.Stop()
		case <-timer.C:
			return m.Get() == target
		}
	}
}
