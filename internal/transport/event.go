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

package transport

import "sync"

// EventConnection is the in-process signalable connection of component H,
// grounded on co/eventConnection.h: set() arms the notifier, reset()
// clears it, a single read drains one sentinel byte. The local node uses
// it to wake its receiver goroutine out of a poll when the connection set
// must be re-examined.
type EventConnection struct {
	mu    sync.Mutex
	ready chan struct{}
	set   bool
	state State
}

// NewEventConnection returns an unset EventConnection in the Connected
// state, ready to be added to a poll set.
func NewEventConnection() *EventConnection {
	return &EventConnection{ready: make(chan struct{}, 1), state: Connected}
}

// Set arms the notifier; idempotent if already set.
func (e *EventConnection) Set() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.set {
		e.set = true
		select {
		case e.ready <- struct{}{}:
		default:
		}
	}
}

// Reset clears the notifier.
func (e *EventConnection) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.set = false
	select {
	case <-e.ready:
	default:
	}
}

// Connect, Listen, AcceptNonBlocking, AcceptSync are no-ops: an event
// connection is always in-process and never dialed or accepted.
func (e *EventConnection) Connect(Description) bool     { return false }
func (e *EventConnection) Listen(Description) bool       { return false }
func (e *EventConnection) AcceptNonBlocking()             {}
func (e *EventConnection) AcceptSync() Connection         { return nil }

// Close marks the event Closed. It leaves the notifier as it is, and a
// later Set still arms it.
func (e *EventConnection) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Closed
}

// ReadNonBlocking is a no-op; readiness is reported purely via Notifier.
func (e *EventConnection) ReadNonBlocking(buf []byte, size int) {}

// ReadSync yields a single sentinel byte once Set has been called, and
// clears the notifier as part of the read (matching "read returns
// immediately after a set and yields a single sentinel byte").
func (e *EventConnection) ReadSync(block bool) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.set {
		if block {
			return ReadTimeout
		}
		return ReadTimeout
	}
	e.set = false
	select {
	case <-e.ready:
	default:
	}
	return 1
}

// Write is unsupported on an event connection; it carries no payload.
func (e *EventConnection) Write(buf []byte) (int, error) {
	return 0, ErrNotSupported
}

// Notifier exposes the channel the poller selects on.
func (e *EventConnection) Notifier() Notifier {
	return e
}

// Ready implements Notifier.
func (e *EventConnection) Ready() <-chan struct{} {
	return e.ready
}

// State reports the lifecycle state.
func (e *EventConnection) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

var _ Connection = (*EventConnection)(nil)
