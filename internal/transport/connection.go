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

// Package transport implements the polymorphic Connection capability
// (component B of the design) plus the signalable Event connection
// (component H), out of scope items (SDP, Multicast) kept as named,
// unimplemented variants so the connection-description grammar round-trips.
package transport

import (
	"errors"
	"time"
)

// State is the connection lifecycle state machine.
type State int

const (
	Closed State = iota
	Connecting
	Listening
	Connected
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Connecting:
		return "connecting"
	case Listening:
		return "listening"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Scheme is the transport tag used in the CLI connection-description
// grammar "scheme://host:port".
type Scheme string

const (
	SchemeTCP   Scheme = "TCP"
	SchemeSDP   Scheme = "SDP"
	SchemePipe  Scheme = "PIPE"
	SchemeMCIP  Scheme = "MCIP"
	SchemeRSP   Scheme = "RSP"
	SchemeEvent Scheme = "EVENT"
)

// Description names where and how to reach a peer.
type Description struct {
	Scheme Scheme
	Host   string
	Port   uint16
}

// ReadError and ReadTimeout are the two negative sentinels ReadSync may
// return instead of a byte count.
const (
	ReadError   = -1
	ReadTimeout = -2
)

// ErrTimeoutWrite is returned by Write when the internal write timeout
// elapses before the payload is fully sent.
var ErrTimeoutWrite = errors.New("transport: write timeout")

// ErrNotSupported is returned for operations a variant does not provide:
// Write on an EventConnection, Write on a closed pipe end, and I/O on a
// TCPConnection with no established socket. SDP and Multicast exist only
// as Scheme names; no Connection type implements them.
var ErrNotSupported = errors.New("transport: not supported")

// Notifier becomes ready (readable) when a Connection has a completed
// non-blocking read, a pending accept, or an EOF waiting to be drained.
type Notifier interface {
	// Ready returns the channel the poller selects on.
	Ready() <-chan struct{}
}

// Connection is the capability interface every transport variant
// implements; consumed by the node's receiver/poll loop and never
// interpreted beyond this surface.
type Connection interface {
	// Connect actively establishes an outbound connection to desc.
	Connect(desc Description) bool

	// Listen begins accepting inbound connections described by desc.
	Listen(desc Description) bool

	// AcceptNonBlocking arms an accept and returns immediately; Notifier
	// becomes ready when a peer connection is available.
	AcceptNonBlocking()

	// AcceptSync completes a previously armed accept, returning the new
	// peer Connection, or nil if none is ready yet.
	AcceptSync() Connection

	// Close tears the connection down, unblocking any waiter with an error.
	Close()

	// ReadNonBlocking arms a read of up to size bytes into buf and
	// returns immediately; Notifier becomes ready on completion or EOF.
	ReadNonBlocking(buf []byte, size int)

	// ReadSync drains a completed non-blocking read (or performs a
	// blocking read if block is true), returning the byte count, 0 on
	// EOF, ReadError on unrecoverable failure, or ReadTimeout if the
	// read armed by ReadNonBlocking has not completed yet.
	ReadSync(block bool) int

	// Write sends buf synchronously from the caller's perspective, with
	// an internal timeout; it returns ErrTimeoutWrite on expiry.
	Write(buf []byte) (int, error)

	// Notifier returns the handle the poller waits on.
	Notifier() Notifier

	// State reports the current lifecycle state.
	State() State
}

// WriteTimeout is the deadline a TCPConnection sets on its socket before
// each Write, bounding how long the transport may take to accept the
// payload.
var WriteTimeout = 10 * time.Second

// ReconnectBackoff is the pause before the single speculative retry on an
// initial connect failure, kept as a sleep rather than the source's busy
// loop; see SPEC_FULL.md, Open Questions.
var ReconnectBackoff = 50 * time.Millisecond
