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

// Package node implements the peer lifecycle: handshake, send-token flow
// control, keep-alive, and the two-goroutine receive/dispatch pipeline
// that sits on top of a transport.Connection. Grounded on co/localNode.h's
// connectSync/connect/close state machine, adapted to Go's goroutine and
// channel idiom rather than the original's thread-plus-condvar pairing.
package node

import (
	"sync"
	"time"

	"github.com/eilecollage/collage/internal/command"
	"github.com/eilecollage/collage/internal/logging"
	"github.com/eilecollage/collage/internal/transport"
	"github.com/eilecollage/collage/internal/wire"
)

// PeerState tracks one remote node's handshake progress.
type PeerState int

const (
	PeerConnecting PeerState = iota
	PeerHandshaking
	PeerConnected
	PeerClosed
)

func (s PeerState) String() string {
	switch s {
	case PeerConnecting:
		return "connecting"
	case PeerHandshaking:
		return "handshaking"
	case PeerConnected:
		return "connected"
	case PeerClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// KeepAliveInterval bounds how often the command loop runs
// LocalNode.pingIdlePeers, which closes and drops peers that have not sent
// anything within KeepAliveTimeout; no ping is sent.
var KeepAliveInterval = 2 * time.Second

// KeepAliveTimeout is how long a peer may stay silent before it is
// considered lost and closed.
var KeepAliveTimeout = 10 * time.Second

// Peer is one remote node's session state as seen from this LocalNode:
// its connection, its outbound command queue, send-token flow control and
// last-seen timestamp for keep-alive.
type Peer struct {
	mu       sync.Mutex
	ID       wire.NodeID
	conn     transport.Connection
	state    PeerState
	lastSeen time.Time

	tokens    chan struct{}
	tokenCap  int
	outbound  *command.Queue

	log logging.Logger
}

// NewPeer wraps conn as a tracked peer with tokenCap outstanding sends
// permitted before AcquireSendToken blocks, matching the send-token FIFO
// that bounds how far a fast sender can get ahead of a slow receiver.
func NewPeer(id wire.NodeID, conn transport.Connection, tokenCap int, log logging.Logger) *Peer {
	p := &Peer{
		ID:       id,
		conn:     conn,
		state:    PeerConnecting,
		lastSeen: time.Now(),
		tokens:   make(chan struct{}, tokenCap),
		tokenCap: tokenCap,
		outbound: command.NewQueue(),
		log:      log.With(logging.Fields{"peer": id.String()}),
	}
	for i := 0; i < tokenCap; i++ {
		p.tokens <- struct{}{}
	}
	return p
}

// State reports the peer's current handshake/session state.
func (p *Peer) State() PeerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Peer) setState(s PeerState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Touch records that a frame was just received from this peer, resetting
// the keep-alive clock.
func (p *Peer) Touch() {
	p.mu.Lock()
	p.lastSeen = time.Now()
	p.mu.Unlock()
}

// Idle reports whether this peer has been silent longer than timeout.
func (p *Peer) Idle(timeout time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.lastSeen) > timeout
}

// AcquireSendToken blocks until a send slot is available or timeout
// elapses, returning false on timeout. Every successful send must be
// matched by exactly one ReleaseSendToken once the peer acknowledges it
// (or the send fails and the slot is abandoned).
func (p *Peer) AcquireSendToken(timeout time.Duration) bool {
	if timeout <= 0 {
		select {
		case <-p.tokens:
			return true
		default:
			return false
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-p.tokens:
		return true
	case <-timer.C:
		return false
	}
}

// ReleaseSendToken returns one send slot to the pool.
func (p *Peer) ReleaseSendToken() {
	select {
	case p.tokens <- struct{}{}:
	default:
		// Pool is already full; a double-release would otherwise grow it
		// past tokenCap and is a caller bug, so it is silently dropped
		// rather than panicking a long-lived peer goroutine.
	}
}

// Send writes a framed payload to the peer's connection, waiting for a
// send token first.
func (p *Peer) Send(frame []byte, timeout time.Duration) error {
	if !p.AcquireSendToken(timeout) {
		return transport.ErrTimeoutWrite
	}
	_, err := p.conn.Write(frame)
	p.ReleaseSendToken()
	return err
}

// Close tears down the peer's connection and outbound queue.
func (p *Peer) Close() {
	p.setState(PeerClosed)
	p.conn.Close()
	p.outbound.Close()
}
