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

import (
	"sync"
)

// pipeEnd is one side of an in-process full-duplex Pipe connection,
// grounded on libs/sequel/detail/pipe.cpp: a Pipe connects two LocalNodes
// in the same process (typically the local node's loopback "self"
// connection) without touching the kernel network stack.
type pipeEnd struct {
	mu      sync.Mutex
	state   State
	in      chan []byte
	out     chan []byte
	pending []byte
	ready   chan struct{}
}

// NewPipe returns the two connected ends of an in-process Pipe.
func NewPipe() (Connection, Connection) {
	a := make(chan []byte, 64)
	b := make(chan []byte, 64)
	left := &pipeEnd{state: Connected, in: a, out: b, ready: make(chan struct{}, 1)}
	right := &pipeEnd{state: Connected, in: b, out: a, ready: make(chan struct{}, 1)}
	return left, right
}

func (p *pipeEnd) Connect(Description) bool { return p.State() == Connected }
func (p *pipeEnd) Listen(Description) bool  { return false }
func (p *pipeEnd) AcceptNonBlocking()       {}
func (p *pipeEnd) AcceptSync() Connection   { return nil }

func (p *pipeEnd) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Closed {
		return
	}
	p.state = Closed
	close(p.out)
}

func (p *pipeEnd) ReadNonBlocking(buf []byte, size int) {
	go func() {
		chunk, ok := <-p.in
		p.mu.Lock()
		if ok {
			p.pending = chunk
		} else {
			p.pending = nil
		}
		p.mu.Unlock()
		select {
		case p.ready <- struct{}{}:
		default:
		}
	}()
}

func (p *pipeEnd) ReadSync(block bool) int {
	if block {
		chunk, ok := <-p.in
		if !ok {
			return 0
		}
		p.mu.Lock()
		p.pending = chunk
		p.mu.Unlock()
		return len(chunk)
	}
	select {
	case <-p.ready:
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.pending == nil {
			return 0
		}
		return len(p.pending)
	default:
		return ReadTimeout
	}
}

// LastRead returns the payload most recently completed by ReadSync,
// analogous to draining the caller-supplied buffer in a real syscall path.
func (p *pipeEnd) LastRead() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

func (p *pipeEnd) Write(buf []byte) (int, error) {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	p.mu.Lock()
	closed := p.state == Closed
	p.mu.Unlock()
	if closed {
		return 0, ErrNotSupported
	}
	p.out <- cp
	return len(cp), nil
}

func (p *pipeEnd) Notifier() Notifier { return p }
func (p *pipeEnd) Ready() <-chan struct{} { return p.ready }

func (p *pipeEnd) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

var _ Connection = (*pipeEnd)(nil)
