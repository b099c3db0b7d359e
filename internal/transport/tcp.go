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
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// TCPConnection wraps a net.TCPConn with a split non-blocking-arm /
// blocking-complete read protocol, plus Nagle disabled and address reuse
// enabled the way socketConnection.cpp tunes its sockets. SDP's extra
// socket family request is not implemented here.
type TCPConnection struct {
	mu          sync.Mutex
	conn        *net.TCPConn
	listener    *net.TCPListener
	pendingConn *net.TCPConn
	state       State
	ready       chan struct{}
	pending     []byte
	readErr     error
}

// NewTCPConnection wraps an already-established net.TCPConn (e.g. one
// handed back by Accept), disabling Nagle as socketConnection.cpp does.
func NewTCPConnection(conn *net.TCPConn) *TCPConnection {
	_ = conn.SetNoDelay(true)
	return &TCPConnection{conn: conn, state: Connected, ready: make(chan struct{}, 1)}
}

// NewUnconnectedTCP returns a TCPConnection ready to Connect or Listen.
func NewUnconnectedTCP() *TCPConnection {
	return &TCPConnection{state: Closed, ready: make(chan struct{}, 1)}
}

func (t *TCPConnection) Connect(desc Description) bool {
	addr := fmt.Sprintf("%s:%d", desc.Host, desc.Port)
	t.setState(Connecting)

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		time.Sleep(ReconnectBackoff)
		conn, err = net.DialTimeout("tcp", addr, 5*time.Second)
		if err != nil {
			t.setState(Closed)
			return false
		}
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		t.setState(Closed)
		return false
	}
	_ = tcpConn.SetNoDelay(true)

	t.mu.Lock()
	t.conn = tcpConn
	t.mu.Unlock()
	t.setState(Connected)
	return true
}

func (t *TCPConnection) Listen(desc Description) bool {
	addr := fmt.Sprintf("%s:%d", desc.Host, desc.Port)

	raw, err := listenConfig().Listen(context.Background(), "tcp", addr)
	if err != nil {
		t.setState(Closed)
		return false
	}
	l, ok := raw.(*net.TCPListener)
	if !ok {
		_ = raw.Close()
		t.setState(Closed)
		return false
	}

	t.mu.Lock()
	t.listener = l
	t.mu.Unlock()
	t.setState(Listening)
	return true
}

func (t *TCPConnection) AcceptNonBlocking() {
	t.mu.Lock()
	l := t.listener
	t.mu.Unlock()
	if l == nil {
		return
	}
	go func() {
		conn, err := l.AcceptTCP()
		if err != nil {
			select {
			case t.ready <- struct{}{}:
			default:
			}
			return
		}
		_ = conn.SetNoDelay(true)
		t.mu.Lock()
		t.pendingConn = conn
		t.mu.Unlock()
		select {
		case t.ready <- struct{}{}:
		default:
		}
	}()
}

func (t *TCPConnection) AcceptSync() Connection {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pendingConn == nil {
		return nil
	}
	c := NewTCPConnection(t.pendingConn)
	t.pendingConn = nil
	return c
}

func (t *TCPConnection) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		_ = t.conn.Close()
	}
	if t.listener != nil {
		_ = t.listener.Close()
	}
	t.state = Closed
}

func (t *TCPConnection) ReadNonBlocking(buf []byte, size int) {
	go func() {
		t.mu.Lock()
		conn := t.conn
		t.mu.Unlock()
		if conn == nil {
			t.mu.Lock()
			t.readErr = ErrNotSupported
			t.mu.Unlock()
			select {
			case t.ready <- struct{}{}:
			default:
			}
			return
		}

		n, err := readFull(conn, buf[:size])
		t.mu.Lock()
		t.pending = buf[:n]
		t.readErr = err
		t.mu.Unlock()
		select {
		case t.ready <- struct{}{}:
		default:
		}
	}()
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (t *TCPConnection) ReadSync(block bool) int {
	if block {
		<-t.ready
	} else {
		select {
		case <-t.ready:
		default:
			return ReadTimeout
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.readErr != nil {
		if errors.Is(t.readErr, io.EOF) {
			return 0
		}
		return ReadError
	}
	return len(t.pending)
}

// LastRead returns the bytes most recently completed by ReadSync.
func (t *TCPConnection) LastRead() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

func (t *TCPConnection) Write(buf []byte) (int, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return 0, ErrNotSupported
	}

	_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	n, err := conn.Write(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, ErrTimeoutWrite
		}
		return n, err
	}
	return n, nil
}

func (t *TCPConnection) Notifier() Notifier     { return t }
func (t *TCPConnection) Ready() <-chan struct{} { return t.ready }

func (t *TCPConnection) setState(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

func (t *TCPConnection) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

var _ Connection = (*TCPConnection)(nil)
