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

import (
	"testing"
	"time"

	"github.com/eilecollage/collage/internal/buffer"
	"github.com/eilecollage/collage/internal/wire"
)

func newTestCommand(t *testing.T, id uint32) *Command {
	t.Helper()
	w := wire.NewWriter()
	payload := w.Bytes()
	frame := make([]byte, wire.FrameHeaderFields+len(payload))
	wire.PutHeader(frame, uint64(len(frame)), wire.TypeNode, id)
	buf := buffer.New(len(frame), nil)
	buf.SetLength(len(frame))
	copy(buf.Bytes(), frame)
	cmd, err := FromBuffer(buf, wire.GenerateID())
	if err != nil {
		t.Fatalf("FromBuffer: %v", err)
	}
	return cmd
}

func TestQueueFIFOOrder(t *testing.T) {
	q := NewQueue()
	q.Push(newTestCommand(t, 1))
	q.Push(newTestCommand(t, 2))

	first, ok := q.Pop()
	if !ok || first.CommandID() != 1 {
		t.Fatalf("first Pop() = (%d, %v), want (1, true)", first.CommandID(), ok)
	}
	first.Release()

	second, ok := q.Pop()
	if !ok || second.CommandID() != 2 {
		t.Fatalf("second Pop() = (%d, %v), want (2, true)", second.CommandID(), ok)
	}
	second.Release()
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	q := NewQueue()
	done := make(chan *Command, 1)
	go func() {
		c, _ := q.Pop()
		done <- c
	}()

	select {
	case <-done:
		t.Fatalf("Pop returned before any Push")
	case <-time.After(20 * time.Millisecond):
	}

	q.Push(newTestCommand(t, 5))
	select {
	case c := <-done:
		if c.CommandID() != 5 {
			t.Fatalf("CommandID() = %d, want 5", c.CommandID())
		}
		c.Release()
	case <-time.After(time.Second):
		t.Fatalf("Pop did not unblock after Push")
	}
}

func TestQueueCloseReleasesQueuedAndUnblocksPop(t *testing.T) {
	q := NewQueue()
	q.Push(newTestCommand(t, 1))
	q.Close()

	if _, ok := q.Pop(); ok {
		t.Fatalf("Pop() after Close should report ok=false")
	}
}

func TestQueueFlushWakesWithoutPush(t *testing.T) {
	q := NewQueue()
	woken := make(chan struct{})
	go func() {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed && !q.flushed {
			q.cond.Wait()
		}
		q.mu.Unlock()
		close(woken)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Flush()

	select {
	case <-woken:
	case <-time.After(time.Second):
		t.Fatalf("Flush did not wake a waiter")
	}
	if !q.TakeFlush() {
		t.Fatalf("TakeFlush() = false, want true")
	}
	if q.TakeFlush() {
		t.Fatalf("TakeFlush() should clear the flag after reading it")
	}
}
