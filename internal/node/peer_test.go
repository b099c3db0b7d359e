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

package node

import (
	"testing"
	"time"

	"github.com/eilecollage/collage/internal/logging"
	"github.com/eilecollage/collage/internal/transport"
	"github.com/eilecollage/collage/internal/wire"
)

func TestPeerSendTokenBlocksAtCapacity(t *testing.T) {
	a, b := transport.NewPipe()
	defer a.Close()
	defer b.Close()

	p := NewPeer(wire.GenerateID(), a, 1, logging.Noop())
	if !p.AcquireSendToken(0) {
		t.Fatalf("first AcquireSendToken should succeed immediately")
	}
	if p.AcquireSendToken(10 * time.Millisecond) {
		t.Fatalf("second AcquireSendToken should block and then time out at capacity 1")
	}
	p.ReleaseSendToken()
	if !p.AcquireSendToken(0) {
		t.Fatalf("AcquireSendToken should succeed again after ReleaseSendToken")
	}
}

func TestPeerIdleDetection(t *testing.T) {
	a, b := transport.NewPipe()
	defer a.Close()
	defer b.Close()

	p := NewPeer(wire.GenerateID(), a, 4, logging.Noop())
	if p.Idle(time.Hour) {
		t.Fatalf("a freshly created peer should not be idle against a long timeout")
	}
	p.Touch()
	if p.Idle(time.Hour) {
		t.Fatalf("Touch should reset the idle clock")
	}
}

func TestResolveRaceLowerIDWins(t *testing.T) {
	low := wire.ID{0, 0, 1}
	high := wire.ID{0, 0, 2}
	if !ResolveRace(low, high) {
		t.Fatalf("the lexicographically lower NodeID should keep its outbound attempt")
	}
	if ResolveRace(high, low) {
		t.Fatalf("the lexicographically higher NodeID should drop its outbound attempt")
	}
}
