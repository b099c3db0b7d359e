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

package buffer

import "testing"

func TestBufferRefcountReleasesAtZero(t *testing.T) {
	released := false
	b := New(64, func(*Buffer) { released = true })

	b.Retain()
	if b.RefCount() != 2 {
		t.Fatalf("RefCount() = %d, want 2", b.RefCount())
	}
	b.Release()
	if released {
		t.Fatalf("listener fired before last release")
	}
	b.Release()
	if !released {
		t.Fatalf("listener did not fire on last release")
	}
}

func TestBufferSetLengthGrows(t *testing.T) {
	b := New(MinSize, nil)
	b.SetLength(10)
	if len(b.Bytes()) != 10 {
		t.Fatalf("len(Bytes()) = %d, want 10", len(b.Bytes()))
	}

	b.SetLength(MinSize * 4)
	if len(b.Bytes()) != MinSize*4 {
		t.Fatalf("len(Bytes()) = %d, want %d", len(b.Bytes()), MinSize*4)
	}
}

func TestBufferBelowMinSizeIsClamped(t *testing.T) {
	b := New(1, nil)
	if b.Cap() < MinSize {
		t.Fatalf("Cap() = %d, want >= MinSize (%d)", b.Cap(), MinSize)
	}
}
