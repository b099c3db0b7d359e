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

func TestPoolRecyclesReleasedBuffer(t *testing.T) {
	p := NewPool()
	b := p.Alloc(128)
	b.Release()

	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after release", p.Len())
	}

	b2 := p.Alloc(128)
	if p.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after re-alloc", p.Len())
	}
	b2.Release()
}

func TestPoolDiscardsOversizedBuffer(t *testing.T) {
	p := NewPool()
	b := p.Alloc(CacheSize * 2)
	b.Release()

	if p.Len() != 0 {
		t.Fatalf("Len() = %d, want 0: oversized buffers must not be cached", p.Len())
	}
}
