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

package wire

import "testing"

func TestPutHeaderParseHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, FrameHeaderFields)
	PutHeader(buf, 128, TypeObject, 7)

	size, typ, cmd, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if size != 128 || typ != TypeObject || cmd != 7 {
		t.Fatalf("got (%d, %v, %d), want (128, TypeObject, 7)", size, typ, cmd)
	}
}

func TestPeekSizeShortBuffer(t *testing.T) {
	if _, err := PeekSize([]byte{1, 2, 3}); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestIsObjectCommand(t *testing.T) {
	if IsObjectCommand(5) {
		t.Fatalf("plain command ID must not be flagged as an object command")
	}
	if !IsObjectCommand(5 | ObjectCommandBit) {
		t.Fatalf("tagged command ID must be flagged as an object command")
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	id := GenerateID()
	v := Concrete(99)

	w := NewWriter()
	w.PutUint32(1).PutUint64(2).PutID(id).PutVersion(v).PutString("hello").PutBytes([]byte{9, 8, 7})

	r := NewReader(w.Bytes())
	if got, err := r.Uint32(); err != nil || got != 1 {
		t.Fatalf("Uint32() = (%d, %v), want 1", got, err)
	}
	if got, err := r.Uint64(); err != nil || got != 2 {
		t.Fatalf("Uint64() = (%d, %v), want 2", got, err)
	}
	if got, err := r.ID(); err != nil || got != id {
		t.Fatalf("ID() = (%v, %v), want %v", got, err, id)
	}
	if got, err := r.Version(); err != nil || !got.Equal(v) {
		t.Fatalf("Version() = (%v, %v), want %v", got, err, v)
	}
	if got, err := r.String(); err != nil || got != "hello" {
		t.Fatalf("String() = (%q, %v), want \"hello\"", got, err)
	}
	if got, err := r.Bytes(); err != nil || string(got) != string([]byte{9, 8, 7}) {
		t.Fatalf("Bytes() = (%v, %v), want [9 8 7]", got, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestReaderCloneIsIndependent(t *testing.T) {
	w := NewWriter()
	w.PutUint32(11).PutUint32(22)
	r := NewReader(w.Bytes())

	if _, err := r.Uint32(); err != nil {
		t.Fatalf("Uint32: %v", err)
	}
	clone := r.Clone()

	if got, err := clone.Uint32(); err != nil || got != 22 {
		t.Fatalf("clone.Uint32() = (%d, %v), want 22", got, err)
	}
	if got, err := r.Uint32(); err != nil || got != 22 {
		t.Fatalf("original reader unaffected by clone advancing: got (%d, %v), want 22", got, err)
	}
}
