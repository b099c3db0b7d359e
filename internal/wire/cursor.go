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

import "encoding/binary"

// Writer accumulates a command payload in wire order: primitives verbatim,
// 128-bit identifiers as two u64s (high, low), strings as length-prefixed
// byte runs, sequences as a count followed by items.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty payload writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// PutUint32 appends a little-endian u32.
func (w *Writer) PutUint32(v uint32) *Writer {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

// PutUint64 appends a little-endian u64.
func (w *Writer) PutUint64(v uint64) *Writer {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

// PutID appends a 128-bit identifier as two u64s, high half first.
func (w *Writer) PutID(id ID) *Writer {
	w.PutUint64(id.high64())
	w.PutUint64(id.low64())
	return w
}

// PutVersion appends a Version as two u64s (Low, High).
func (w *Writer) PutVersion(v Version) *Writer {
	w.PutUint64(v.Low)
	w.PutUint64(v.High)
	return w
}

// PutString appends a length-prefixed UTF-8 string.
func (w *Writer) PutString(s string) *Writer {
	w.PutUint64(uint64(len(s)))
	w.buf = append(w.buf, s...)
	return w
}

// PutBytes appends a length-prefixed opaque byte run, used for InstanceData.
func (w *Writer) PutBytes(b []byte) *Writer {
	w.PutUint64(uint64(len(b)))
	w.buf = append(w.buf, b...)
	return w
}

// Reader is a cursor over a received payload, advancing as values are
// extracted. It never copies the underlying slice.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential typed reads starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining reports how many bytes are left to read.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Clone returns an independent Reader over the same backing slice,
// positioned wherever r currently is, so two Commands can share a Buffer
// without advancing each other's cursor.
func (r *Reader) Clone() *Reader {
	return &Reader{buf: r.buf, pos: r.pos}
}

func (r *Reader) need(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, ErrShortBuffer
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Uint32 reads a little-endian u32.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.need(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 reads a little-endian u64.
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.need(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ID reads a 128-bit identifier written as two u64s, high half first.
func (r *Reader) ID() (ID, error) {
	high, err := r.Uint64()
	if err != nil {
		return ZeroID, err
	}
	low, err := r.Uint64()
	if err != nil {
		return ZeroID, err
	}
	return idFromHalves(high, low), nil
}

// Version reads a Version written as (Low, High).
func (r *Reader) Version() (Version, error) {
	low, err := r.Uint64()
	if err != nil {
		return Version{}, err
	}
	high, err := r.Uint64()
	if err != nil {
		return Version{}, err
	}
	return Version{Low: low, High: high}, nil
}

// String reads a length-prefixed UTF-8 string.
func (r *Reader) String() (string, error) {
	n, err := r.Uint64()
	if err != nil {
		return "", err
	}
	b, err := r.need(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Bytes reads a length-prefixed opaque byte run.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Uint64()
	if err != nil {
		return nil, err
	}
	b, err := r.need(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
