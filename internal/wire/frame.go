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

import (
	"encoding/binary"
	"errors"
)

// HeaderSize is the length of the fixed header read by the receiver before
// it knows how large a Buffer to allocate for the remainder of the frame.
const HeaderSize = 8

// FrameHeaderFields is the length, in bytes, of the size+type+command
// prefix that precedes every command's payload on the wire.
const FrameHeaderFields = 16

// ObjectCommandBit is set in the Command field's high bit to mark a frame
// as addressed to an attached object rather than to the node itself.
const ObjectCommandBit uint32 = 1 << 31

// ErrShortBuffer is returned when a buffer is too small to hold a frame
// header or a requested primitive read.
var ErrShortBuffer = errors.New("wire: short buffer")

// CommandType labels a frame as a control command (node-directed) or an
// object command. Routing does not read it: the receive path routes on
// ObjectCommandBit in the command field (IsObjectCommand).
type CommandType uint32

const (
	// TypeNode marks a command for the local node's own command queue.
	TypeNode CommandType = 0
	// TypeObject marks a command for an attached object's queue.
	TypeObject CommandType = 1
)

// PutHeader writes the 16-byte size|type|command prefix into dst, which
// must be at least FrameHeaderFields bytes long. size is the total frame
// size including this header.
func PutHeader(dst []byte, size uint64, typ CommandType, command uint32) {
	binary.LittleEndian.PutUint64(dst[0:8], size)
	binary.LittleEndian.PutUint32(dst[8:12], uint32(typ))
	binary.LittleEndian.PutUint32(dst[12:16], command)
}

// PeekSize reads just the leading 8-byte total-size field, used by the
// receiver to size the Buffer before the rest of the frame has arrived.
func PeekSize(header []byte) (uint64, error) {
	if len(header) < HeaderSize {
		return 0, ErrShortBuffer
	}
	return binary.LittleEndian.Uint64(header[0:8]), nil
}

// ParseHeader reads the full 16-byte header out of a complete frame.
func ParseHeader(frame []byte) (size uint64, typ CommandType, command uint32, err error) {
	if len(frame) < FrameHeaderFields {
		return 0, 0, 0, ErrShortBuffer
	}
	size = binary.LittleEndian.Uint64(frame[0:8])
	typ = CommandType(binary.LittleEndian.Uint32(frame[8:12]))
	command = binary.LittleEndian.Uint32(frame[12:16])
	return size, typ, command, nil
}

// IsObjectCommand reports whether the command field's high bit marks this
// frame as addressed to an attached object.
func IsObjectCommand(command uint32) bool {
	return command&ObjectCommandBit != 0
}
