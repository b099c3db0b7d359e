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

// Package command implements the framing-to-dispatch pipeline: a typed,
// non-owning ICommand view over a pooled Buffer (component C) and the
// thread-safe per-destination FIFO it is pushed onto (component D).
package command

import (
	"github.com/eilecollage/collage/internal/buffer"
	"github.com/eilecollage/collage/internal/wire"
)

// Command is a non-owning, cursor-bearing view over a received Buffer,
// grounded on co/localNode.h's ICommand: the dispatcher routes on Type
// and Command without copying the payload, and handlers extract typed
// fields through Reader.
type Command struct {
	buf     *buffer.Buffer
	reader  *wire.Reader
	Type    wire.CommandType
	ID      uint32
	Sender  wire.NodeID
	Object  wire.ObjectID
}

// FromBuffer wraps a fully-received frame Buffer as a Command, retaining
// a reference so the buffer outlives the dispatch hop. For an
// object-addressed command, the target ObjectID is the first field of
// the payload; it is consumed here so Reader() starts right after it,
// leaving handlers to read only their command-specific arguments.
func FromBuffer(buf *buffer.Buffer, sender wire.NodeID) (*Command, error) {
	buf.Retain()
	frame := buf.Bytes()
	_, typ, id, err := wire.ParseHeader(frame)
	if err != nil {
		buf.Release()
		return nil, err
	}
	reader := wire.NewReader(frame[wire.FrameHeaderFields:])

	c := &Command{
		buf:    buf,
		reader: reader,
		Type:   typ,
		ID:     id,
		Sender: sender,
	}
	if c.IsObjectCommand() {
		obj, err := reader.ID()
		if err != nil {
			buf.Release()
			return nil, err
		}
		c.Object = obj
	}
	return c, nil
}

// IsObjectCommand reports whether the command's ID carries the
// object-command bit, routing it to an attached object's queue instead of
// the node's own command queue.
func (c *Command) IsObjectCommand() bool {
	return wire.IsObjectCommand(c.ID)
}

// CommandID strips the object-command bit, returning the bare command
// identifier used to look up a registered handler.
func (c *Command) CommandID() uint32 {
	return c.ID &^ wire.ObjectCommandBit
}

// Reader exposes the typed cursor positioned after the frame header.
func (c *Command) Reader() *wire.Reader {
	return c.reader
}

// Release drops this Command's reference on the underlying Buffer. Every
// Command obtained from FromBuffer or Retain must be matched by exactly
// one Release.
func (c *Command) Release() {
	c.buf.Release()
}

// Retain increments the underlying Buffer's refcount and returns a second
// independent Command handle sharing the same payload and cursor position
// at the time of the call — used when a command must be held on the
// pending-target list while also being inspected immediately.
func (c *Command) Retain() *Command {
	c.buf.Retain()
	cp := *c
	cp.reader = c.reader.Clone()
	return &cp
}
