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

// Package wire defines the identifiers, versions and frame layout shared by
// every other package in the runtime: NodeID, ObjectID, Version and the
// length-prefixed command packet.
package wire

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// ID is a 128-bit opaque identifier used for both NodeID and ObjectID.
// It is binary compatible with uuid.UUID so identifiers can be generated,
// parsed and printed with the vetted google/uuid implementation instead of
// a hand-rolled random source.
type ID [16]byte

// ZeroID is the reserved "unset" identifier.
var ZeroID = ID{}

// NodeID identifies a peer process.
type NodeID = ID

// ObjectID identifies a replicated object.
type ObjectID = ID

// GenerateID returns a fresh random 128-bit identifier.
func GenerateID() ID {
	return ID(uuid.New())
}

// IsZero reports whether the identifier is the reserved ZERO value.
func (i ID) IsZero() bool {
	return i == ZeroID
}

// String renders the identifier in canonical UUID form.
func (i ID) String() string {
	return uuid.UUID(i).String()
}

// Less provides the deterministic lexicographic tie-break used by the
// handshake race resolution and by the barrier's arrival-list sort.
func (i ID) Less(other ID) bool {
	for k := 0; k < len(i); k++ {
		if i[k] != other[k] {
			return i[k] < other[k]
		}
	}
	return false
}

// ParseID parses the canonical string form of an identifier.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ZeroID, err
	}
	return ID(u), nil
}

// low64 and high64 pull the second (bytes 8..16) and the first (bytes
// 0..8) 64-bit halves out of an ID for wire encoding, matching the "128-bit identifiers as two u64s" grammar.
func (i ID) low64() uint64 {
	return binary.BigEndian.Uint64(i[8:16])
}

func (i ID) high64() uint64 {
	return binary.BigEndian.Uint64(i[0:8])
}

func idFromHalves(high, low uint64) ID {
	var i ID
	binary.BigEndian.PutUint64(i[0:8], high)
	binary.BigEndian.PutUint64(i[8:16], low)
	return i
}
