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

// Package runtimeerr classifies timeouts, protocol violations, and registry
// conflicts by numeric kind, with parent chaining and errors.Is/As
// compatibility, adapted from nabbar/golib/errors since that package
// already implements exactly this "kinds not types" design.
package runtimeerr

import (
	"strconv"
)

// Kind is a numeric classification of a runtime error, analogous to an
// HTTP status code. Zero is reserved for "unclassified".
type Kind uint16

const (
	Unknown Kind = iota
	TimeoutRead
	TimeoutWrite
	TimeoutMap
	TimeoutBarrier
	TimeoutConnect
	ConnectionReset
	ProtocolError
	UnknownObject
	VersionUnavailable
	DuplicateRegister
	NotAttached
)

var kindNames = map[Kind]string{
	Unknown:            "unknown",
	TimeoutRead:        "timeout-read",
	TimeoutWrite:       "timeout-write",
	TimeoutMap:         "timeout-map",
	TimeoutBarrier:     "timeout-barrier",
	TimeoutConnect:     "timeout-connect",
	ConnectionReset:    "connection-reset",
	ProtocolError:      "protocol-error",
	UnknownObject:      "unknown-object",
	VersionUnavailable: "version-unavailable",
	DuplicateRegister:  "duplicate-register",
	NotAttached:        "not-attached",
}

// String returns the kebab-case name of the kind, or its numeric value if
// the kind is not one of the predefined constants.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return strconv.Itoa(int(k))
}

// Uint16 exposes the kind as its underlying numeric code.
func (k Kind) Uint16() uint16 {
	return uint16(k)
}

// Error constructs a runtime Error of this kind with an optional parent
// chain, matching nabbar/golib/errors's CodeError.Error(parents...) idiom.
func (k Kind) Error(parents ...error) Error {
	e := &ers{k: k}
	e.captureTrace(2)
	e.Add(parents...)
	return e
}
