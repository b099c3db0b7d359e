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

package runtimeerr

import (
	"errors"
	"runtime"
	"strings"
)

// Error is a runtime error classified by Kind, optionally wrapping one or
// more parent errors, with the call site captured automatically.
type Error interface {
	error

	// Kind returns the numeric classification of this error.
	Kind() Kind

	// Is reports whether err is a runtimeerr.Error of the same kind (the
	// message is not compared), a foreign error whose text equals this
	// error's text ignoring case, or matches errors.Is through a parent.
	Is(err error) bool

	// Add appends parent errors to this error's chain.
	Add(parents ...error)

	// HasKind reports whether this error or any parent carries kind.
	HasKind(kind Kind) bool

	// Parents returns the direct parent chain.
	Parents() []error

	// Trace returns "file:line" of the call site that produced this error.
	Trace() string
}

type ers struct {
	k Kind
	m string
	p []error
	t string
}

func (e *ers) captureTrace(skip int) {
	if _, file, line, ok := runtime.Caller(skip); ok {
		idx := strings.LastIndexByte(file, '/')
		if idx >= 0 {
			file = file[idx+1:]
		}
		e.t = file + ":" + itoa(line)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (e *ers) Error() string {
	msg := e.k.String()
	if e.m != "" {
		msg = msg + ": " + e.m
	}
	if e.t != "" {
		msg = msg + " (" + e.t + ")"
	}
	return msg
}

func (e *ers) Kind() Kind {
	return e.k
}

func (e *ers) Trace() string {
	return e.t
}

func (e *ers) Parents() []error {
	return e.p
}

func (e *ers) Add(parents ...error) {
	for _, p := range parents {
		if p == nil {
			continue
		}
		e.p = append(e.p, p)
	}
}

func (e *ers) HasKind(kind Kind) bool {
	if e.k == kind {
		return true
	}
	for _, p := range e.p {
		if re, ok := p.(Error); ok && re.HasKind(kind) {
			return true
		}
	}
	return false
}

func (e *ers) Is(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(Error); ok {
		if re.Kind() == e.k {
			return true
		}
	} else if strings.EqualFold(e.Error(), err.Error()) {
		return true
	}
	for _, p := range e.p {
		if errors.Is(p, err) {
			return true
		}
	}
	return false
}

// WithMessage attaches a human-readable detail to an error produced by
// Kind.Error, returning a new Error so the original stays immutable.
func WithMessage(e Error, msg string) Error {
	base, ok := e.(*ers)
	if !ok {
		return e
	}
	cp := *base
	cp.m = msg
	return &cp
}

// KindOf extracts the Kind from err if it is, or wraps through its Unwrap
// chain, a runtimeerr.Error, returning Unknown otherwise.
func KindOf(err error) Kind {
	var re Error
	if errors.As(err, &re) {
		return re.Kind()
	}
	return Unknown
}
