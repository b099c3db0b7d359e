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

// Package logging wraps github.com/hashicorp/go-hclog behind the small
// structured-logging interface the rest of the runtime depends on,
// following the Logger/Fields split used throughout nabbar/golib/logger.
package logging

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// Fields carries structured key/value context attached to a log entry,
// mirroring nabbar/golib/logger/fields.Fields.
type Fields map[string]interface{}

// Logger is the structured logging surface used across the runtime.
type Logger interface {
	Debug(message string, fields Fields)
	Info(message string, fields Fields)
	Warn(message string, fields Fields)
	Error(message string, fields Fields)
	With(fields Fields) Logger
}

type hc struct {
	l hclog.Logger
}

// New returns the default Logger, named for the component that owns it
// (e.g. "node", "barrier", "transport").
func New(component string) Logger {
	return &hc{l: hclog.New(&hclog.LoggerOptions{
		Name:   component,
		Level:  hclog.Info,
		Output: os.Stderr,
	})}
}

func toArgs(f Fields) []interface{} {
	args := make([]interface{}, 0, len(f)*2)
	for k, v := range f {
		args = append(args, k, v)
	}
	return args
}

func (h *hc) Debug(message string, fields Fields) { h.l.Debug(message, toArgs(fields)...) }
func (h *hc) Info(message string, fields Fields)  { h.l.Info(message, toArgs(fields)...) }
func (h *hc) Warn(message string, fields Fields)  { h.l.Warn(message, toArgs(fields)...) }
func (h *hc) Error(message string, fields Fields) { h.l.Error(message, toArgs(fields)...) }

func (h *hc) With(fields Fields) Logger {
	return &hc{l: h.l.With(toArgs(fields)...)}
}

// Noop returns a Logger that discards everything, used by tests that do
// not want log noise.
func Noop() Logger {
	return &hc{l: hclog.NewNullLogger()}
}
