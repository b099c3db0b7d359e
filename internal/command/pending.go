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

package command

import (
	"sync"
	"time"

	"github.com/eilecollage/collage/internal/wire"
)

// PendingTTL bounds how long a command addressed to an as-yet-unattached
// object is held before being discarded.
var PendingTTL = 5 * time.Second

type pendingEntry struct {
	cmd      *Command
	arrived  time.Time
}

// Pending holds commands whose target ObjectID is not yet attached,
// retried after the next mapping event; grounded on commandCache.cpp in the
// original source.
type Pending struct {
	mu    sync.Mutex
	byObj map[wire.ObjectID][]pendingEntry
}

// NewPending returns an empty pending-target list.
func NewPending() *Pending {
	return &Pending{byObj: make(map[wire.ObjectID][]pendingEntry)}
}

// Hold files c under target until a matching Drain call retries it.
func (p *Pending) Hold(target wire.ObjectID, c *Command) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byObj[target] = append(p.byObj[target], pendingEntry{cmd: c, arrived: time.Now()})
}

// Drain removes and returns every live (non-expired) command held for
// target, releasing and dropping any that exceeded PendingTTL.
func (p *Pending) Drain(target wire.ObjectID) []*Command {
	p.mu.Lock()
	entries := p.byObj[target]
	delete(p.byObj, target)
	p.mu.Unlock()

	now := time.Now()
	out := make([]*Command, 0, len(entries))
	for _, e := range entries {
		if now.Sub(e.arrived) > PendingTTL {
			e.cmd.Release()
			continue
		}
		out = append(out, e.cmd)
	}
	return out
}

// Sweep discards entries older than PendingTTL across all targets,
// intended to run periodically so objects that are never mapped don't
// leak held commands forever.
func (p *Pending) Sweep() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	for obj, entries := range p.byObj {
		live := entries[:0]
		for _, e := range entries {
			if now.Sub(e.arrived) > PendingTTL {
				e.cmd.Release()
				continue
			}
			live = append(live, e)
		}
		if len(live) == 0 {
			delete(p.byObj, obj)
		} else {
			p.byObj[obj] = live
		}
	}
}
