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

// Package object implements the attached-object registry and its change
// manager variants: the unit of replication a node registers, maps and
// commits new versions of. Grounded on cluster.Cluster's small sealed
// interface style (cluster/interface.go) rather than a deep class
// hierarchy: ChangeManager is a single interface with a fixed, closed set
// of implementations picked at registration time.
package object

import (
	"sync"

	"github.com/eilecollage/collage/internal/runtimeerr"
	"github.com/eilecollage/collage/internal/wire"
)

// ChangeManager packs and applies one object's version deltas. Exactly one
// of the concrete variants below is selected when an object is registered,
// matching how the original chooses a change manager by object trait
// rather than by runtime polymorphism across an open class hierarchy.
type ChangeManager interface {
	// Pack serializes everything needed to advance from base to the
	// object's current head into a wire payload.
	Pack(base wire.Version) ([]byte, error)

	// Unpack applies a payload produced by Pack, advancing to version.
	Unpack(version wire.Version, payload []byte) error

	// Kind names the variant for diagnostics.
	Kind() string
}

// Static never changes after registration on its master; Pack always
// returns the full snapshot, and Unpack replaces Snapshot with the received
// payload without recording the version.
type Static struct {
	Snapshot []byte
}

func (s *Static) Pack(wire.Version) ([]byte, error)        { return s.Snapshot, nil }
func (s *Static) Unpack(_ wire.Version, payload []byte) error { s.Snapshot = payload; return nil }
func (s *Static) Kind() string                              { return "static" }

// Unbuffered holds only the current full snapshot; Pack ignores base and
// always sends everything, the simplest possible manager for objects
// where deltas are not worth the bookkeeping.
type Unbuffered struct {
	mu   sync.RWMutex
	data []byte
}

func (u *Unbuffered) Pack(wire.Version) ([]byte, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.data, nil
}

func (u *Unbuffered) Unpack(_ wire.Version, payload []byte) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.data = payload
	return nil
}

func (u *Unbuffered) Kind() string { return "unbuffered" }

// deltaEntry is one committed version's encoded delta, kept only on the
// master side of a delta-buffering manager.
type deltaEntry struct {
	version wire.Version
	delta   []byte
}

// DeltaFullMaster buffers every committed delta so any slave, however far
// behind, can be brought to head by replaying the deltas since its base.
// Buffer growth is unbounded here; a production deployment would cap it
// to the oldest version any mapped slave still needs, tracked by node.
type DeltaFullMaster struct {
	mu      sync.Mutex
	history []deltaEntry
}

func (d *DeltaFullMaster) CommitDelta(version wire.Version, delta []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = append(d.history, deltaEntry{version: version, delta: delta})
}

func (d *DeltaFullMaster) Pack(base wire.Version) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []byte
	for _, e := range d.history {
		if base.Less(e.version) {
			out = append(out, e.delta...)
		}
	}
	return out, nil
}

func (d *DeltaFullMaster) Unpack(_ wire.Version, _ []byte) error {
	return runtimeerr.ProtocolError.Error()
}

func (d *DeltaFullMaster) Kind() string { return "delta-full-master" }

// DeltaInstanceMaster keeps only a bounded window of recent deltas (the
// last window commits), trading replay depth for bounded memory. Pack for
// a base older than the oldest buffered delta returns VersionUnavailable;
// no full resync is performed.
type DeltaInstanceMaster struct {
	mu      sync.Mutex
	window  int
	history []deltaEntry
}

func NewDeltaInstanceMaster(window int) *DeltaInstanceMaster {
	return &DeltaInstanceMaster{window: window}
}

func (d *DeltaInstanceMaster) CommitDelta(version wire.Version, delta []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = append(d.history, deltaEntry{version: version, delta: delta})
	if len(d.history) > d.window {
		d.history = d.history[len(d.history)-d.window:]
	}
}

func (d *DeltaInstanceMaster) Pack(base wire.Version) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.history) == 0 || base.Less(d.history[0].version) {
		return nil, runtimeerr.VersionUnavailable.Error()
	}
	var out []byte
	for _, e := range d.history {
		if base.Less(e.version) {
			out = append(out, e.delta...)
		}
	}
	return out, nil
}

func (d *DeltaInstanceMaster) Unpack(_ wire.Version, _ []byte) error {
	return runtimeerr.ProtocolError.Error()
}

func (d *DeltaInstanceMaster) Kind() string { return "delta-instance-master" }

// VersionedSlave is the read-side counterpart: it has no master role and
// only ever applies deltas received from a master's Pack output.
type VersionedSlave struct {
	mu      sync.RWMutex
	version wire.Version
	data    []byte
}

func (v *VersionedSlave) Pack(wire.Version) ([]byte, error) {
	return nil, runtimeerr.NotAttached.Error()
}

func (v *VersionedSlave) Unpack(version wire.Version, payload []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = append(v.data, payload...)
	v.version = version
	return nil
}

func (v *VersionedSlave) Kind() string { return "versioned-slave" }

func (v *VersionedSlave) Version() wire.Version {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}
