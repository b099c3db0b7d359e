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

package object

import (
	"sync"
	"time"

	"github.com/eilecollage/collage/internal/logging"
	"github.com/eilecollage/collage/internal/runtimeerr"
	"github.com/eilecollage/collage/internal/wire"
)

// Attached is one registered object instance: its identity, the node
// hosting its master copy, its current head version and the change
// manager driving Pack/Unpack.
type Attached struct {
	mu         sync.RWMutex
	ID         wire.ObjectID
	InstanceID wire.ObjectID
	MasterID   wire.NodeID
	head       wire.Version
	Manager    ChangeManager

	commitCond *sync.Cond
}

func newAttached(id, instance wire.ObjectID, master wire.NodeID, mgr ChangeManager, head wire.Version) *Attached {
	a := &Attached{ID: id, InstanceID: instance, MasterID: master, head: head, Manager: mgr}
	a.commitCond = sync.NewCond(a.mu.RLocker())
	return a
}

// Head reports the most recently committed version.
func (a *Attached) Head() wire.Version {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.head
}

// Commit advances head by one and wakes every Sync waiter. Only valid on
// the node hosting this object's master copy; the caller is responsible
// for pushing the resulting delta to subscribed slaves.
func (a *Attached) Commit() wire.Version {
	a.mu.Lock()
	a.head = a.head.Next()
	v := a.head
	a.mu.Unlock()
	a.commitCond.Broadcast()
	return v
}

// Sync blocks until head >= version, or returns immediately if it already
// is. A head still at a sentinel (VersionFirst before the first Commit,
// VersionNone before the first ApplyRemote) counts as behind every
// concrete version. There is no timeout here; TimedSync is the bounded
// variant.
func (a *Attached) Sync(version wire.Version) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for a.head.Less(version) || (a.head.IsSentinel() && !version.IsSentinel()) {
		a.commitCond.Wait()
	}
}

// TimedSync is Sync bounded by timeout, used by a master resolving a
// mapObject request for a concrete version that is still ahead of head: it
// reports whether head reached version before timeout elapsed. A timer
// forces one spurious wake of the condition variable at the deadline since
// sync.Cond has no native timed wait.
func (a *Attached) TimedSync(version wire.Version, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	a.mu.RLock()
	defer a.mu.RUnlock()
	for a.head.Less(version) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		timer := time.AfterFunc(remaining, a.commitCond.Broadcast)
		a.commitCond.Wait()
		timer.Stop()
	}
	return true
}

// ApplyRemote feeds a received push payload through the object's change
// manager and advances head to the pushed version, waking any Sync
// waiters. Called only from the dispatch hop owning this object's queue,
// matching the invariant that Unpack never runs concurrently with itself
// on the same Attached.
func (a *Attached) ApplyRemote(version wire.Version, payload []byte) error {
	if err := a.Manager.Unpack(version, payload); err != nil {
		return err
	}
	a.mu.Lock()
	a.head = version
	a.mu.Unlock()
	a.commitCond.Broadcast()
	return nil
}

// Registry is a node's table of attached objects, keyed by ObjectID.
// Grounded on cluster.Cluster's composition style (cluster/interface.go):
// a small interface-backed table rather than a generic container type.
type Registry struct {
	mu    sync.RWMutex
	byID  map[wire.ObjectID]*Attached
	log   logging.Logger
}

// NewRegistry returns an empty object registry.
func NewRegistry(log logging.Logger) *Registry {
	return &Registry{byID: make(map[wire.ObjectID]*Attached), log: log}
}

// Register attaches a new master-side object, assigning it a fresh
// InstanceID. Returns runtimeerr.DuplicateRegister if id is already
// attached on this node.
func (r *Registry) Register(id wire.ObjectID, local wire.NodeID, mgr ChangeManager) (*Attached, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[id]; exists {
		return nil, runtimeerr.DuplicateRegister.Error()
	}
	a := newAttached(id, wire.GenerateID(), local, mgr, wire.VersionFirst)
	r.byID[id] = a
	if r.log != nil {
		r.log.Info("object registered", logging.Fields{"object": id.String(), "manager": mgr.Kind()})
	}
	return a, nil
}

// Map attaches a local slave-side instance of an object mastered on
// master, starting at wire.VersionNone: the instance carries no data
// until a caller resolves the requested version against the master (see
// node.LocalNode.MapObject, which sends the MapObjectReq/Reply round trip
// and then calls Attached.ApplyRemote with whatever the master resolved).
// Map itself performs no network I/O and does no version resolution; it
// only reserves the local slot, matching mapObject()'s split into a
// local-attach step the registry owns and a resolution step the node
// owns.
func (r *Registry) Map(id wire.ObjectID, master wire.NodeID, mgr ChangeManager) (*Attached, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[id]; exists {
		return nil, runtimeerr.DuplicateRegister.Error()
	}
	a := newAttached(id, wire.GenerateID(), master, mgr, wire.VersionNone)
	r.byID[id] = a
	if r.log != nil {
		r.log.Info("object mapped", logging.Fields{"object": id.String(), "master": master.String()})
	}
	return a, nil
}

// Lookup returns the Attached record for id, or ok=false if not attached
// on this node (runtimeerr.UnknownObject at the call site).
func (r *Registry) Lookup(id wire.ObjectID) (*Attached, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	return a, ok
}

// Unmap detaches an object, dropping it from the registry. Any goroutine
// blocked in Sync on this Attached continues to observe its last head
// forever since Commit will never be called on it again; the node layer
// is expected to have already stopped routing commands to this ID before
// calling Unmap.
func (r *Registry) Unmap(id wire.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// Len reports the number of attached objects, used for diagnostics and
// metrics.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
