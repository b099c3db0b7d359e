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

// Package barrier implements a distributed rendezvous object: a master
// tracks arrivals from a fixed number of participating nodes per version
// and releases them all together, once height arrivals have been seen for
// that version. Grounded directly on co/barrier.cpp from the original
// source; the master-side bookkeeping (RequestMap keyed by version, one
// incarnation counter per round, a stale-entry sweep on every call) is
// carried over structurally, replacing the original's thread/condition
// pair with the channel-backed Monitor in this package.
package barrier

import (
	"sort"
	"sync"
	"time"

	"github.com/eilecollage/collage/internal/logging"
	"github.com/eilecollage/collage/internal/runtimeerr"
	"github.com/eilecollage/collage/internal/wire"
)

// Infinite marks an Enter call that should block forever rather than time
// out; passed as the timeout argument.
const Infinite time.Duration = -1

// request is one in-flight round for a single version: the set of nodes
// that have arrived, the incarnation they arrived under, and when the
// most recent arrival for this round was observed (used to age the round
// out under StaleRoundAge even if it never completes).
type request struct {
	incarnation  uint32
	lastActivity time.Time
	timeout      time.Duration
	arrived      map[wire.NodeID]struct{}
	order        []wire.NodeID
}

// StaleRoundAge bounds how long an incomplete round is kept in the
// RequestMap before cleanup discards it, preventing a master that a
// minority of contributors abandoned from accumulating rounds forever.
var StaleRoundAge = 5 * time.Minute

// Barrier is a single distributed rendezvous point, identified on the
// wire by its ObjectID. Height and the current version are mutated only
// on the node hosting the master instance; slaves mirror height through
// instance-data updates applied by the owning node.
type Barrier struct {
	mu      sync.Mutex
	id      wire.ObjectID
	master  wire.NodeID
	local   wire.NodeID
	isMaster bool
	height  uint32
	version wire.Version
	reqs    map[wire.Version]*request

	leave *Monitor
	log   logging.Logger

	// send dispatches a BarrierEnterReply to a single participant; the
	// node wires this to its connection/send-token machinery. nil on a
	// barrier that has not yet been attached to a node.
	send func(to wire.NodeID, version wire.Version) error

	// sendEnter transmits this node's BarrierEnter command to the master,
	// installed by BindSlave. nil on a master instance or a slave not yet
	// attached to a node.
	sendEnter func(version wire.Version, incarnation uint32, timeout time.Duration) error
}

// New returns an unattached Barrier for id, owned locally by local. A
// Barrier only becomes load-bearing once SetHeight has been called by
// whichever node holds the master instance.
func New(id wire.ObjectID, local wire.NodeID, log logging.Logger) *Barrier {
	return &Barrier{
		id:      id,
		local:   local,
		version: wire.VersionFirst,
		reqs:    make(map[wire.Version]*request),
		leave:   NewMonitor(),
		log:     log.With(logging.Fields{"barrier": id.String()}),
	}
}

// BindMaster marks this instance as the master copy, owned by the local
// node, and installs the reply sender used to notify slaves on release.
func (b *Barrier) BindMaster(send func(to wire.NodeID, version wire.Version) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.isMaster = true
	b.master = b.local
	b.send = send
}

// BindSlave marks this instance as mirroring a master hosted on master,
// and installs the sender Enter uses to transmit a BarrierEnter command
// to that master before blocking locally.
func (b *Barrier) BindSlave(master wire.NodeID, sendEnter func(version wire.Version, incarnation uint32, timeout time.Duration) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.isMaster = false
	b.master = master
	b.sendEnter = sendEnter
}

// IsMaster reports whether this instance holds the master copy.
func (b *Barrier) IsMaster() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isMaster
}

// Master reports the NodeID hosting the master copy: the local node
// itself when IsMaster, otherwise whichever node BindSlave was given.
func (b *Barrier) Master() wire.NodeID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.master
}

// SetHeight fixes the number of participants required to release a round.
// Only meaningful on the master; called before the first Enter.
func (b *Barrier) SetHeight(height uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.height = height
}

// Height reports the configured participant count.
func (b *Barrier) Height() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.height
}

// Increase raises the configured height by one, used when a late
// participant joins an already-registered barrier. A round already in
// progress is not sized at its start: each arrival compares the arrived
// count against the height current at that arrival, so the new height
// applies to the next arrival of that round.
func (b *Barrier) Increase() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.height++
	return b.height
}

// Version reports the barrier's current version counter, advanced by
// Commit on the master and mirrored to slaves through instance data.
func (b *Barrier) Version() wire.Version {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Commit bumps the version, starting a fresh round that subsequent
// arrivals will be counted against. Only valid on the master.
func (b *Barrier) Commit() wire.Version {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.version = b.version.Next()
	return b.version
}

// Enter blocks the calling participant until height arrivals (including
// this one) have been recorded for the barrier's current version, or
// until timeout elapses. A zero timeout attempts the round and returns
// immediately; Infinite blocks with no deadline. It returns
// runtimeerr.TimeoutBarrier if the round does not complete in time.
//
// On the node hosting the master, Enter records the arrival directly. On
// a slave, Enter itself sends the BarrierEnter command to the master
// through the sendEnter callback installed by BindSlave, carrying the
// number of rounds this node has already completed (its current leave
// count) as the incarnation the master uses to detect stale retries.
func (b *Barrier) Enter(timeout time.Duration) error {
	b.mu.Lock()
	version := b.version
	incarnation := b.leave.Get()
	isMaster := b.isMaster
	sendEnter := b.sendEnter
	b.mu.Unlock()

	if isMaster {
		b.arrive(b.local, version, incarnation, timeout)
	} else if sendEnter != nil {
		if err := sendEnter(version, incarnation, timeout); err != nil {
			return err
		}
	}

	target := incarnation + 1
	if timeout == Infinite {
		b.leave.WaitEQ(target)
		return nil
	}
	if timeout <= 0 {
		if b.leave.Get() >= target {
			return nil
		}
		return runtimeerr.TimeoutBarrier.Error()
	}
	if !b.leave.TimedWaitEQ(target, timeout) {
		return runtimeerr.TimeoutBarrier.Error()
	}
	return nil
}

// Notify advances the local leave counter, releasing one blocked Enter
// call. The node's command dispatcher calls this when a BarrierEnterReply
// for this barrier arrives from the master.
func (b *Barrier) Notify() {
	b.leave.Increment()
}

// Arrive is the master-side entry point invoked by the command dispatcher
// when a BarrierEnter command is received from node for version, carrying
// the incarnation the sender last observed. It is also called locally by
// Enter on the node hosting the master. cleanup runs on every call so
// abandoned rounds do not accumulate.
func (b *Barrier) Arrive(node wire.NodeID, version wire.Version, incarnation uint32, timeout time.Duration) {
	b.arrive(node, version, incarnation, timeout)
}

func (b *Barrier) arrive(node wire.NodeID, version wire.Version, incarnation uint32, timeout time.Duration) {
	b.mu.Lock()

	b.cleanupLocked()

	req, fresh := b.requestFor(version, incarnation, timeout)
	req.lastActivity = time.Now()

	// A round already in flight for this version that carries a finite
	// timeout can be superseded by a later incarnation: the sender has
	// already left an earlier round under this same version number (the
	// round we still have tracked is stale) or is retrying after its own
	// local timeout without ever having joined what we have. Grounded
	// directly on _cmdEnter in barrier.cpp.
	if !fresh && req.timeout != Infinite {
		switch {
		case req.incarnation < incarnation:
			b.mu.Unlock()
			b.replyTo(node, version)
			return
		case req.incarnation != incarnation:
			req.arrived = make(map[wire.NodeID]struct{})
			req.order = nil
			req.incarnation = incarnation
			req.timeout = timeout
		}
	}

	if _, dup := req.arrived[node]; !dup {
		req.arrived[node] = struct{}{}
		req.order = append(req.order, node)
	}

	current := b.version
	height := b.height

	switch {
	case current.Less(version):
		// The sender is ahead of us: either it observed a commit we have
		// not yet replayed, or contributors disjoint from this node will
		// never let this round close. This defers the arrival into a
		// future round rather than rejecting it outright; a deployment
		// where contributors never overlap in their observed version can
		// still deadlock here, a limitation preserved from the original
		// master and documented in DESIGN.md rather than worked around.
		b.mu.Unlock()
		return

	case version.Less(current):
		// A straggler arrived for a round that has already closed. If the
		// caller gave a finite timeout it wants an immediate answer rather
		// than joining a round that can never include it, so reply now.
		if timeout != Infinite {
			b.mu.Unlock()
			b.replyTo(node, version)
			return
		}
		b.mu.Unlock()
		return
	}

	if uint32(len(req.arrived)) < height {
		b.mu.Unlock()
		return
	}

	delete(b.reqs, version)
	participants := append([]wire.NodeID(nil), req.order...)
	b.mu.Unlock()

	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Less(participants[j])
	})
	for _, p := range participants {
		b.replyTo(p, version)
	}
}

// requestFor returns the in-flight request for version, creating it (and
// stamping its incarnation/timeout) on first arrival. fresh reports
// whether this call created the entry, so the caller can skip the
// incarnation-supersession check on a brand new round. Caller holds b.mu.
func (b *Barrier) requestFor(version wire.Version, incarnation uint32, timeout time.Duration) (req *request, fresh bool) {
	req, ok := b.reqs[version]
	if !ok {
		req = &request{
			lastActivity: time.Now(),
			incarnation:  incarnation,
			timeout:      timeout,
			arrived:      make(map[wire.NodeID]struct{}),
		}
		b.reqs[version] = req
		return req, true
	}
	return req, false
}

// cleanupLocked drops at most one stale round per call, matching the
// original's one-entry-per-invocation sweep rather than a full scan.
// Caller holds b.mu.
func (b *Barrier) cleanupLocked() {
	now := time.Now()
	for v, req := range b.reqs {
		if now.Sub(req.lastActivity) > StaleRoundAge {
			delete(b.reqs, v)
			if b.log != nil {
				b.log.Warn("barrier: discarding stale round", logging.Fields{"version": v.String()})
			}
			return
		}
	}
}

// replyTo notifies one participant that its round completed. On the node
// hosting the master and addressed to the local node, this updates the
// local Monitor directly instead of round-tripping over a connection.
func (b *Barrier) replyTo(node wire.NodeID, version wire.Version) {
	if node == b.local {
		b.Notify()
		return
	}
	if b.send == nil {
		return
	}
	if err := b.send(node, version); err != nil && b.log != nil {
		b.log.Warn("barrier: reply send failed", logging.Fields{
			"to":      node.String(),
			"version": version.String(),
			"error":   err.Error(),
		})
	}
}

// PendingRounds reports the number of versions with an in-flight,
// incomplete round, used for diagnostics and metrics.
func (b *Barrier) PendingRounds() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.reqs)
}
