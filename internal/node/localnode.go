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

package node

import (
	"sync"
	"time"

	"github.com/eilecollage/collage/internal/barrier"
	"github.com/eilecollage/collage/internal/buffer"
	"github.com/eilecollage/collage/internal/command"
	"github.com/eilecollage/collage/internal/logging"
	"github.com/eilecollage/collage/internal/objcache"
	"github.com/eilecollage/collage/internal/object"
	"github.com/eilecollage/collage/internal/runtimeerr"
	"github.com/eilecollage/collage/internal/transport"
	"github.com/eilecollage/collage/internal/wire"
)

// SendTokenCapacity bounds how many sends a peer may have outstanding
// before AcquireSendToken blocks, the Go-side equivalent of the
// original's fixed-size send-token FIFO.
var SendTokenCapacity = 64

// LocalNode is one process's identity in the runtime: it owns a listening
// transport, the set of connected Peers, the attached-object registry,
// any barriers it masters or mirrors, and the pooled buffer allocator
// feeding its receive path. Grounded on co/localNode.h's receiver/command
// split rather than a single reactor loop: a readPump per connection only
// frames bytes into Commands, receiverLoop dispatches object-addressed
// commands, and commandLoop dispatches node-directed commands.
type LocalNode struct {
	mu    sync.RWMutex
	id    wire.NodeID
	pool  *buffer.Pool
	peers map[wire.NodeID]*Peer

	listener transport.Connection
	accept   chan transport.Connection

	objects  *object.Registry
	barriers map[wire.ObjectID]*barrier.Barrier
	cache    *objcache.Cache
	pending  *command.Pending

	mapMu      sync.Mutex
	mapWaiters map[wire.ObjectID]chan mapResult

	rcvQueue *command.Queue
	cmdQueue *command.Queue

	log logging.Logger

	stop   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// Config carries the tunables a LocalNode needs at construction, normally
// populated from config.RuntimeConfig.
type Config struct {
	ID                wire.NodeID
	InstanceCacheSize int
}

// New constructs an unstarted LocalNode; call Listen to begin accepting
// peers and spawn its receiver/command goroutines.
func New(cfg Config, log logging.Logger) *LocalNode {
	if cfg.ID.IsZero() {
		cfg.ID = wire.GenerateID()
	}
	l := log.With(logging.Fields{"node": cfg.ID.String()})
	return &LocalNode{
		id:         cfg.ID,
		pool:       buffer.NewPool(),
		peers:      make(map[wire.NodeID]*Peer),
		accept:     make(chan transport.Connection, 16),
		objects:    object.NewRegistry(l),
		barriers:   make(map[wire.ObjectID]*barrier.Barrier),
		cache:      objcache.New(cfg.InstanceCacheSize),
		pending:    command.NewPending(),
		rcvQueue:   command.NewQueue(),
		cmdQueue:   command.NewQueue(),
		mapWaiters: make(map[wire.ObjectID]chan mapResult),
		log:        l,
		stop:       make(chan struct{}),
	}
}

// mapResult carries the outcome of a MapObjectReq/Reply round trip back
// to the blocked MapObject caller.
type mapResult struct {
	version wire.Version
	payload []byte
	status  uint32
}

// ID returns this node's identifier.
func (l *LocalNode) ID() wire.NodeID { return l.id }

// Objects exposes the attached-object registry for callers that need
// direct Lookup/Unmap access; registering or mapping a new object should
// go through RegisterObject/MapObject instead so commands that raced
// ahead of the attachment are redelivered.
func (l *LocalNode) Objects() *object.Registry { return l.objects }

// RegisterObject attaches id as a new master-side object and redelivers
// any object-addressed command that arrived for it before this call,
// rather than leaving them stuck on the pending list until PendingTTL
// discards them.
func (l *LocalNode) RegisterObject(id wire.ObjectID, mgr object.ChangeManager) (*object.Attached, error) {
	a, err := l.objects.Register(id, l.id, mgr)
	if err != nil {
		return nil, err
	}
	l.drainPending(id)
	return a, nil
}

// drainPending redelivers every command held for id now that it is
// attached, pushing each back onto the receive queue so receiverLoop
// dispatches it exactly as it would a fresh arrival.
func (l *LocalNode) drainPending(id wire.ObjectID) {
	for _, cmd := range l.pending.Drain(id) {
		l.rcvQueue.Push(cmd)
	}
}

// Listen starts accepting inbound connections on conn (already Listen'd
// by the caller) and spawns the receiver and command goroutines.
func (l *LocalNode) Listen(conn transport.Connection) {
	l.mu.Lock()
	l.listener = conn
	l.mu.Unlock()

	l.wg.Add(3)
	go l.acceptLoop()
	go l.receiverLoop()
	go l.commandLoop()
}

// acceptLoop polls the listening connection for inbound peers and starts
// a per-peer read pump for each.
func (l *LocalNode) acceptLoop() {
	defer l.wg.Done()
	l.listener.AcceptNonBlocking()
	for {
		select {
		case <-l.stop:
			return
		case <-l.listener.Notifier().Ready():
			if conn := l.listener.AcceptSync(); conn != nil {
				l.handleAccepted(conn)
			}
			l.listener.AcceptNonBlocking()
		}
	}
}

func (l *LocalNode) handleAccepted(conn transport.Connection) {
	peer := NewPeer(wire.ZeroID, conn, SendTokenCapacity, l.log)
	l.wg.Add(1)
	go l.readPump(peer)
}

// Connect actively dials desc, sends a ConnectReq carrying this node's ID
// and starts a read pump for the connection. It returns without waiting
// for a reply: no ConnectReply or ConnectAck is processed, and the
// returned Peer keeps a zero ID and is not added to the node's peer
// table, so lookups by NodeID (MapObject, SendBarrierEnter,
// PushObjectData) do not find it.
func (l *LocalNode) Connect(desc transport.Description, conn transport.Connection) (*Peer, error) {
	if !conn.Connect(desc) {
		return nil, runtimeerr.TimeoutConnect.Error()
	}
	peer := NewPeer(wire.ZeroID, conn, SendTokenCapacity, l.log)
	if err := l.sendHandshake(peer, CmdConnectReq); err != nil {
		return nil, err
	}
	l.wg.Add(1)
	go l.readPump(peer)
	return peer, nil
}

func (l *LocalNode) sendHandshake(peer *Peer, step uint32) error {
	w := wire.NewWriter()
	w.PutID(l.id)
	payload := w.Bytes()
	frame := make([]byte, wire.FrameHeaderFields+len(payload))
	wire.PutHeader(frame, uint64(len(frame)), wire.TypeNode, step)
	copy(frame[wire.FrameHeaderFields:], payload)
	return peer.Send(frame, transport.WriteTimeout)
}

// readPump frames bytes off one peer's connection and pushes completed
// Commands onto the node's shared receive queue, matching the original's
// separation between "a thread per connection that only frames" and "one
// thread that only dispatches".
func (l *LocalNode) readPump(peer *Peer) {
	defer l.wg.Done()
	header := make([]byte, wire.HeaderSize)
	for {
		select {
		case <-l.stop:
			return
		default:
		}

		peer.conn.ReadNonBlocking(header, len(header))
		n := peer.conn.ReadSync(true)
		if n == transport.ReadError || n == 0 {
			l.dropPeer(peer)
			return
		}
		if n == transport.ReadTimeout {
			continue
		}

		size, err := wire.PeekSize(header[:n])
		if err != nil {
			l.dropPeer(peer)
			return
		}

		buf := l.pool.Alloc(int(size))
		buf.SetLength(int(size))
		copy(buf.Bytes(), header[:n])
		rest := buf.Bytes()[n:size]
		if len(rest) > 0 {
			peer.conn.ReadNonBlocking(rest, len(rest))
			if peer.conn.ReadSync(true) <= 0 {
				buf.Release()
				l.dropPeer(peer)
				return
			}
		}

		cmd, err := command.FromBuffer(buf, peer.ID)
		if err != nil {
			buf.Release()
			continue
		}
		peer.Touch()
		if cmd.IsObjectCommand() {
			l.rcvQueue.Push(cmd)
		} else {
			l.cmdQueue.Push(cmd)
		}
	}
}

func (l *LocalNode) dropPeer(peer *Peer) {
	l.mu.Lock()
	delete(l.peers, peer.ID)
	l.mu.Unlock()
	peer.Close()
	l.log.Info("peer lost", logging.Fields{"peer": peer.ID.String()})
}

// receiverLoop dispatches object-addressed commands to the attached
// object they target, holding them on the pending list if the object has
// not been attached yet.
func (l *LocalNode) receiverLoop() {
	defer l.wg.Done()
	for {
		cmd, ok := l.rcvQueue.Pop()
		if !ok {
			return
		}
		target := cmd.Object
		if _, attached := l.objects.Lookup(target); !attached {
			l.pending.Hold(target, cmd)
			continue
		}
		l.dispatchObjectCommand(cmd)
	}
}

// dispatchObjectCommand applies an object-addressed command to its
// attached instance. Every call here runs on the single receiverLoop
// goroutine, so ApplyRemote never races itself across two pushes to the
// same object.
func (l *LocalNode) dispatchObjectCommand(cmd *command.Command) {
	defer cmd.Release()
	a, ok := l.objects.Lookup(cmd.Object)
	if !ok {
		if l.log != nil {
			l.log.Warn("object command for unattached object", logging.Fields{"object": cmd.Object.String()})
		}
		return
	}
	switch cmd.CommandID() {
	case CmdPushObjectData:
		version, err := cmd.Reader().Version()
		if err != nil {
			return
		}
		payload, err := cmd.Reader().Bytes()
		if err != nil {
			return
		}
		if err := a.ApplyRemote(version, payload); err != nil && l.log != nil {
			l.log.Error("failed to apply pushed object data", logging.Fields{
				"object": cmd.Object.String(), "version": version.String(), "error": err.Error(),
			})
			return
		}
		l.cache.Store(objcache.Key{Object: cmd.Object, Version: version}, payload)
	}
}

// commandLoop dispatches node-directed commands: handshake steps, keep-
// alive, and barrier protocol messages.
func (l *LocalNode) commandLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(KeepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.pingIdlePeers()
			l.pending.Sweep()
		default:
		}

		cmd, ok := l.cmdQueue.Pop()
		if !ok {
			return
		}
		l.dispatchNodeCommand(cmd)
	}
}

func (l *LocalNode) dispatchNodeCommand(cmd *command.Command) {
	defer cmd.Release()
	switch cmd.CommandID() {
	case CmdBarrierEnter:
		l.handleBarrierEnter(cmd)
	case CmdBarrierEnterReply:
		l.handleBarrierEnterReply(cmd)
	case CmdMapObjectReq:
		l.handleMapObjectReq(cmd)
	case CmdMapObjectReply:
		l.handleMapObjectReply(cmd)
	case CmdPing:
		// Touch already recorded the liveness signal in readPump; no
		// reply payload is required beyond that for a bare keep-alive.
	}
}

func (l *LocalNode) handleBarrierEnter(cmd *command.Command) {
	r := cmd.Reader()
	objID, err := r.ID()
	if err != nil {
		return
	}
	version, err := r.Version()
	if err != nil {
		return
	}
	incarnation, err := r.Uint32()
	if err != nil {
		return
	}
	timeoutMS, err := r.Uint64()
	if err != nil {
		return
	}

	l.mu.RLock()
	b, ok := l.barriers[objID]
	l.mu.RUnlock()
	if !ok {
		return
	}
	timeout := barrier.Infinite
	if timeoutMS > 0 {
		timeout = time.Duration(timeoutMS) * time.Millisecond
	}
	b.Arrive(cmd.Sender, version, incarnation, timeout)
}

func (l *LocalNode) handleBarrierEnterReply(cmd *command.Command) {
	r := cmd.Reader()
	objID, err := r.ID()
	if err != nil {
		return
	}
	l.mu.RLock()
	b, ok := l.barriers[objID]
	l.mu.RUnlock()
	if ok {
		b.Notify()
	}
}

// mapStatusOK and mapStatusUnavailable are the wire status codes carried
// by a MapObjectReply.
const (
	mapStatusOK uint32 = iota
	mapStatusUnavailable
)

// MapObject attaches id as a local slave instance of an object mastered
// on master, resolves requested against the rules mapObject() documents
// (VersionNone maps with no data, VersionOldest maps the oldest version
// the master still has, a concrete version maps exactly there or blocks
// until the master commits that far, and a concrete version the master no
// longer has falls back to its oldest retained version), and applies
// whatever the master resolves before returning.
func (l *LocalNode) MapObject(master wire.NodeID, id wire.ObjectID, mgr object.ChangeManager, requested wire.Version, timeout time.Duration) (*object.Attached, error) {
	a, err := l.objects.Map(id, master, mgr)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	peer, ok := l.peers[master]
	l.mu.RUnlock()
	if !ok {
		return nil, runtimeerr.NotAttached.Error()
	}

	wait := make(chan mapResult, 1)
	l.mapMu.Lock()
	l.mapWaiters[id] = wait
	l.mapMu.Unlock()
	defer func() {
		l.mapMu.Lock()
		delete(l.mapWaiters, id)
		l.mapMu.Unlock()
	}()

	w := wire.NewWriter()
	w.PutID(id).PutVersion(requested)
	if timeout == barrier.Infinite {
		w.PutUint64(0)
	} else {
		w.PutUint64(uint64(timeout / time.Millisecond))
	}
	payload := w.Bytes()
	frame := make([]byte, wire.FrameHeaderFields+len(payload))
	wire.PutHeader(frame, uint64(len(frame)), wire.TypeNode, CmdMapObjectReq)
	copy(frame[wire.FrameHeaderFields:], payload)
	if err := peer.Send(frame, transport.WriteTimeout); err != nil {
		l.objects.Unmap(id)
		return nil, err
	}

	var deadline <-chan time.Time
	if timeout != barrier.Infinite {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	select {
	case res := <-wait:
		if res.status != mapStatusOK {
			l.objects.Unmap(id)
			return nil, runtimeerr.VersionUnavailable.Error()
		}
		if !res.version.Equal(wire.VersionNone) {
			if err := a.ApplyRemote(res.version, res.payload); err != nil {
				l.objects.Unmap(id)
				return nil, err
			}
			l.cache.Store(objcache.Key{Object: id, Version: res.version}, res.payload)
		}
		l.drainPending(id)
		return a, nil
	case <-deadline:
		l.objects.Unmap(id)
		return nil, runtimeerr.TimeoutMap.Error()
	}
}

// handleMapObjectReq is the master-side handler for a MapObjectReq: it
// resolves the requested version against this node's Attached copy and
// the instance-data cache, packs the result and replies directly to the
// requester.
func (l *LocalNode) handleMapObjectReq(cmd *command.Command) {
	r := cmd.Reader()
	objID, err := r.ID()
	if err != nil {
		return
	}
	requested, err := r.Version()
	if err != nil {
		return
	}
	timeoutMS, err := r.Uint64()
	if err != nil {
		return
	}
	timeout := barrier.Infinite
	if timeoutMS > 0 {
		timeout = time.Duration(timeoutMS) * time.Millisecond
	}

	a, ok := l.objects.Lookup(objID)
	if !ok {
		l.replyMapObject(cmd.Sender, objID, mapStatusUnavailable, wire.VersionInvalid, nil)
		return
	}

	resolved, err := l.resolveMapVersion(a, objID, requested, timeout)
	if err != nil {
		l.replyMapObject(cmd.Sender, objID, mapStatusUnavailable, wire.VersionInvalid, nil)
		return
	}
	if resolved.Equal(wire.VersionNone) {
		l.replyMapObject(cmd.Sender, objID, mapStatusOK, wire.VersionNone, nil)
		return
	}
	payload, err := a.Manager.Pack(wire.VersionNone)
	if err != nil {
		l.replyMapObject(cmd.Sender, objID, mapStatusUnavailable, wire.VersionInvalid, nil)
		return
	}
	l.replyMapObject(cmd.Sender, objID, mapStatusOK, resolved, payload)
}

// resolveMapVersion implements the NONE/OLDEST/concrete-or-oldest/newer-
// than-head-blocks rules documented on MapObject, using the instance
// cache to find the oldest still-available version and Attached.TimedSync
// to wait out a request for a version ahead of head.
func (l *LocalNode) resolveMapVersion(a *object.Attached, objID wire.ObjectID, requested wire.Version, timeout time.Duration) (wire.Version, error) {
	switch {
	case requested.Equal(wire.VersionNone):
		return wire.VersionNone, nil
	case requested.Equal(wire.VersionOldest):
		if v, ok := l.cache.Oldest(objID); ok {
			return v, nil
		}
		return a.Head(), nil
	case requested.IsSentinel():
		return a.Head(), nil
	case requested.LessOrEqual(a.Head()):
		if _, ok := l.cache.Load(objcache.Key{Object: objID, Version: requested}); ok {
			return requested, nil
		}
		if v, ok := l.cache.Oldest(objID); ok {
			return v, nil
		}
		return a.Head(), nil
	default:
		if !a.TimedSync(requested, timeout) {
			return wire.VersionInvalid, runtimeerr.TimeoutMap.Error()
		}
		return requested, nil
	}
}

func (l *LocalNode) replyMapObject(to wire.NodeID, objID wire.ObjectID, status uint32, version wire.Version, payload []byte) {
	l.mu.RLock()
	peer, ok := l.peers[to]
	l.mu.RUnlock()
	if !ok {
		return
	}
	w := wire.NewWriter()
	w.PutID(objID).PutUint32(status).PutVersion(version).PutBytes(payload)
	body := w.Bytes()
	frame := make([]byte, wire.FrameHeaderFields+len(body))
	wire.PutHeader(frame, uint64(len(frame)), wire.TypeNode, CmdMapObjectReply)
	copy(frame[wire.FrameHeaderFields:], body)
	if err := peer.Send(frame, transport.WriteTimeout); err != nil && l.log != nil {
		l.log.Warn("map object reply failed", logging.Fields{"object": objID.String(), "error": err.Error()})
	}
}

// handleMapObjectReply is the slave-side handler: it delivers the
// resolved version and payload to whichever MapObject call is blocked
// waiting on objID, if any.
func (l *LocalNode) handleMapObjectReply(cmd *command.Command) {
	r := cmd.Reader()
	objID, err := r.ID()
	if err != nil {
		return
	}
	status, err := r.Uint32()
	if err != nil {
		return
	}
	version, err := r.Version()
	if err != nil {
		return
	}
	payload, err := r.Bytes()
	if err != nil {
		return
	}

	l.mapMu.Lock()
	wait, ok := l.mapWaiters[objID]
	l.mapMu.Unlock()
	if !ok {
		return
	}
	select {
	case wait <- mapResult{version: version, payload: payload, status: status}:
	default:
	}
}

// AttachBarrier registers a Barrier this node participates in and wires
// its transport callback: BindMaster's reply sender if the caller already
// marked b as master, BindSlave's BarrierEnter sender otherwise. The
// caller is expected to have already called BindMaster(nil) or
// BindSlave(master, nil) to fix the master/slave role before attaching;
// AttachBarrier replaces the placeholder with the real, peer-backed
// callback.
func (l *LocalNode) AttachBarrier(id wire.ObjectID, b *barrier.Barrier) {
	l.mu.Lock()
	l.barriers[id] = b
	l.mu.Unlock()

	if b.IsMaster() {
		b.BindMaster(func(to wire.NodeID, version wire.Version) error {
			return l.sendBarrierEnterReply(to, id, version)
		})
		return
	}
	master := b.Master()
	b.BindSlave(master, func(version wire.Version, incarnation uint32, timeout time.Duration) error {
		return l.SendBarrierEnter(master, id, version, incarnation, timeout)
	})
}

// SendBarrierEnter transmits a BarrierEnter command to a barrier's master,
// used by the slave side of Barrier.Enter before it blocks on the local
// Monitor.
func (l *LocalNode) SendBarrierEnter(master wire.NodeID, objID wire.ObjectID, version wire.Version, incarnation uint32, timeout time.Duration) error {
	l.mu.RLock()
	peer, ok := l.peers[master]
	l.mu.RUnlock()
	if !ok {
		return runtimeerr.NotAttached.Error()
	}

	w := wire.NewWriter()
	w.PutID(objID).PutVersion(version).PutUint32(incarnation)
	if timeout == barrier.Infinite {
		w.PutUint64(0)
	} else {
		w.PutUint64(uint64(timeout / time.Millisecond))
	}
	payload := w.Bytes()
	frame := make([]byte, wire.FrameHeaderFields+len(payload))
	wire.PutHeader(frame, uint64(len(frame)), wire.TypeNode, CmdBarrierEnter)
	copy(frame[wire.FrameHeaderFields:], payload)
	return peer.Send(frame, transport.WriteTimeout)
}

// sendBarrierEnterReply transmits a BarrierEnterReply for objID/version to
// a single participant, used by the master side of Barrier.replyTo to
// unblock a remote Enter call.
func (l *LocalNode) sendBarrierEnterReply(to wire.NodeID, objID wire.ObjectID, version wire.Version) error {
	l.mu.RLock()
	peer, ok := l.peers[to]
	l.mu.RUnlock()
	if !ok {
		return runtimeerr.NotAttached.Error()
	}

	w := wire.NewWriter()
	w.PutID(objID).PutVersion(version)
	payload := w.Bytes()
	frame := make([]byte, wire.FrameHeaderFields+len(payload))
	wire.PutHeader(frame, uint64(len(frame)), wire.TypeNode, CmdBarrierEnterReply)
	copy(frame[wire.FrameHeaderFields:], payload)
	return peer.Send(frame, transport.WriteTimeout)
}

// PushObjectData sends a packed delta or snapshot for objID at version to
// a single peer, framed with the object-command bit set so the receiver
// routes it straight to dispatchObjectCommand instead of the node's own
// command queue.
func (l *LocalNode) PushObjectData(target wire.NodeID, objID wire.ObjectID, version wire.Version, payload []byte) error {
	l.mu.RLock()
	peer, ok := l.peers[target]
	l.mu.RUnlock()
	if !ok {
		return runtimeerr.NotAttached.Error()
	}

	w := wire.NewWriter()
	w.PutID(objID).PutVersion(version).PutBytes(payload)
	body := w.Bytes()
	frame := make([]byte, wire.FrameHeaderFields+len(body))
	wire.PutHeader(frame, uint64(len(frame)), wire.TypeObject, CmdPushObjectData|wire.ObjectCommandBit)
	copy(frame[wire.FrameHeaderFields:], body)
	return peer.Send(frame, transport.WriteTimeout)
}

// CommitObject advances objID's local head by one, packs the change
// manager's delta against base and pushes it to every listed slave. The
// caller supplies the slave set directly since this node does not keep a
// standing subscriber list; a production deployment would derive it from
// the most recent MapObject requests instead.
func (l *LocalNode) CommitObject(objID wire.ObjectID, base wire.Version, slaves []wire.NodeID) (wire.Version, error) {
	a, ok := l.objects.Lookup(objID)
	if !ok {
		return wire.Version{}, runtimeerr.UnknownObject.Error()
	}
	version := a.Commit()
	payload, err := a.Manager.Pack(base)
	if err != nil {
		return version, err
	}
	for _, slave := range slaves {
		if err := l.PushObjectData(slave, objID, version, payload); err != nil && l.log != nil {
			l.log.Warn("push object data failed", logging.Fields{
				"object": objID.String(), "target": slave.String(), "error": err.Error(),
			})
		}
	}
	return version, nil
}

func (l *LocalNode) pingIdlePeers() {
	l.mu.RLock()
	idle := make([]*Peer, 0)
	for _, p := range l.peers {
		if p.Idle(KeepAliveTimeout) {
			idle = append(idle, p)
		}
	}
	l.mu.RUnlock()
	for _, p := range idle {
		l.dropPeer(p)
	}
}

// Close stops the receiver/command goroutines and closes every peer
// connection, the Go equivalent of sending StopRcv/StopCmd
// self-connection events into the original's reactor loop.
func (l *LocalNode) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	peers := make([]*Peer, 0, len(l.peers))
	for _, p := range l.peers {
		peers = append(peers, p)
	}
	l.mu.Unlock()

	close(l.stop)
	l.rcvQueue.Close()
	l.cmdQueue.Close()
	for _, p := range peers {
		p.Close()
	}
	if l.listener != nil {
		l.listener.Close()
	}
	l.wg.Wait()
}
