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
	"github.com/eilecollage/collage/internal/wire"
)

// HandshakeStep enumerates the three frames exchanged when two nodes
// establish a session, mirroring the ConnectReq/ConnectReply/ConnectAck
// triple from the original connection setup.
type HandshakeStep uint32

const (
	ConnectReq HandshakeStep = iota + 1
	ConnectReply
	ConnectAck
)

// ResolveRace decides which side of a simultaneous bidirectional connect
// attempt should win, using the same lexicographically-lower-NodeID
// tie-break the original applies: the node with the smaller ID keeps its
// outbound attempt and the other side drops its own in favor of the
// incoming one, so exactly one session survives.
func ResolveRace(local, remote wire.NodeID) (keepOutbound bool) {
	return local.Less(remote)
}
