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

package wire

import "strconv"

// sentinel is the reserved High half of a Version that marks it as a
// non-concrete, special value rather than an ordinary monotonic counter.
type sentinel uint64

const (
	sentinelConcrete sentinel = iota
	sentinelNone
	sentinelFirst
	sentinelOldest
	sentinelNext
	sentinelInvalid
	sentinelHead
)

// Version is a 128-bit monotonic label of an object snapshot: a concrete
// counter (Low) plus a sentinel tag (High). Concrete versions compare by
// Low; any sentinel compares greater than any concrete version, so a
// real version is always less than head.
type Version struct {
	Low  uint64
	High uint64
}

var (
	// VersionNone means "no version applies", used for OBJECT_VERSION_NONE.
	VersionNone = Version{High: uint64(sentinelNone)}
	// VersionFirst is assigned to a freshly registered master object.
	VersionFirst = Version{High: uint64(sentinelFirst)}
	// VersionOldest requests the oldest version still cached by the master.
	VersionOldest = Version{High: uint64(sentinelOldest)}
	// VersionNext requests the next version to be committed.
	VersionNext = Version{High: uint64(sentinelNext)}
	// VersionInvalid marks a version that could not be resolved.
	VersionInvalid = Version{High: uint64(sentinelInvalid)}
	// VersionHead always compares greater than any concrete version.
	VersionHead = Version{High: uint64(sentinelHead)}

	// ObjectVersionNone pairs the zero object ID with VersionNone.
	ObjectVersionNone = struct {
		ID      ObjectID
		Version Version
	}{ID: ZeroID, Version: VersionNone}
)

// IsSentinel reports whether v is one of the reserved special values
// rather than a concrete, totally-ordered version counter.
func (v Version) IsSentinel() bool {
	return v.High != uint64(sentinelConcrete)
}

// Concrete builds a concrete version from a monotonic counter.
func Concrete(n uint64) Version {
	return Version{Low: n, High: uint64(sentinelConcrete)}
}

// Less implements a total order where sentinels sort after every concrete
// version; among concrete versions, Low decides; among sentinels, no
// ordering is promised or needed by the protocol.
func (v Version) Less(other Version) bool {
	if v.IsSentinel() || other.IsSentinel() {
		if v.IsSentinel() && !other.IsSentinel() {
			return false
		}
		if !v.IsSentinel() && other.IsSentinel() {
			return true
		}
		return false
	}
	return v.Low < other.Low
}

// LessOrEqual is Less(other) || Equal(other).
func (v Version) LessOrEqual(other Version) bool {
	return v.Equal(other) || v.Less(other)
}

// Equal compares both halves directly.
func (v Version) Equal(other Version) bool {
	return v.Low == other.Low && v.High == other.High
}

// Next returns the concrete successor of a concrete version. Calling Next
// on a sentinel is a programming error in the caller and returns Concrete(0).
func (v Version) Next() Version {
	if v.IsSentinel() {
		return Concrete(0)
	}
	return Concrete(v.Low + 1)
}

var sentinelNames = map[sentinel]string{
	sentinelNone:    "none",
	sentinelFirst:   "first",
	sentinelOldest:  "oldest",
	sentinelNext:    "next",
	sentinelInvalid: "invalid",
	sentinelHead:    "head",
}

// String renders a concrete version as its counter, or a sentinel by name.
func (v Version) String() string {
	if !v.IsSentinel() {
		return strconv.FormatUint(v.Low, 10)
	}
	if n, ok := sentinelNames[sentinel(v.High)]; ok {
		return n
	}
	return "sentinel(" + strconv.FormatUint(v.High, 10) + ")"
}
