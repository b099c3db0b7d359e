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
	"testing"
	"time"

	"github.com/eilecollage/collage/internal/logging"
	"github.com/eilecollage/collage/internal/wire"
)

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := NewRegistry(logging.Noop())
	id := wire.GenerateID()
	local := wire.GenerateID()

	if _, err := r.Register(id, local, &Unbuffered{}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := r.Register(id, local, &Unbuffered{}); err == nil {
		t.Fatalf("second Register with the same ID should fail")
	}
}

func TestLookupAndUnmap(t *testing.T) {
	r := NewRegistry(logging.Noop())
	id := wire.GenerateID()
	r.Register(id, wire.GenerateID(), &Unbuffered{})

	if _, ok := r.Lookup(id); !ok {
		t.Fatalf("Lookup() should find a just-registered object")
	}
	r.Unmap(id)
	if _, ok := r.Lookup(id); ok {
		t.Fatalf("Lookup() should miss after Unmap")
	}
}

func TestAttachedCommitAdvancesHead(t *testing.T) {
	r := NewRegistry(logging.Noop())
	id := wire.GenerateID()
	a, _ := r.Register(id, wire.GenerateID(), &Unbuffered{})

	if !a.Head().IsSentinel() {
		t.Fatalf("freshly registered object should start at the VersionFirst sentinel")
	}
	v := a.Commit()
	if v.IsSentinel() || v.Low != 0 {
		t.Fatalf("first Commit() = %v, want concrete 0", v)
	}
}

func TestAttachedSyncUnblocksOnCommit(t *testing.T) {
	r := NewRegistry(logging.Noop())
	id := wire.GenerateID()
	a, _ := r.Register(id, wire.GenerateID(), &Unbuffered{})

	target := wire.Concrete(2)
	done := make(chan struct{})
	go func() {
		a.Sync(target)
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("Sync returned before head reached the target version")
	case <-time.After(20 * time.Millisecond):
	}

	a.Commit()
	a.Commit()
	a.Commit()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Sync did not unblock after enough commits")
	}
}
