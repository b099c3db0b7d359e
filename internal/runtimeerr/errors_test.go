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
	"fmt"
	"testing"
)

func TestKindErrorCarriesKind(t *testing.T) {
	err := TimeoutBarrier.Error()
	if err.Kind() != TimeoutBarrier {
		t.Fatalf("Kind() = %v, want TimeoutBarrier", err.Kind())
	}
}

func TestErrorAddAndHasKind(t *testing.T) {
	parent := ProtocolError.Error()
	err := TimeoutRead.Error(parent)

	if !err.HasKind(ProtocolError) {
		t.Fatalf("HasKind(ProtocolError) = false, want true via parent chain")
	}
	if !err.HasKind(TimeoutRead) {
		t.Fatalf("HasKind(TimeoutRead) = false, want true for its own kind")
	}
	if err.HasKind(UnknownObject) {
		t.Fatalf("HasKind(UnknownObject) = true, want false")
	}
}

func TestKindOfUnwrapsForeignErrors(t *testing.T) {
	if KindOf(nil) != Unknown {
		t.Fatalf("KindOf(nil) = %v, want Unknown", KindOf(nil))
	}
	wrapped := fmt.Errorf("register: %w", DuplicateRegister.Error())
	if KindOf(wrapped) != DuplicateRegister {
		t.Fatalf("KindOf(wrapped) = %v, want DuplicateRegister", KindOf(wrapped))
	}
}

func TestWithMessageLeavesOriginalUnchanged(t *testing.T) {
	base := NotAttached.Error()
	withMsg := WithMessage(base, "object 42")

	if base.Error() == withMsg.Error() {
		t.Fatalf("WithMessage must not mutate the original error in place")
	}
	if withMsg.Kind() != NotAttached {
		t.Fatalf("Kind() = %v, want NotAttached", withMsg.Kind())
	}
}

func TestKindStringKnownAndUnknown(t *testing.T) {
	if ConnectionReset.String() != "connection-reset" {
		t.Fatalf("String() = %q, want \"connection-reset\"", ConnectionReset.String())
	}
	if Kind(999).String() != "999" {
		t.Fatalf("String() = %q, want \"999\" for an unregistered kind", Kind(999).String())
	}
}
