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

import "testing"

func TestVersionOrderingConcrete(t *testing.T) {
	a := Concrete(1)
	b := Concrete(2)
	if !a.Less(b) {
		t.Fatalf("expected %v < %v", a, b)
	}
	if b.Less(a) {
		t.Fatalf("expected %v not < %v", b, a)
	}
}

func TestVersionSentinelsSortAfterConcrete(t *testing.T) {
	c := Concrete(1 << 40)
	cases := []Version{VersionHead, VersionNone, VersionInvalid, VersionOldest, VersionNext, VersionFirst}
	for _, s := range cases {
		if !c.Less(s) {
			t.Errorf("expected concrete %v < sentinel %v", c, s)
		}
		if s.Less(c) {
			t.Errorf("expected sentinel %v not < concrete %v", s, c)
		}
	}
}

func TestVersionEqualAndLessOrEqual(t *testing.T) {
	a := Concrete(5)
	b := Concrete(5)
	if !a.Equal(b) {
		t.Fatalf("expected %v == %v", a, b)
	}
	if !a.LessOrEqual(b) {
		t.Fatalf("expected %v <= %v", a, b)
	}
}

func TestVersionNext(t *testing.T) {
	if got := Concrete(3).Next(); got.Low != 4 || got.IsSentinel() {
		t.Fatalf("Next() = %+v, want concrete 4", got)
	}
	if got := VersionFirst.Next(); got.Low != 0 || got.IsSentinel() {
		t.Fatalf("Next() on sentinel = %+v, want concrete 0", got)
	}
}

func TestVersionStringRoundTrips(t *testing.T) {
	if Concrete(42).String() != "42" {
		t.Fatalf("String() = %q, want \"42\"", Concrete(42).String())
	}
	if VersionHead.String() != "head" {
		t.Fatalf("String() = %q, want \"head\"", VersionHead.String())
	}
}

func TestIDLessIsTotalOrder(t *testing.T) {
	a := ID{0, 0, 1}
	b := ID{0, 0, 2}
	if !a.Less(b) || b.Less(a) {
		t.Fatalf("expected strict total order between %v and %v", a, b)
	}
	if a.Less(a) {
		t.Fatalf("ID.Less must be irreflexive")
	}
}

func TestIDParseRoundTrip(t *testing.T) {
	id := GenerateID()
	parsed, err := ParseID(id.String())
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	if parsed != id {
		t.Fatalf("ParseID round-trip mismatch: %v != %v", parsed, id)
	}
}
