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

package config

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() must validate cleanly: %v", err)
	}
}

func TestValidateRejectsMissingListen(t *testing.T) {
	cfg := Default()
	cfg.Listen = nil
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for empty Listen")
	}
}

func TestValidateRejectsUnknownNodeType(t *testing.T) {
	cfg := Default()
	cfg.NodeType = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for an unknown node_type")
	}
}

func TestValidateRejectsUnknownScheme(t *testing.T) {
	cfg := Default()
	cfg.Listen[0].Scheme = "CARRIER_PIGEON"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for an unsupported listen scheme")
	}
}
