// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wire

import "testing"

func TestEncodeDecodeUintRoundTrip(t *testing.T) {
	cases := []struct {
		num  uint64
		base int
	}{
		{0, 10},
		{1, 2},
		{255, 16},
		{1234567890, 10},
		{3, 4},
		{^uint64(0), 16},
	}

	for _, c := range cases {
		encoded := EncodeUint(c.num, c.base)
		got := DecodeUint(encoded, c.base)
		if got != c.num {
			t.Errorf("EncodeUint(%d, %d) = %q, DecodeUint back = %d, want %d", c.num, c.base, encoded, got, c.num)
		}
	}
}

func TestEncodeUintKnownValues(t *testing.T) {
	if got := EncodeUint(255, 16); got != "ff" {
		t.Errorf("EncodeUint(255, 16) = %q, want %q", got, "ff")
	}
	if got := EncodeUint(10, 2); got != "1010" {
		t.Errorf("EncodeUint(10, 2) = %q, want %q", got, "1010")
	}
	if got := EncodeUint(0, 10); got != "0" {
		t.Errorf("EncodeUint(0, 10) = %q, want %q", got, "0")
	}
}

func TestDecodeUintRejectsOutOfRangeDigit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("DecodeUint(\"f\", 10) did not panic on an out-of-base digit")
		}
	}()
	DecodeUint("f", 10)
}
