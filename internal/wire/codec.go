// Copyright 2026 The Waypoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wire

import (
	"strings"

	"github.com/WarjoyPuddle/waypoint/internal/contract"
)

const digitAlphabet = "0123456789abcdef"

// EncodeUint renders num in the given base (2..16) using the digits
// 0-9a-f, most significant digit first. It exists so that values that
// must survive an exec(2) boundary as plain text (descriptor numbers
// in environment variables) have a single, explicit encoding instead
// of relying on fmt's base-10-only verbs.
func EncodeUint(num uint64, base int) string {
	contract.Assert(2 <= base && base <= len(digitAlphabet), "base must be between 2 and 16, got %d", base)

	if num == 0 {
		return "0"
	}

	var digits []byte
	b := uint64(base)
	for num > 0 {
		digits = append(digits, digitAlphabet[num%b])
		num /= b
	}

	// digits were accumulated least-significant first; reverse them.
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	return string(digits)
}

// DecodeUint parses str as a number in the given base (2..16), using
// the digits 0-9a-f. It is the inverse of EncodeUint.
func DecodeUint(str string, base int) uint64 {
	contract.Assert(2 <= base && base <= len(digitAlphabet), "base must be between 2 and 16, got %d", base)
	contract.Assert(len(str) > 0, "cannot decode an empty string")

	var result uint64
	b := uint64(base)
	for _, c := range str {
		digit := strings.IndexRune(digitAlphabet, c)
		contract.Assert(digit >= 0 && digit < base, "character %q is not a valid base-%d digit", c, base)
		result = result*b + uint64(digit)
	}

	return result
}
