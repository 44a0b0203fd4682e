// Package checksum seals and verifies backup payloads.
//
// The algorithm is fixed for cross-version envelope compatibility: the
// payload's compact JSON text is folded one UTF-16 code unit at a time into
// a 32-bit signed accumulator (h = h*31 + c, two's-complement wrap), and the
// result is the lowercase hex of the absolute value. Envelopes produced by
// any prior release verify against this implementation.
package checksum

import (
	"bytes"
	"encoding/json"
	"strconv"
	"unicode/utf16"
)

// Seal computes the checksum of a JSON payload. It never fails: any input
// yields a checksum, and tampering is detected by the caller comparing sums.
func Seal(payload []byte) string {
	var h int32
	for _, u := range utf16.Encode([]rune(string(compact(payload)))) {
		h = h*31 + int32(u)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 16)
}

// Verify reports whether sum seals payload.
func Verify(payload []byte, sum string) bool {
	return Seal(payload) == sum
}

// compact strips inter-token whitespace so that a pretty-printed envelope
// still verifies. Inputs that are not valid JSON are hashed as-is.
func compact(payload []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return payload
	}
	return buf.Bytes()
}
