// Package safeconv provides checked integer conversions. The Must variants panic
// on overflow; the plain variants report whether the value fits.
package safeconv

import "math"

// MaxInt is the maximum value for int type (platform-dependent).
const MaxInt = int(^uint(0) >> 1)

// MaxUint16 is the maximum value for uint16 type.
const MaxUint16 = uint16(math.MaxUint16)

// MaxUint32 is the maximum value for uint32 type.
const MaxUint32 = uint32(math.MaxUint32)

// MustUintToInt converts uint to int, panics on overflow.
// Use only when overflow is logically impossible.
func MustUintToInt(v uint) int {
	if v > uint(MaxInt) {
		panic("safeconv: uint to int overflow")
	}

	return int(v)
}

// IntToUint16 converts int to uint16. The second result is false when v is
// negative or larger than MaxUint16.
func IntToUint16(v int) (uint16, bool) {
	if v < 0 || v > int(MaxUint16) {
		return 0, false
	}

	return uint16(v), true
}

// IntToUint32 converts int to uint32. The second result is false when v is
// negative or larger than MaxUint32.
func IntToUint32(v int) (uint32, bool) {
	if v < 0 || uint64(v) > uint64(MaxUint32) {
		return 0, false
	}

	return uint32(v), true
}
