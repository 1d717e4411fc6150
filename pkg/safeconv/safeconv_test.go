package safeconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustUintToInt(t *testing.T) {
	t.Parallel()

	t.Run("normal_value", func(t *testing.T) {
		t.Parallel()

		got := MustUintToInt(42)
		assert.Equal(t, 42, got)
	})

	t.Run("zero", func(t *testing.T) {
		t.Parallel()

		got := MustUintToInt(0)
		assert.Equal(t, 0, got)
	})

	t.Run("max_int", func(t *testing.T) {
		t.Parallel()

		got := MustUintToInt(uint(MaxInt))
		assert.Equal(t, MaxInt, got)
	})

	t.Run("overflow_panics", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, "safeconv: uint to int overflow", func() {
			MustUintToInt(uint(MaxInt) + 1)
		})
	})
}

func TestIntToUint16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    int
		expected uint16
		ok       bool
	}{
		{name: "zero", input: 0, expected: 0, ok: true},
		{name: "normal_value", input: 42, expected: 42, ok: true},
		{name: "max_uint16", input: math.MaxUint16, expected: math.MaxUint16, ok: true},
		{name: "one_past_max", input: math.MaxUint16 + 1, expected: 0, ok: false},
		{name: "negative", input: -1, expected: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := IntToUint16(tt.input)
			assert.Equal(t, tt.ok, ok, "ok mismatch")
			assert.Equal(t, tt.expected, got, "value mismatch")
		})
	}
}

func TestIntToUint32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    int
		expected uint32
		ok       bool
	}{
		{name: "zero", input: 0, expected: 0, ok: true},
		{name: "normal_value", input: 70000, expected: 70000, ok: true},
		{name: "max_uint32", input: int(MaxUint32), expected: MaxUint32, ok: true},
		{name: "one_past_max", input: int(MaxUint32) + 1, expected: 0, ok: false},
		{name: "negative", input: -7, expected: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := IntToUint32(tt.input)
			assert.Equal(t, tt.ok, ok, "ok mismatch")
			assert.Equal(t, tt.expected, got, "value mismatch")
		})
	}
}
