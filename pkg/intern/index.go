package intern

import (
	"github.com/purpl3F0x/typst/pkg/safeconv"
)

// Index is the compact representation of a slot number. uint16 is the narrow
// encoding and uint32 the wide one.
type Index interface {
	~uint16 | ~uint32
}

// Width names an index encoding.
type Width uint8

// Index widths.
const (
	Narrow Width = iota + 1
	Wide
)

// String implements fmt.Stringer.
func (w Width) String() string {
	switch w {
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	default:
		return "unknown"
	}
}

// WidthOf reports the encoding used by I.
func WidthOf[I Index]() Width {
	if uint64(^I(0)) == uint64(safeconv.MaxUint16) {
		return Narrow
	}

	return Wide
}

// Capacity returns the number of distinct slots I can address. Slot 0 is
// reserved, so this equals the largest representable value of I.
func Capacity[I Index]() int {
	limit := uint64(^I(0))
	if limit > uint64(safeconv.MaxInt) {
		return safeconv.MaxInt
	}

	return int(limit)
}

// FromCount converts a 1-based slot number into I. It returns false when n is
// not positive or does not fit into I.
func FromCount[I Index](n int) (I, bool) {
	if n <= 0 {
		return 0, false
	}

	if WidthOf[I]() == Narrow {
		v, ok := safeconv.IntToUint16(n)

		return I(v), ok
	}

	v, ok := safeconv.IntToUint32(n)
	if !ok {
		return 0, false
	}

	return I(v), true
}

// ToCount converts an index back into its slot number.
func ToCount[I Index](i I) int {
	return safeconv.MustUintToInt(uint(i))
}
