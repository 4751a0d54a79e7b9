// Package bits provides power-of-two alignment arithmetic on addresses and
// sizes. All alignment arguments must be powers of two; results are undefined
// otherwise.
package bits

// IsPow2 reports whether x is a power of two. Zero is not a power of two.
func IsPow2(x uintptr) bool {
	return x != 0 && x&(x-1) == 0
}

// AlignUp returns x rounded up to the next multiple of align.
//
// Example:
//
//	AlignUp(1, 4096)    = 4096
//	AlignUp(4096, 4096) = 4096
//	AlignUp(4097, 4096) = 8192
func AlignUp(x, align uintptr) uintptr {
	return (x + align - 1) &^ (align - 1)
}

// AlignDown returns x rounded down to the previous multiple of align.
func AlignDown(x, align uintptr) uintptr {
	return x &^ (align - 1)
}

// IsAligned reports whether x is a multiple of align.
func IsAligned(x, align uintptr) bool {
	return x&(align-1) == 0
}

// NextPow2 returns the smallest power of two greater than or equal to x.
// NextPow2(0) is 1.
func NextPow2(x uintptr) uintptr {
	if x <= 1 {
		return 1
	}
	p := uintptr(1)
	for p < x {
		p <<= 1
	}
	return p
}
