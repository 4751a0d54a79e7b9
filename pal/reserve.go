package pal

import (
	"sync/atomic"

	"github.com/achamayou/snmalloc/internal/bits"
)

// Strategy selects how Reserve obtains address space. It is fixed when the
// PAL is constructed; callers of Reserve never see which one is active.
type Strategy uint8

const (
	// StrategyPlatform reserves through the best primitive the OS offers:
	// alignment-aware reservation where available, plain reservation
	// otherwise.
	StrategyPlatform Strategy = iota

	// StrategyDeterministic reserves from a process-wide monotonic bump
	// pointer so repeated runs produce identical address layouts.
	StrategyDeterministic
)

const (
	// deterministicStart is the first address handed out in deterministic
	// mode. High enough to stay clear of the program image and heap.
	deterministicStart uintptr = 0x4000_0000_0000

	// deterministicRetries bounds how many times a deterministic
	// reservation steps forward over transient collisions with existing
	// mappings before giving up.
	deterministicRetries = 1000
)

// deterministicNext is the process-wide bump pointer. Zero until the first
// deterministic PAL is constructed.
var deterministicNext atomic.Uintptr

// Reserve claims size bytes of address space, optionally pre-committed.
// align is a power of two or zero; requests below the platform floor are
// silently widened rather than failed. Reservation failure is fatal: there
// is no recoverable path, because the caller has no fallback of its own.
func (p *PAL) Reserve(size, align uintptr, mode CommitMode) Range {
	if align < minAlignment() {
		align = minAlignment()
	}

	if p.strategy == StrategyDeterministic {
		return reserveDeterministic(size, align, mode)
	}

	if osSupportsAlignedReserve() {
		base, err := osReserveAligned(size, align, mode)
		if err != nil {
			abort("pal: failed to reserve address space")
		}
		return Range{Base: base, Size: size}
	}

	base, err := osReserve(size, mode)
	if err != nil {
		abort("pal: failed to reserve address space")
	}
	return Range{Base: base, Size: size}
}

// reserveDeterministic places each reservation at the bump pointer, advancing
// past any address range the OS reports as taken. Ranges handed out within a
// single process run never overlap: the pointer only moves forward and every
// attempt advances it by the full aligned size.
func reserveDeterministic(size, align uintptr, mode CommitMode) Range {
	for tries := 0; tries < deterministicRetries; tries++ {
		hint := deterministicBump(size, align)
		if base, err := osReserveAt(hint, size, mode); err == nil {
			return Range{Base: base, Size: size}
		}
	}
	abort("pal: failed to reserve address space")
	return Range{}
}

// deterministicBump claims the next aligned slot from the bump pointer.
func deterministicBump(size, align uintptr) uintptr {
	for {
		cur := deterministicNext.Load()
		hint := bits.AlignUp(cur, align)
		if deterministicNext.CompareAndSwap(cur, hint+bits.AlignUp(size, align)) {
			return hint
		}
	}
}
