package pal

import (
	"unsafe"

	"github.com/achamayou/snmalloc/internal/bits"
)

// Range is a span of raw virtual address space. The caller owns the
// addresses; the PAL never retains a Range after a call returns.
type Range struct {
	Base uintptr
	Size uintptr
}

// End returns the first address past the range.
func (r Range) End() uintptr { return r.Base + r.Size }

// Bytes returns the range as a byte slice. The pages must be committed and
// readable for any access through the slice to be defined.
func (r Range) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(r.Base)), r.Size)
}

// pageAligned reports whether base and size both sit on page boundaries.
func (r Range) pageAligned() bool {
	return bits.IsAligned(r.Base, pageSize) && bits.IsAligned(r.Size, pageSize)
}

// pageExpand widens the range outward to page boundaries.
func (r Range) pageExpand() Range {
	base := bits.AlignDown(r.Base, pageSize)
	end := bits.AlignUp(r.End(), pageSize)
	return Range{Base: base, Size: end - base}
}

// ZeroPolicy selects whether a commit must deliver zero-filled pages.
type ZeroPolicy uint8

const (
	// NoZero commits without a content guarantee; prior contents may be
	// observed. The only policy permitted on non-page-aligned ranges.
	NoZero ZeroPolicy = iota

	// YesZero commits pages that read as zero.
	YesZero
)

// CommitMode selects whether a reservation is backed immediately.
type CommitMode uint8

const (
	// Uncommitted reserves address space only.
	Uncommitted CommitMode = iota

	// Committed reserves and commits in one call.
	Committed
)

// Feature is a bitmap of optional capabilities a platform may support.
type Feature uint64

const (
	// LowMemoryNotification indicates the OS delivers memory-pressure events.
	LowMemoryNotification Feature = 1 << iota

	// AlignedAllocation indicates Reserve satisfies caller alignment
	// requests beyond the platform's default address-space granularity.
	AlignedAllocation
)
