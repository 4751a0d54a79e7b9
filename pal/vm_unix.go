//go:build linux || darwin

package pal

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/achamayou/snmalloc/internal/bits"
)

func minAlignment() uintptr { return pageSize }

func osSupportsAlignedReserve() bool { return true }

// reserveProt maps the commit mode to page protections. Uncommitted ranges
// are mapped PROT_NONE so stray access faults instead of silently committing.
func reserveProt(mode CommitMode) int {
	if mode == Committed {
		return unix.PROT_READ | unix.PROT_WRITE
	}
	return unix.PROT_NONE
}

// osReserve backs the plain-reservation fallback. Reserve only takes that
// branch on platforms without an alignment-aware primitive, which unix always
// has; the symbol still exists here because the strategy dispatch compiles on
// every platform.
func osReserve(size uintptr, mode CommitMode) (uintptr, error) {
	p, err := unix.MmapPtr(-1, 0, nil, size, reserveProt(mode), mapAnonFlags)
	if err != nil {
		return 0, err
	}
	return uintptr(p), nil
}

// osReserveAligned over-reserves by the alignment and unmaps the unaligned
// head and tail. The kernel has no aligned-reservation call, but trimming a
// larger mapping yields the same result.
func osReserveAligned(size, align uintptr, mode CommitMode) (uintptr, error) {
	p, err := unix.MmapPtr(-1, 0, nil, size+align, reserveProt(mode), mapAnonFlags)
	if err != nil {
		return 0, err
	}
	raw := uintptr(p)
	base := bits.AlignUp(raw, align)
	if head := base - raw; head != 0 {
		if err := unix.MunmapPtr(p, head); err != nil {
			return 0, err
		}
	}
	// The kernel rounds the mapping length up to whole pages; trim from the
	// first page boundary past the usable range.
	end := bits.AlignUp(base+size, pageSize)
	mapEnd := raw + bits.AlignUp(size+align, pageSize)
	if tail := mapEnd - end; tail != 0 {
		if err := unix.MunmapPtr(unsafe.Pointer(end), tail); err != nil {
			return 0, err
		}
	}
	return base, nil
}

func osCommit(r Range, zero ZeroPolicy) error {
	if zero == YesZero {
		// Replace the pages with a fresh anonymous mapping; newly mapped
		// anonymous pages are guaranteed zero-filled.
		_, err := unix.MmapPtr(-1, 0, unsafe.Pointer(r.Base), r.Size,
			unix.PROT_READ|unix.PROT_WRITE, mapAnonFlags|unix.MAP_FIXED)
		return err
	}
	// mprotect needs page bounds; a NoZero commit may be unaligned.
	return unix.Mprotect(r.pageExpand().Bytes(), unix.PROT_READ|unix.PROT_WRITE)
}

func osDecommit(r Range) error {
	if err := unix.Madvise(r.Bytes(), decommitAdvice); err != nil {
		return err
	}
	return unix.Mprotect(r.Bytes(), unix.PROT_NONE)
}
