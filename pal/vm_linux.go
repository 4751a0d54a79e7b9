//go:build linux

package pal

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// MAP_NORESERVE keeps large uncommitted reservations from counting against
// overcommit accounting.
const mapAnonFlags = unix.MAP_PRIVATE | unix.MAP_ANON | unix.MAP_NORESERVE

// MADV_DONTNEED discards the backing immediately; the next touch faults in a
// fresh zero page.
const decommitAdvice = unix.MADV_DONTNEED

func platformFeatures() Feature {
	return LowMemoryNotification | AlignedAllocation
}

// osReserveAt maps exactly at addr or reports the range as taken.
// MAP_FIXED_NOREPLACE fails with EEXIST instead of clobbering an existing
// mapping; kernels older than 4.17 ignore the flag and fall back to hinting,
// so the returned address is still checked.
func osReserveAt(addr, size uintptr, mode CommitMode) (uintptr, error) {
	p, err := unix.MmapPtr(-1, 0, unsafe.Pointer(addr), size,
		reserveProt(mode), mapAnonFlags|unix.MAP_FIXED_NOREPLACE)
	if err != nil {
		return 0, err
	}
	if uintptr(p) != addr {
		_ = unix.MunmapPtr(p, size)
		return 0, unix.EEXIST
	}
	return addr, nil
}
