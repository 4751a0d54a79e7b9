//go:build darwin

package pal

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const mapAnonFlags = unix.MAP_PRIVATE | unix.MAP_ANON

// MADV_FREE lets the kernel reclaim the pages lazily, which is how Darwin
// expects decommit to be expressed.
const decommitAdvice = unix.MADV_FREE

func platformFeatures() Feature {
	return AlignedAllocation
}

// osReserveAt maps at addr or reports the range as taken. Darwin has no
// MAP_FIXED_NOREPLACE, so the address is passed as a hint and the result
// compared; a moved mapping is unmapped and treated as a collision.
func osReserveAt(addr, size uintptr, mode CommitMode) (uintptr, error) {
	p, err := unix.MmapPtr(-1, 0, unsafe.Pointer(addr), size,
		reserveProt(mode), mapAnonFlags)
	if err != nil {
		return 0, err
	}
	if uintptr(p) != addr {
		_ = unix.MunmapPtr(p, size)
		return 0, unix.EEXIST
	}
	return addr, nil
}
