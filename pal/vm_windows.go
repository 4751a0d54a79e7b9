//go:build windows

package pal

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernelbase     = windows.NewLazySystemDLL("kernelbase.dll")
	procVirtualAlloc2 = modkernelbase.NewProc("VirtualAlloc2")
)

// VirtualAlloc cannot place reservations at alignments below the 64KB
// allocation granularity; most systems just give out something more aligned
// than asked for, but Windows rejects the parameters outright.
const allocationGranularity = 64 << 10

func minAlignment() uintptr { return allocationGranularity }

func osSupportsAlignedReserve() bool { return procVirtualAlloc2.Find() == nil }

func platformFeatures() Feature {
	f := LowMemoryNotification
	if osSupportsAlignedReserve() {
		f |= AlignedAllocation
	}
	return f
}

func allocType(mode CommitMode) uint32 {
	t := uint32(windows.MEM_RESERVE)
	if mode == Committed {
		t |= windows.MEM_COMMIT
	}
	return t
}

func osReserve(size uintptr, mode CommitMode) (uintptr, error) {
	return windows.VirtualAlloc(0, size, allocType(mode), windows.PAGE_READWRITE)
}

func osReserveAt(addr, size uintptr, mode CommitMode) (uintptr, error) {
	return windows.VirtualAlloc(addr, size, allocType(mode), windows.PAGE_READWRITE)
}

// memAddressRequirements mirrors MEM_ADDRESS_REQUIREMENTS.
type memAddressRequirements struct {
	lowestStartingAddress uintptr
	highestEndingAddress  uintptr
	alignment             uintptr
}

// memExtendedParameter mirrors MEM_EXTENDED_PARAMETER carrying a pointer
// payload. The type lives in the low 8 bits of the first quadword.
type memExtendedParameter struct {
	typ     uint64
	pointer unsafe.Pointer
}

const memExtendedParameterAddressRequirements = 1

// osReserveAligned reserves through VirtualAlloc2 with an address-alignment
// requirement. Only available on Windows 10 RS5 and newer; the lazy proc
// lookup decides at runtime.
func osReserveAligned(size, align uintptr, mode CommitMode) (uintptr, error) {
	if procVirtualAlloc2.Find() != nil {
		return 0, errNoAlignedReserve
	}
	reqs := memAddressRequirements{alignment: align}
	param := memExtendedParameter{
		typ:     memExtendedParameterAddressRequirements,
		pointer: unsafe.Pointer(&reqs),
	}
	base, _, err := procVirtualAlloc2.Call(
		0, // process: current
		0, // base address: let the kernel place it
		size,
		uintptr(allocType(mode)),
		windows.PAGE_READWRITE,
		uintptr(unsafe.Pointer(&param)),
		1,
	)
	if base == 0 {
		return 0, err
	}
	return base, nil
}

// osCommit commits the pages. Windows zero-fills every freshly committed
// page, so both zero policies take the same call; committing an
// already-committed page leaves its contents alone, which is exactly the
// NoZero contract.
func osCommit(r Range, _ ZeroPolicy) error {
	_, err := windows.VirtualAlloc(r.Base, r.Size, windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err
}

func osDecommit(r Range) error {
	return windows.VirtualFree(r.Base, r.Size, windows.MEM_DECOMMIT)
}
