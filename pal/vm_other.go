//go:build !linux && !darwin && !windows

package pal

// No virtual-memory backend on this platform. Every operation reports
// errUnsupported, which the PAL layer turns into a fatal diagnostic.

func minAlignment() uintptr { return pageSize }

func osSupportsAlignedReserve() bool { return false }

func platformFeatures() Feature { return 0 }

func osReserve(uintptr, CommitMode) (uintptr, error) { return 0, errUnsupported }

func osReserveAligned(uintptr, uintptr, CommitMode) (uintptr, error) {
	return 0, errUnsupported
}

func osReserveAt(uintptr, uintptr, CommitMode) (uintptr, error) {
	return 0, errUnsupported
}

func osCommit(Range, ZeroPolicy) error { return errUnsupported }

func osDecommit(Range) error { return errUnsupported }
