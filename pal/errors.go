package pal

import "errors"

var (
	// errNoAlignedReserve indicates the platform lacks an alignment-aware
	// reservation primitive; reservation falls back to the plain path.
	errNoAlignedReserve = errors.New("pal: no aligned reservation primitive")

	// errNoLowMemorySource indicates the platform has no low-memory event
	// mechanism; registration degrades silently.
	errNoLowMemorySource = errors.New("pal: no low-memory event source")

	// errUnsupported indicates no virtual-memory backend exists for this
	// platform.
	errUnsupported = errors.New("pal: unsupported platform")
)
