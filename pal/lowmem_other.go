//go:build !linux && !windows

package pal

// No low-memory event source here. Registration reports an error, which the
// constructor swallows, and the explicit poll always reports no pressure.

func osRegisterLowMemoryNotification(*Notifier) error { return errNoLowMemorySource }

func osExpensiveLowMemoryCheck() bool { return false }
