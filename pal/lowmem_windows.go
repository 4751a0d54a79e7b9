//go:build windows

package pal

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32                          = windows.NewLazySystemDLL("kernel32.dll")
	procCreateMemoryResourceNotification = modkernel32.NewProc("CreateMemoryResourceNotification")
	procQueryMemoryResourceNotification  = modkernel32.NewProc("QueryMemoryResourceNotification")
	procRegisterWaitForSingleObject      = modkernel32.NewProc("RegisterWaitForSingleObject")
)

const (
	lowMemoryResourceNotification = 0 // MEMORY_RESOURCE_NOTIFICATION_TYPE
	wtExecuteDefault              = 0
)

// lowMemoryObject and the wait registration behind it are deliberately never
// closed; both are needed until the process exits.
var lowMemoryObject windows.Handle

func osRegisterLowMemoryNotification(n *Notifier) error {
	h, _, err := procCreateMemoryResourceNotification.Call(lowMemoryResourceNotification)
	if h == 0 {
		return err
	}
	lowMemoryObject = windows.Handle(h)

	// The kernel thread pool invokes this on its own thread whenever the
	// notification object signals.
	cb := windows.NewCallback(func(param, timedOut uintptr) uintptr {
		n.NotifyAll()
		return 0
	})

	var waitObject windows.Handle
	ok, _, err := procRegisterWaitForSingleObject.Call(
		uintptr(unsafe.Pointer(&waitObject)),
		uintptr(lowMemoryObject),
		cb,
		0,
		windows.INFINITE,
		wtExecuteDefault,
	)
	if ok == 0 {
		return err
	}
	return nil
}

func osExpensiveLowMemoryCheck() bool {
	if lowMemoryObject == 0 {
		return false
	}
	var state int32
	ok, _, _ := procQueryMemoryResourceNotification.Call(
		uintptr(lowMemoryObject),
		uintptr(unsafe.Pointer(&state)),
	)
	return ok != 0 && state != 0
}
