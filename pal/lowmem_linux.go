//go:build linux

package pal

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	psiPath = "/proc/pressure/memory"

	// Wake when tasks stall on memory for 150ms within any 1s window.
	psiTrigger = "some 150000 1000000"

	// expensiveCheckThreshold is the "some" avg10 percentage at and above
	// which the explicit poll reports pressure.
	expensiveCheckThreshold = 10.0
)

// psiFile keeps the trigger fd alive for the rest of the process. It is
// deliberately never closed: the kernel tears the trigger down with the fd,
// and the wait is needed until exit.
var psiFile *os.File

// osRegisterLowMemoryNotification arms a PSI trigger on the system memory
// pressure file and starts the watcher. Kernels without PSI, or environments
// where the file is not writable, report an error and the caller degrades
// silently.
func osRegisterLowMemoryNotification(n *Notifier) error {
	f, err := os.OpenFile(psiPath, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(psiTrigger); err != nil {
		f.Close()
		return err
	}
	psiFile = f
	go watchPressure(f, n)
	return nil
}

// watchPressure blocks in poll(2) for the life of the process and fans one
// notification out per trigger crossing.
func watchPressure(f *os.File, n *Notifier) {
	fd := int32(f.Fd())
	for {
		fds := []unix.PollFd{{Fd: fd, Events: unix.POLLPRI}}
		nready, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil || fds[0].Revents&unix.POLLERR != 0 {
			// The trigger fd went bad; stop silently, matching the
			// registration failure behavior.
			return
		}
		if nready > 0 && fds[0].Revents&unix.POLLPRI != 0 {
			n.NotifyAll()
		}
	}
}

// osExpensiveLowMemoryCheck reads the pressure file and reports whether the
// ten-second "some" average is at the threshold.
func osExpensiveLowMemoryCheck() bool {
	data, err := os.ReadFile(psiPath)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "some ") {
			continue
		}
		var avg10 float64
		if _, err := fmt.Sscanf(line, "some avg10=%f", &avg10); err != nil {
			return false
		}
		return avg10 >= expensiveCheckThreshold
	}
	return false
}
