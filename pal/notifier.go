package pal

import "sync"

// LowMemoryHandler is implemented by externally owned objects that want to
// hear about system-wide memory pressure. The notifier stores a reference
// and never copies or frees the handler; it must stay valid for as long as
// it is registered, which in practice is the rest of the process.
type LowMemoryHandler interface {
	// OnLowMemory runs once per signal, on whatever thread the OS delivers
	// the event from, concurrently with ordinary allocator operation. It
	// must not assume a particular calling thread.
	OnLowMemory()
}

// Notifier fans a single OS low-memory signal out to every registered
// handler. Registration is rare and never undone, so one coarse lock over
// append and snapshot is enough.
type Notifier struct {
	mu       sync.Mutex
	handlers []LowMemoryHandler
}

// Register appends h to the broadcast list. Safe from any goroutine,
// including concurrently with NotifyAll.
func (n *Notifier) Register(h LowMemoryHandler) {
	n.mu.Lock()
	n.handlers = append(n.handlers, h)
	n.mu.Unlock()
}

// NotifyAll invokes every handler in registration order. The list is
// snapshotted first so handlers run without the lock held; dispatch must not
// hold anything an allocation path could also want.
func (n *Notifier) NotifyAll() {
	n.mu.Lock()
	handlers := n.handlers[:len(n.handlers):len(n.handlers)]
	n.mu.Unlock()
	for _, h := range handlers {
		h.OnLowMemory()
	}
}
