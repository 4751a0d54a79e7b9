package pal

import (
	"fmt"
	"os"
	"sync/atomic"
)

var pageSize = uintptr(os.Getpagesize())

// PageSize returns the platform's memory page granularity.
func PageSize() uintptr { return pageSize }

// MinimumAlignment returns the smallest reservation alignment the platform's
// address-space allocator can satisfy. Smaller requests are silently widened
// to this floor.
func MinimumAlignment() uintptr { return minAlignment() }

// Process-wide notification state. Initialized at most once, on the first
// construction that wins the exchange, and never torn down: the event source
// is needed until the process exits.
var (
	registeredForNotifications atomic.Bool
	lowMemory                  Notifier

	// notificationRegistrations counts OS-level registrations performed.
	// Observed by tests; 0 or 1 in a healthy process.
	notificationRegistrations atomic.Int32

	// lowMemoryRegistered is set only when the OS registration succeeded.
	// A process whose registration failed never dispatches, so it must not
	// advertise the capability either.
	lowMemoryRegistered atomic.Bool
)

// registerLowMemoryNotification is an indirection so tests can exercise the
// one-shot registration race without touching the real event source.
var registerLowMemoryNotification = osRegisterLowMemoryNotification

// abort prints a short diagnostic to stdout and terminates the process
// without unwinding or running deferred cleanup. Reservation and commit
// failures are unrecoverable here: the allocator core has no fallback source
// of memory.
var abort = func(msg string) {
	fmt.Println(msg)
	os.Exit(2)
}

// PAL is the platform abstraction layer handle. Constructing any number of
// PALs is cheap and safe; the notification state behind them is process-wide.
type PAL struct {
	strategy Strategy
	features Feature
}

// Config carries construction-time settings for a PAL.
type Config struct {
	strategy Strategy
}

// Option configures a PAL at construction.
type Option func(*Config)

// WithDeterministicReserve switches reservation to the reproducible
// bump-pointer layout, so tests see identical addresses across runs.
func WithDeterministicReserve() Option {
	return func(c *Config) { c.strategy = StrategyDeterministic }
}

// New constructs a PAL. The first construction in the process registers with
// the OS low-memory event source; all later constructions are no-ops for
// registration, enforced by a single atomic exchange so concurrent first
// constructions race with exactly one winner.
func New(opts ...Option) *PAL {
	cfg := &Config{strategy: StrategyPlatform}
	for _, opt := range opts {
		opt(cfg)
	}

	// A failed registration is swallowed with no diagnostic: without the
	// event source the process just never hears about memory pressure,
	// which beats aborting over an optional feature.
	if !registeredForNotifications.Swap(true) {
		notificationRegistrations.Add(1)
		if err := registerLowMemoryNotification(&lowMemory); err == nil {
			lowMemoryRegistered.Store(true)
		}
	}

	if cfg.strategy == StrategyDeterministic {
		deterministicNext.CompareAndSwap(0, deterministicStart)
	}

	return &PAL{strategy: cfg.strategy, features: platformFeatures()}
}

// Features reports the optional capabilities of this platform. The
// low-memory bit reflects the registration outcome: when registration
// failed, the process never dispatches and the feature reads as absent.
func (p *PAL) Features() Feature {
	f := p.features
	if !lowMemoryRegistered.Load() {
		f &^= LowMemoryNotification
	}
	return f
}

// NotifyUsing tells the OS the range will be actively used, committing
// physical backing. The range must be page-aligned unless zero is NoZero.
// Commit failure means the machine is out of memory, which is unrecoverable
// at this layer.
func (p *PAL) NotifyUsing(r Range, zero ZeroPolicy) {
	if err := osCommit(r, zero); err != nil {
		abort("pal: out of memory")
	}
}

// NotifyNotUsing releases the physical backing of the page-aligned range
// while keeping the address range reserved. Decommit needs no new resources,
// so failure indicates a broken contract or environment rather than
// exhaustion.
func (p *PAL) NotifyNotUsing(r Range) {
	if err := osDecommit(r); err != nil {
		abort("pal: decommit failed")
	}
}

// Zero leaves the range reading as all-zero bytes. Page-aligned ranges of at
// least one page are recycled through decommit and recommit, since freshly
// committed pages are zero-filled; that trades a pair of syscalls for a full
// memory write. Everything else is cleared byte-wise. Claiming page alignment
// for a range that is not page-aligned is undefined.
func (p *PAL) Zero(r Range, pageAligned bool) {
	if (pageAligned || r.pageAligned()) && r.Size >= pageSize {
		p.NotifyNotUsing(r)
		p.NotifyUsing(r, YesZero)
		return
	}
	clear(r.Bytes())
}

// RegisterLowMemoryHandler appends h to the process-wide broadcast list.
// The handler is externally owned and must stay valid for the rest of the
// process; there is no deregistration. Safe from any goroutine.
func (p *PAL) RegisterLowMemoryHandler(h LowMemoryHandler) {
	lowMemory.Register(h)
}

// ExpensiveLowMemoryCheck synchronously polls whether the system is currently
// under memory pressure. Cold paths only; never call this per allocation.
func (p *PAL) ExpensiveLowMemoryCheck() bool {
	return osExpensiveLowMemoryCheck()
}
