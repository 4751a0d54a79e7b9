// Package pal abstracts the operating system's virtual-memory facilities
// behind a small, uniform set of operations so that allocator page management
// can be written once and stay portable.
//
// # Overview
//
// The package exposes two cooperating, process-wide components:
//
//   - The VM region manager: Reserve, NotifyUsing (commit), NotifyNotUsing
//     (decommit), and Zero over raw address ranges.
//   - The low-memory notifier: a one-time OS registration that fans a
//     system-wide memory-pressure event out to any number of handlers, plus
//     an explicit, expensive synchronous poll.
//
// The PAL holds no per-range state between calls; the OS is the source of
// truth for whether an address range is reserved or committed. A Range passed
// to any operation is never retained after the call returns.
//
// # Reservation Strategies
//
// Reserve picks one of three strategies, fixed at construction and never per
// call:
//
//   - Platform (default): the best primitive the OS offers. Where an
//     alignment-aware reservation exists it is used directly, with requested
//     alignments silently widened to the platform floor (the 64KB allocation
//     granularity on Windows, the page size elsewhere). Otherwise a plain
//     reservation is made and the OS's default granularity is assumed
//     sufficient.
//   - Deterministic: a process-wide monotonic bump pointer starting at a
//     fixed high address, retried a bounded number of times to step over
//     existing mappings. Repeated runs see identical address layouts, which
//     makes allocator tests reproducible.
//
// # Usage Example
//
//	p := pal.New()
//	r := p.Reserve(1<<20, 0, pal.Uncommitted)
//	head := pal.Range{Base: r.Base, Size: 64 << 10}
//	p.NotifyUsing(head, pal.YesZero)
//	// ... use head.Bytes() ...
//	p.NotifyNotUsing(head)
//
// # Failure Model
//
// Reservation and commit failures mean the OS has no memory to give, and
// decommit failure means a broken contract or an unsupported environment.
// Neither is recoverable at this layer: the process prints a short diagnostic
// to stdout and exits immediately, with no error return path. Failure to
// register for low-memory notifications is the one soft case: it is swallowed
// silently and the process simply never hears about memory pressure.
//
// # Low-Memory Notifications
//
// The first PAL constructed in the process registers with the OS event
// source; later constructions are no-ops, enforced with a single atomic
// exchange. Handlers are externally owned, appended in order, never
// deregistered, and invoked once per signal on the notification thread,
// concurrently with ordinary allocator operation. The OS event handle is
// deliberately never closed: its lifetime is the whole process.
//
// # Thread Safety
//
// All VM operations are synchronous calls on the caller's thread. Handler
// registration and dispatch share one coarse lock around the handler list;
// registration is rare and not a hot path.
package pal
