package pal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achamayou/snmalloc/internal/bits"
)

func TestPlatformConstants(t *testing.T) {
	assert.True(t, bits.IsPow2(PageSize()), "page size is a power of two")
	assert.True(t, bits.IsPow2(MinimumAlignment()), "alignment floor is a power of two")
	assert.GreaterOrEqual(t, MinimumAlignment(), PageSize())
}

// Concurrent first-time constructions must race with exactly one winner
// performing the OS-level registration.
func TestConcurrentConstructionRegistersOnce(t *testing.T) {
	saved := registerLowMemoryNotification
	registerLowMemoryNotification = func(*Notifier) error { return nil }
	t.Cleanup(func() { registerLowMemoryNotification = saved })

	for _, goroutines := range []int{2, 8, 16, 64} {
		registeredForNotifications.Store(false)
		notificationRegistrations.Store(0)
		lowMemoryRegistered.Store(false)

		start := make(chan struct{})
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				New()
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), notificationRegistrations.Load(),
			"%d concurrent constructions, one registration", goroutines)
	}
}

func TestSequentialConstructionRegistersOnce(t *testing.T) {
	saved := registerLowMemoryNotification
	registerLowMemoryNotification = func(*Notifier) error { return nil }
	t.Cleanup(func() { registerLowMemoryNotification = saved })

	registeredForNotifications.Store(false)
	notificationRegistrations.Store(0)
	lowMemoryRegistered.Store(false)

	for i := 0; i < 5; i++ {
		New()
	}
	assert.Equal(t, int32(1), notificationRegistrations.Load())
}

// Registration failure is swallowed: construction succeeds and the process
// just never hears about memory pressure.
func TestRegistrationFailureDegradesSilently(t *testing.T) {
	saved := registerLowMemoryNotification
	registerLowMemoryNotification = func(*Notifier) error { return errNoLowMemorySource }
	t.Cleanup(func() { registerLowMemoryNotification = saved })

	registeredForNotifications.Store(false)
	notificationRegistrations.Store(0)
	lowMemoryRegistered.Store(false)

	p := New()
	require.NotNil(t, p)
	assert.Equal(t, int32(1), notificationRegistrations.Load(),
		"the registration attempt still counts as performed")
	assert.Zero(t, p.Features()&LowMemoryNotification,
		"a PAL without a working event source must not advertise one")
}

// The low-memory feature bit follows the registration outcome, not the
// static platform capability.
func TestFeaturesReflectRegistrationOutcome(t *testing.T) {
	saved := registerLowMemoryNotification
	t.Cleanup(func() { registerLowMemoryNotification = saved })

	registerLowMemoryNotification = func(*Notifier) error { return errNoLowMemorySource }
	registeredForNotifications.Store(false)
	notificationRegistrations.Store(0)
	lowMemoryRegistered.Store(false)
	p := New()
	assert.Zero(t, p.Features()&LowMemoryNotification)

	registerLowMemoryNotification = func(*Notifier) error { return nil }
	registeredForNotifications.Store(false)
	lowMemoryRegistered.Store(false)
	p = New()
	assert.Equal(t, platformFeatures()&LowMemoryNotification, p.Features()&LowMemoryNotification,
		"a successful registration restores the platform's own capability bit")
}

func TestRegisterLowMemoryHandlerThroughPAL(t *testing.T) {
	p := New()

	var (
		mu  sync.Mutex
		log []int
	)
	h := &orderedHandler{id: 7, mu: &mu, log: &log}
	p.RegisterLowMemoryHandler(h)

	// Simulate the OS signal.
	lowMemory.NotifyAll()

	assert.Equal(t, 1, h.fires)
}
