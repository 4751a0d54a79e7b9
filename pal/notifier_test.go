package pal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderedHandler records its own fire count and appends its id to a shared
// log so tests can check dispatch order.
type orderedHandler struct {
	id    int
	mu    *sync.Mutex
	log   *[]int
	fires int
}

func (h *orderedHandler) OnLowMemory() {
	h.mu.Lock()
	h.fires++
	*h.log = append(*h.log, h.id)
	h.mu.Unlock()
}

func TestNotifyAllDispatchOrder(t *testing.T) {
	for _, count := range []int{0, 1, 100} {
		var (
			n   Notifier
			mu  sync.Mutex
			log []int
		)
		handlers := make([]*orderedHandler, count)
		for i := range handlers {
			handlers[i] = &orderedHandler{id: i, mu: &mu, log: &log}
			n.Register(handlers[i])
		}

		n.NotifyAll()

		require.Len(t, log, count, "each of %d handlers fires exactly once", count)
		for i, h := range handlers {
			assert.Equal(t, 1, h.fires, "handler %d fire count", i)
			assert.Equal(t, i, log[i], "registration order preserved at slot %d", i)
		}
	}
}

func TestNotifyAllRepeatedSignals(t *testing.T) {
	var (
		n   Notifier
		mu  sync.Mutex
		log []int
	)
	h := &orderedHandler{id: 0, mu: &mu, log: &log}
	n.Register(h)

	n.NotifyAll()
	n.NotifyAll()
	n.NotifyAll()

	assert.Equal(t, 3, h.fires, "one invocation per signal")
}

// registeringHandler registers another handler from inside dispatch. The
// snapshot discipline must let this through without deadlock; the new handler
// only hears later signals.
type registeringHandler struct {
	n     *Notifier
	late  *orderedHandler
	fires int
}

func (h *registeringHandler) OnLowMemory() {
	h.fires++
	if h.fires == 1 {
		h.n.Register(h.late)
	}
}

func TestRegisterDuringDispatch(t *testing.T) {
	var (
		n   Notifier
		mu  sync.Mutex
		log []int
	)
	late := &orderedHandler{id: 99, mu: &mu, log: &log}
	n.Register(&registeringHandler{n: &n, late: late})

	n.NotifyAll()
	assert.Equal(t, 0, late.fires, "handler registered mid-dispatch misses the current signal")

	n.NotifyAll()
	assert.Equal(t, 1, late.fires, "and hears the next one")
}

func TestConcurrentRegisterAndNotify(t *testing.T) {
	var (
		n  Notifier
		mu sync.Mutex
		wg sync.WaitGroup
	)
	var log []int

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			n.Register(&orderedHandler{id: i, mu: &mu, log: &log})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			n.NotifyAll()
		}
	}()
	wg.Wait()

	// Every registered handler hears a final signal exactly once more.
	mu.Lock()
	log = log[:0]
	mu.Unlock()
	n.NotifyAll()
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, log, 200)
}
