package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePusher records every push it receives.
type fakePusher struct {
	mu     sync.Mutex
	events []string
	failed bool
}

func (f *fakePusher) Push(event string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return fmt.Errorf("connection closed")
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePusher) pushed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	conn := &fakePusher{}

	displaced := r.Register(7, conn)
	assert.Nil(t, displaced)

	got, ok := r.Lookup(7)
	require.True(t, ok)
	assert.Same(t, conn, got)
	assert.Equal(t, 1, r.Online())
}

func TestRegistry_LookupOffline(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup(42)
	assert.False(t, ok)
}

func TestRegistry_LaterConnectionWins(t *testing.T) {
	r := NewRegistry()
	first := &fakePusher{}
	second := &fakePusher{}

	r.Register(7, first)
	displaced := r.Register(7, second)

	assert.Same(t, first, displaced)
	got, ok := r.Lookup(7)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Online())
}

func TestRegistry_StaleUnregisterIsNoOp(t *testing.T) {
	r := NewRegistry()
	first := &fakePusher{}
	second := &fakePusher{}

	r.Register(7, first)
	r.Register(7, second)

	// The displaced connection's deferred cleanup fires after the
	// replacement registered; the newer connection must survive it.
	r.Unregister(first)

	got, ok := r.Lookup(7)
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	conn := &fakePusher{}

	r.Register(7, conn)
	r.Unregister(conn)

	_, ok := r.Lookup(7)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Online())

	// Unregistering an unknown connection is harmless.
	r.Unregister(conn)
	r.Unregister(&fakePusher{})
}

func TestRegistry_Conns(t *testing.T) {
	r := NewRegistry()
	a := &fakePusher{}
	b := &fakePusher{}

	r.Register(1, a)
	r.Register(2, b)

	conns := r.Conns()
	assert.Len(t, conns, 2)
	assert.Contains(t, conns, Pusher(a))
	assert.Contains(t, conns, Pusher(b))
}

func TestRegistry_ConcurrentChurn(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			conn := &fakePusher{}
			r.Register(userID%10, conn)
			r.Lookup(userID % 10)
			r.Unregister(conn)
		}(uint(i))
	}
	wg.Wait()

	// Every connection either won its slot and was unregistered, or had
	// already been displaced; nothing may linger in the reverse index.
	assert.Equal(t, 0, r.Online())
}
