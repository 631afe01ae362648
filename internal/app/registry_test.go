package app

import (
	"sync"
	"testing"
	"time"

	"github.com/corewave-labs/bulkstream/internal/domain"
	"github.com/corewave-labs/bulkstream/internal/ports"
	"github.com/corewave-labs/bulkstream/pkg/log"
)

func testRegistry(console *recordingSink) *Registry {
	cfg := DispatcherConfig{
		Logger:      log.NewNoopLogger(),
		ConsoleSink: console,
		FileWorkers: 0,
		NewFileSink: func(int) ports.Sink { return nil },
	}
	return NewRegistry(log.NewNoopLogger(), cfg)
}

func TestRegistry_ConnectReceiveDisconnect(t *testing.T) {
	console := &recordingSink{}
	r := testRegistry(console)

	h := r.Connect(3)
	if h == Zero {
		t.Fatal("Connect returned the zero handle")
	}

	r.Receive(h, []byte("1\n2\n3\n4\n"))
	r.Disconnect(h)

	waitFor(t, time.Second, func() bool { return len(console.snapshot()) == 2 })

	got := console.snapshot()
	if len(got[0].Commands) != 3 || len(got[1].Commands) != 1 {
		t.Fatalf("unexpected bulks: %+v", got)
	}
}

func TestRegistry_UnknownHandleIsNoop(t *testing.T) {
	console := &recordingSink{}
	r := testRegistry(console)

	r.Receive(Zero, []byte("x\n"))
	r.Disconnect(Zero)

	bogus := Handle{ctx: domain.NewContext(1, nil)}
	r.Receive(bogus, []byte("x\n"))
	r.Disconnect(bogus)

	if len(console.snapshot()) != 0 {
		t.Fatalf("expected no bulks from unknown/zero handles, got %d", len(console.snapshot()))
	}
}

func TestRegistry_DisconnectIsIdempotent(t *testing.T) {
	console := &recordingSink{}
	r := testRegistry(console)

	h := r.Connect(1)
	r.Receive(h, []byte("a\n"))
	r.Disconnect(h)
	r.Disconnect(h) // must not double-release the dispatcher or panic

	waitFor(t, time.Second, func() bool { return len(console.snapshot()) == 1 })
}

func TestRegistry_ConcurrentReceiveOnDistinctHandles(t *testing.T) {
	console := &recordingSink{}
	r := testRegistry(console)

	const n = 20
	handles := make([]Handle, n)
	for i := range handles {
		handles[i] = r.Connect(1)
	}

	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(h Handle) {
			defer wg.Done()
			r.Receive(h, []byte("cmd\n"))
		}(h)
	}
	wg.Wait()

	for _, h := range handles {
		r.Disconnect(h)
	}

	waitFor(t, time.Second, func() bool { return len(console.snapshot()) == n })
}

func TestRegistry_ShutdownFlushesRemainingContexts(t *testing.T) {
	console := &recordingSink{}
	r := testRegistry(console)

	h1 := r.Connect(0)
	h2 := r.Connect(0)
	r.Receive(h1, []byte("a\nb\n"))
	r.Receive(h2, []byte("c\n"))

	r.Shutdown()

	waitFor(t, time.Second, func() bool { return len(console.snapshot()) == 2 })
}
