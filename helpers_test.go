package server

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/iancoleman/orderedmap"
)

// manualClock is a test Clock advanced explicitly by the caller, in the
// style of a fake transport/time double rather than a real wall clock.
type manualClock struct {
	nanos atomic.Int64
}

func (c *manualClock) NowNano() int64 {
	return c.nanos.Load()
}

func (c *manualClock) set(t int64) {
	c.nanos.Store(t)
}

func (c *manualClock) advance(d int64) int64 {
	return c.nanos.Add(d)
}

// fakeConn is an in-memory Connection double recording every packet sent
// and every kick/disconnect issued, for assertions in tests.
type fakeConn struct {
	mu sync.Mutex

	online     bool
	sent       []any
	kicked     bool
	kickReason string

	knownPacks       []KnownPackEntry
	knownPacksErr    error
	pluginReplyErr   error
}

func newFakeConn() *fakeConn {
	return &fakeConn{online: true}
}

func (c *fakeConn) Send(packet any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, packet)
}

func (c *fakeConn) Kick(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kicked = true
	c.kickReason = reason
	c.online = false
}

func (c *fakeConn) IsOnline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *fakeConn) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.online = false
}

func (c *fakeConn) RequestKnownPacks(packs []KnownPackEntry) KnownPacksFuture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &fakeKnownPacksFuture{packs: c.knownPacks, err: c.knownPacksErr}
}

func (c *fakeConn) LoginPluginMessageProcessor() LoginPluginMessageProcessor {
	return &fakePluginProcessor{err: c.pluginReplyErr}
}

func (c *fakeConn) StartCompression() {}

func (c *fakeConn) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func (c *fakeConn) lastSent() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return nil
	}
	return c.sent[len(c.sent)-1]
}

func (c *fakeConn) wasKicked() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kicked, c.kickReason
}

// fakeKnownPacksFuture resolves immediately with a fixed result, or blocks
// until ctx is done if the embedded error is errNeverResolves.
type fakeKnownPacksFuture struct {
	packs []KnownPackEntry
	err   error
}

var errNeverResolves = &neverResolvesError{}

type neverResolvesError struct{}

func (*neverResolvesError) Error() string { return "test double: future never resolves" }

func (f *fakeKnownPacksFuture) Await(ctx context.Context) ([]KnownPackEntry, error) {
	if f.err == errNeverResolves {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.packs, f.err
}

type fakePluginProcessor struct {
	err error
}

func (p *fakePluginProcessor) AwaitAll(ctx context.Context) error {
	return p.err
}

type fakeResourcePackFuture struct {
	err error
}

func (f *fakeResourcePackFuture) Await(ctx context.Context) error {
	return f.err
}

type fakeSpawnFuture struct{}

func (fakeSpawnFuture) Await(ctx context.Context) error { return nil }

type fakeWorld struct {
	mu       sync.Mutex
	entered  []*Participant
}

func (w *fakeWorld) EnterWorld(p *Participant, opts PendingOptions) SpawnFuture {
	w.mu.Lock()
	w.entered = append(w.entered, p)
	w.mu.Unlock()
	return fakeSpawnFuture{}
}

func (w *fakeWorld) enteredCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entered)
}

// newTestManager builds a Manager with a manual clock, a fully-populated
// registries double, and NewManager's default no-op logging and event bus.
func newTestManager(cfg Config, clock *manualClock) *Manager {
	return NewManager(cfg, fakeRegistries{}, clock)
}

type fakeRegistries struct{}

func (fakeRegistries) RegistryData(kind RegistryKind, excludeVanilla bool) RegistryDataPacket {
	return kind
}

func (fakeRegistries) Tags(kind RegistryKind) TagRegistryDescriptor {
	return kind
}

// featureSet builds an OrderedMap from the given names, preserving order.
func featureSet(names ...string) *orderedmap.OrderedMap {
	m := orderedmap.New()
	for _, name := range names {
		m.Set(name, true)
	}
	return m
}
