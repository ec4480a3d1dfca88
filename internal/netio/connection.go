// Package netio adapts a raw transport to server.Connection. It is a
// reference collaborator, not a dependency of the connection-lifecycle
// core: the core only ever sees the Connection interface.
package netio

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	server "github.com/ashenkeep/voxelserver"
)

// errPluginMessageFailed is returned by AwaitAll when at least one
// outstanding login-plugin-message reply was resolved as failed.
var errPluginMessageFailed = errors.New("netio: login plugin message reply failed")

// WSConnection wraps a *websocket.Conn as a server.Connection. Writes are
// serialised through writeMu since gorilla/websocket forbids concurrent
// writers on the same connection.
type WSConnection struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu          sync.Mutex
	online      bool
	compression bool
	knownPacks  *knownPacksFuture

	processor *pluginMessageProcessor
}

// NewWSConnection wraps conn, assumed freshly upgraded and online.
func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{
		conn:      conn,
		online:    true,
		processor: newPluginMessageProcessor(),
	}
}

// Send marshals packet as JSON and writes it as a single text frame. Real
// protocol framing/encoding is an external collaborator's concern (spec
// non-goal); this adapter picks the simplest wire shape that exercises the
// transport.
func (c *WSConnection) Send(packet any) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if !c.IsOnline() {
		return
	}
	_ = c.conn.WriteJSON(packet)
}

// Kick disconnects the connection after attempting to deliver reason.
func (c *WSConnection) Kick(reason string) {
	c.writeMu.Lock()
	_ = c.conn.WriteJSON(kickPacket{Reason: reason})
	c.writeMu.Unlock()
	c.Disconnect()
}

// IsOnline reports whether the socket is still considered connected.
func (c *WSConnection) IsOnline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

// Disconnect closes the underlying socket and marks the connection offline.
// Idempotent.
func (c *WSConnection) Disconnect() {
	c.mu.Lock()
	if !c.online {
		c.mu.Unlock()
		return
	}
	c.online = false
	c.mu.Unlock()
	_ = c.conn.Close()
	c.processor.cancelAll()
}

// RequestKnownPacks sends the known-packs prompt and returns a future that
// resolves once the I/O read loop observes the client's reply (fed via
// ResolveKnownPacks).
func (c *WSConnection) RequestKnownPacks(packs []server.KnownPackEntry) server.KnownPacksFuture {
	future := newKnownPacksFuture()
	c.mu.Lock()
	c.knownPacks = future
	c.mu.Unlock()
	c.Send(knownPacksRequestPacket{Packs: packs})
	return future
}

// ResolveKnownPacks feeds the client's known-packs reply to whichever
// future RequestKnownPacks most recently returned. Called by the read
// pump; a no-op if no request is outstanding.
func (c *WSConnection) ResolveKnownPacks(packs []server.KnownPackEntry) {
	c.mu.Lock()
	future := c.knownPacks
	c.knownPacks = nil
	c.mu.Unlock()
	if future != nil {
		future.resolve(packs, nil)
	}
}

// ExpectLoginPluginReply registers an outstanding login-plugin-message
// round trip the login transition must await.
func (c *WSConnection) ExpectLoginPluginReply() {
	c.processor.Expect()
}

// ResolveLoginPluginReply reports the outcome of one outstanding
// login-plugin-message round trip.
func (c *WSConnection) ResolveLoginPluginReply(ok bool) {
	c.processor.Resolve(ok)
}

// LoginPluginMessageProcessor exposes this connection's plugin-message
// barrier to the login transition.
func (c *WSConnection) LoginPluginMessageProcessor() server.LoginPluginMessageProcessor {
	return c.processor
}

// StartCompression flips the compression flag. gorilla/websocket negotiates
// per-message deflate at the HTTP-upgrade layer; toggling it mid-connection
// is a framing concern outside this adapter's remit, so this simply records
// intent for callers that inspect it.
func (c *WSConnection) StartCompression() {
	c.mu.Lock()
	c.compression = true
	c.mu.Unlock()
}

type kickPacket struct {
	Reason string `json:"reason"`
}

type knownPacksRequestPacket struct {
	Packs []server.KnownPackEntry `json:"packs"`
}

// knownPacksFuture resolves when the read loop delivers the client's known
// packs reply.
type knownPacksFuture struct {
	done chan struct{}
	once sync.Once

	mu     sync.Mutex
	result []server.KnownPackEntry
	err    error
}

func newKnownPacksFuture() *knownPacksFuture {
	return &knownPacksFuture{done: make(chan struct{})}
}

func (f *knownPacksFuture) resolve(packs []server.KnownPackEntry, err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.result = packs
		f.err = err
		f.mu.Unlock()
		close(f.done)
	})
}

func (f *knownPacksFuture) Await(ctx context.Context) ([]server.KnownPackEntry, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// pluginMessageProcessor tracks outstanding login-plugin-message replies
// expected before C3 step 5 may proceed.
type pluginMessageProcessor struct {
	mu      sync.Mutex
	pending int
	failed  bool
	done    chan struct{}
	closed  bool
}

func newPluginMessageProcessor() *pluginMessageProcessor {
	return &pluginMessageProcessor{done: make(chan struct{})}
}

// Expect registers an outstanding reply the handshake is waiting on.
func (p *pluginMessageProcessor) Expect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending++
}

// Resolve marks one outstanding reply as delivered (ok=true) or failed.
func (p *pluginMessageProcessor) Resolve(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if !ok {
		p.failed = true
	}
	p.pending--
	if p.pending <= 0 {
		p.closed = true
		close(p.done)
	}
}

func (p *pluginMessageProcessor) cancelAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.done)
}

func (p *pluginMessageProcessor) AwaitAll(ctx context.Context) error {
	p.mu.Lock()
	if p.pending <= 0 {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.failed {
			return errPluginMessageFailed
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
