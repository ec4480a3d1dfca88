package server

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Phase is the protocol subset active for a Participant.
type Phase int

const (
	PhaseLogin Phase = iota
	PhaseConfig
	PhasePlay
)

func (p Phase) String() string {
	switch p {
	case PhaseLogin:
		return "login"
	case PhaseConfig:
		return "config"
	case PhasePlay:
		return "play"
	default:
		return "unknown"
	}
}

// Property is a single profile property, e.g. a skin or cape texture entry.
type Property struct {
	Name      string
	Value     string
	Signature string
}

// Profile is the identity tuple carried by a Participant. It is mutable up
// to the end of the login→config transition and immutable thereafter.
type Profile struct {
	UUID       uuid.UUID
	Username   string
	Properties []Property
}

// KnownPacksFuture is the reply to a request-known-packs round trip.
type KnownPacksFuture interface {
	// Await blocks until the client responds or ctx is cancelled, returning
	// the packs the client claims to already hold.
	Await(ctx context.Context) ([]KnownPackEntry, error)
}

// ResourcePackFuture completes once every resource pack offered to the
// participant has been accepted or declined. It carries no deadline of its
// own; the resource-pack subsystem owns that.
type ResourcePackFuture interface {
	Await(ctx context.Context) error
}

// LoginPluginMessageProcessor drains the login-plugin-message replies that
// arrived while the connection negotiated with proxy middleware.
type LoginPluginMessageProcessor interface {
	// AwaitAll blocks until every outstanding reply has arrived or ctx is
	// cancelled/expired, returning an error if any reply failed or timed out.
	AwaitAll(ctx context.Context) error
}

// Connection is the transport handle a Participant is built around. The
// core never encodes or frames packets itself; it only calls through this
// interface.
type Connection interface {
	Send(packet any)
	Kick(reason string)
	IsOnline() bool
	Disconnect()
	RequestKnownPacks(packs []KnownPackEntry) KnownPacksFuture
	LoginPluginMessageProcessor() LoginPluginMessageProcessor
	StartCompression()
}

// PendingOptions is captured at the end of the configuration routine and
// consumed when the participant enters play.
type PendingOptions struct {
	SpawnTarget any
	Hardcore    bool
}

// Participant is the single record the core keeps per accepted client.
// Fields mutated across goroutines (profile, phase, answered-keep-alive,
// pending state) are guarded by mu; lastKeepAlive is accessed atomically.
// Connection never changes after construction and may be read without the
// lock.
type Participant struct {
	Connection Connection

	mu              sync.Mutex
	profile         Profile
	phase           Phase
	lastKeepAlive   int64
	answeredKeepAlive bool
	pendingResourcePack ResourcePackFuture
	pendingOptions  PendingOptions
	hasPendingOptions bool

	inboundConfigPackets chan func()
}

// NewParticipant constructs a Participant in the LOGIN phase wrapping conn
// and profile. This is the default provider; set-player-provider (§6)
// replaces it with a factory of the same shape.
func NewParticipant(conn Connection, profile Profile) *Participant {
	return &Participant{
		Connection:           conn,
		profile:              profile,
		phase:                PhaseLogin,
		inboundConfigPackets: make(chan func(), 64),
	}
}

// Profile returns a copy of the participant's current identity tuple.
func (p *Participant) Profile() Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile
}

// SetProfile replaces the profile wholesale; callers must not invoke this
// after the login→config transition completes (spec invariant: immutable
// thereafter).
func (p *Participant) SetProfile(profile Profile) {
	p.mu.Lock()
	p.profile = profile
	p.mu.Unlock()
}

// Phase returns the participant's current protocol phase.
func (p *Participant) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// setPhase updates the phase under lock.
func (p *Participant) setPhase(phase Phase) {
	p.mu.Lock()
	p.phase = phase
	p.mu.Unlock()
}

// LastKeepAlive returns the monotonic timestamp, in nanoseconds, of the
// last keep-alive sent to this participant.
func (p *Participant) LastKeepAlive() int64 {
	return atomic.LoadInt64(&p.lastKeepAlive)
}

func (p *Participant) setLastKeepAlive(t int64) {
	atomic.StoreInt64(&p.lastKeepAlive, t)
}

// AnsweredKeepAlive reports whether the client has answered the most
// recently sent keep-alive.
func (p *Participant) AnsweredKeepAlive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.answeredKeepAlive
}

func (p *Participant) setAnsweredKeepAlive(answered bool) {
	p.mu.Lock()
	p.answeredKeepAlive = answered
	p.mu.Unlock()
}

// MarkKeepAliveAnswered records that the client has echoed the most recent
// keep-alive. Called by the I/O layer when it observes the client's reply.
func (p *Participant) MarkKeepAliveAnswered() {
	p.setAnsweredKeepAlive(true)
}

// SetPendingResourcePack records the future C4 step 10 waits on.
func (p *Participant) SetPendingResourcePack(f ResourcePackFuture) {
	p.mu.Lock()
	p.pendingResourcePack = f
	p.mu.Unlock()
}

func (p *Participant) pendingResourcePackFuture() ResourcePackFuture {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pendingResourcePack
}

// setPendingOptions stores the spawn-target/hardcore pair captured at the
// end of C4, consumed at play entry.
func (p *Participant) setPendingOptions(opts PendingOptions) {
	p.mu.Lock()
	p.pendingOptions = opts
	p.hasPendingOptions = true
	p.mu.Unlock()
}

// takePendingOptions returns the stored options and clears them; called
// once by the handoff consumer when spawning the participant into the
// world.
func (p *Participant) takePendingOptions() (PendingOptions, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	opts := p.pendingOptions
	had := p.hasPendingOptions
	p.hasPendingOptions = false
	return opts, had
}

// IsOnline reports the underlying connection's liveness.
func (p *Participant) IsOnline() bool {
	return p.Connection != nil && p.Connection.IsOnline()
}

// QueueConfigPacket enqueues a config-phase packet handler to be drained on
// the next C6(c) pass (spec.md §4.4/§4.6c). This is the entry point I/O
// workers call as config-phase packets arrive off the wire; non-blocking,
// and a full queue drops the oldest pending handler rather than stalling
// the I/O worker.
func (p *Participant) QueueConfigPacket(handle func()) {
	select {
	case p.inboundConfigPackets <- handle:
	default:
		select {
		case <-p.inboundConfigPackets:
		default:
		}
		select {
		case p.inboundConfigPackets <- handle:
		default:
		}
	}
}

// drainConfigPackets runs every queued config-phase packet handler,
// returning the count processed.
func (p *Participant) drainConfigPackets() int {
	n := 0
	for {
		select {
		case handle := <-p.inboundConfigPackets:
			if handle != nil {
				handle()
			}
			n++
		default:
			return n
		}
	}
}
