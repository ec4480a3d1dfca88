package server

import (
	"sync"
	"sync/atomic"

	"github.com/ashenkeep/voxelserver/logging"
)

// Provider constructs a Participant from an accepted connection and its
// initial profile. Replaceable via SetPlayerProvider; a Manager built by
// NewManager starts with NewParticipant.
type Provider func(conn Connection, profile Profile) *Participant

// Manager is the participant registry and the boundary every other
// subsystem uses to drive connections through the lifecycle (spec.md §2,
// §6). One Manager exists per server instance.
type Manager struct {
	cfg        Config
	registries Registries
	eventBus   EventBus
	logger     logging.Publisher
	clock      Clock

	provider atomic.Pointer[Provider]

	byConnMu sync.RWMutex
	byConn   map[Connection]*Participant

	configSet    *participantSet
	playSet      *participantSet
	keepAliveSet *participantSet

	handoff *handoffQueue
	tags    *tagCache

	shutdown atomic.Bool
}

// Clock supplies monotonic nanoseconds to the tick driver and keep-alive
// bookkeeping (spec.md §6).
type Clock interface {
	NowNano() int64
}

// ManagerOption configures a Manager at construction time.
type ManagerOption func(*Manager)

// WithLogger routes observability events to pub instead of the default
// no-op publisher.
func WithLogger(pub logging.Publisher) ManagerOption {
	return func(m *Manager) {
		if pub != nil {
			m.logger = pub
		}
	}
}

// WithEventBus installs the dispatcher used for PreLogin and Configuration
// events.
func WithEventBus(bus EventBus) ManagerOption {
	return func(m *Manager) {
		if bus != nil {
			m.eventBus = bus
		}
	}
}

// NewManager builds a Manager around registries, clock, and cfg. registries
// and clock are required collaborators; a nil eventBus and logger degrade
// to no-ops.
func NewManager(cfg Config, registries Registries, clock Clock, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:          cfg,
		registries:   registries,
		clock:        clock,
		eventBus:     EventBusFunc(nil),
		logger:       logging.NopPublisher(),
		byConn:       make(map[Connection]*Participant),
		configSet:    newParticipantSet(),
		playSet:      newParticipantSet(),
		keepAliveSet: newParticipantSet(),
		handoff:      newHandoffQueue(),
		tags:         newTagCache(registries),
	}
	defaultProvider := Provider(NewParticipant)
	m.provider.Store(&defaultProvider)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetPlayerProvider replaces the participant factory; passing nil resets it
// to the built-in default.
func (m *Manager) SetPlayerProvider(provider Provider) {
	if provider == nil {
		provider = NewParticipant
	}
	m.provider.Store(&provider)
}

func (m *Manager) currentProvider() Provider {
	return *m.provider.Load()
}

// CreatePlayer constructs a Participant via the active provider, registers
// it in by-connection, and returns it. Fails with ErrAlreadyRegistered if
// conn is already registered.
func (m *Manager) CreatePlayer(conn Connection, profile Profile) (*Participant, error) {
	if m.shutdown.Load() {
		return nil, ErrManagerShutdown
	}
	m.byConnMu.Lock()
	defer m.byConnMu.Unlock()
	if _, exists := m.byConn[conn]; exists {
		return nil, ErrAlreadyRegistered
	}
	participant := m.currentProvider()(conn, profile)
	m.byConn[conn] = participant
	return participant, nil
}

// Get looks up the participant registered for conn, if any.
func (m *Manager) Get(conn Connection) (*Participant, bool) {
	m.byConnMu.RLock()
	defer m.byConnMu.RUnlock()
	p, ok := m.byConn[conn]
	return p, ok
}

// RemovePlayer removes conn's participant from by-connection and every
// membership set. Idempotent.
func (m *Manager) RemovePlayer(conn Connection) {
	m.byConnMu.Lock()
	p, ok := m.byConn[conn]
	if ok {
		delete(m.byConn, conn)
	}
	m.byConnMu.Unlock()
	if !ok {
		return
	}
	m.configSet.Remove(p)
	m.playSet.Remove(p)
	m.keepAliveSet.Remove(p)
}

// GetOnlinePlayerCount returns |play-set| (spec.md §8 invariant 4).
func (m *Manager) GetOnlinePlayerCount() int {
	return m.playSet.Len()
}

// GetOnlinePlayers returns a snapshot of play-set.
func (m *Manager) GetOnlinePlayers() []*Participant {
	return m.playSet.Snapshot()
}

// GetConfigPlayers returns a snapshot of config-set.
func (m *Manager) GetConfigPlayers() []*Participant {
	return m.configSet.Snapshot()
}

// InvalidateTags discards the cached tag-registry packet; the next
// SendRegistryTags rebuilds it.
func (m *Manager) InvalidateTags() {
	m.tags.invalidate()
}

// SendRegistryTags sends the cached tag-registry packet (C1) to p.
func (m *Manager) SendRegistryTags(p *Participant) {
	if p == nil || p.Connection == nil {
		return
	}
	p.Connection.Send(m.tags.get())
}
