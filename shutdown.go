package server

import (
	"context"

	"github.com/ashenkeep/voxelserver/logging/connlifecycle"
)

// Shutdown kicks every registered participant with the shutdown reason and
// clears all membership sets and by-connection. byConnMu serialises this
// against concurrent RemovePlayer calls (spec.md §4.7): the map swap below
// and RemovePlayer's delete both happen under the same lock, so a
// participant is never removed out from under the iteration here. After
// Shutdown returns, the manager is quiescent: CreatePlayer subsequently
// fails with ErrManagerShutdown.
func (m *Manager) Shutdown(ctx context.Context) {
	if !m.shutdown.CompareAndSwap(false, true) {
		return
	}

	m.byConnMu.Lock()
	participants := make([]*Participant, 0, len(m.byConn))
	for _, p := range m.byConn {
		participants = append(participants, p)
	}
	m.byConn = make(map[Connection]*Participant)
	m.byConnMu.Unlock()

	for _, p := range participants {
		p.Connection.Kick(KickShutdown.String())
	}

	m.configSet.Clear()
	m.playSet.Clear()
	m.keepAliveSet.Clear()

	connlifecycle.Shutdown(ctx, m.logger, len(participants))
}
