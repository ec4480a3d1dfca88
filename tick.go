package server

import (
	"context"

	"github.com/ashenkeep/voxelserver/logging/connlifecycle"
)

// keepAlivePacket pings the client for a liveness echo.
type keepAlivePacket struct{ T int64 }

// SpawnFuture completes once a handed-off participant has finished
// entering the world. InsideTest awaits it inline; production fires it and
// moves on.
type SpawnFuture interface {
	Await(ctx context.Context) error
}

// WorldEntrant spawns a participant into the simulation once it reaches
// play; the world/instance simulator itself is out of scope (spec.md §1).
type WorldEntrant interface {
	EnterWorld(participant *Participant, opts PendingOptions) SpawnFuture
}

// Tick runs one pass of C6 (spec.md §4.6): drains the handoff queue into
// play-set, issues keep-alive pings or kicks, and drains config-set's
// inbound packet queues. t is the tick's start time in monotonic
// nanoseconds. Must only be called from the single simulation thread.
func (m *Manager) Tick(ctx context.Context, t int64, world WorldEntrant) {
	m.drainHandoff(ctx, t, world)
	m.runKeepAlive(t)
	m.interpretConfigPackets()
}

func (m *Manager) drainHandoff(ctx context.Context, t int64, world WorldEntrant) {
	m.handoff.Drain(func(p *Participant) {
		if !p.IsOnline() {
			return
		}
		m.configSet.Remove(p)
		m.playSet.Add(p)
		m.keepAliveSet.Add(p)
		p.setPhase(PhasePlay)
		p.setLastKeepAlive(t)
		// Some clients never acknowledge a keep-alive sent during
		// configuration; forcing this true avoids treating them as
		// already-unresponsive the moment they enter play.
		p.setAnsweredKeepAlive(true)

		opts, _ := p.takePendingOptions()
		var future SpawnFuture
		if world != nil {
			future = world.EnterWorld(p, opts)
		}
		if m.cfg.InsideTest && future != nil {
			_ = future.Await(ctx)
		}
		connlifecycle.PlayEntered(ctx, m.logger, entityRef(p))
	})
}

func (m *Manager) runKeepAlive(t int64) {
	m.keepAliveSet.Each(func(p *Participant) {
		age := t - p.LastKeepAlive()
		switch {
		case age > int64(m.cfg.KeepAliveDelay) && p.AnsweredKeepAlive():
			p.setLastKeepAlive(t)
			p.setAnsweredKeepAlive(false)
			p.Connection.Send(keepAlivePacket{T: t})
			connlifecycle.KeepAliveSent(context.Background(), m.logger, entityRef(p))
		case age >= int64(m.cfg.KeepAliveKick):
			p.Connection.Kick(KickTimeout.String())
			connlifecycle.ParticipantKicked(context.Background(), m.logger, entityRef(p), connlifecycle.KickedPayload{
				Reason: KickTimeout.String(),
			})
		}
	})
}

func (m *Manager) interpretConfigPackets() {
	m.configSet.Each(func(p *Participant) {
		p.drainConfigPackets()
	})
}

// QueueConfigPacket enqueues a config-phase packet received off the wire
// for participant so it is interpreted on the single simulation thread at
// the next C6(c) pass rather than on the I/O worker that received it
// (spec.md §4.4/§4.6c). The core never decodes payload itself; it only
// times the handoff and records that one arrived.
func (m *Manager) QueueConfigPacket(participant *Participant, payload []byte) {
	participant.QueueConfigPacket(func() {
		connlifecycle.ConfigPacketInterpreted(context.Background(), m.logger, entityRef(participant), connlifecycle.ConfigPacketInterpretedPayload{
			Bytes: len(payload),
		})
	})
}
