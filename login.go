package server

import (
	"context"

	"github.com/ashenkeep/voxelserver/logging"
	"github.com/ashenkeep/voxelserver/logging/connlifecycle"
)

// TransitionLoginToConfig finalises login for participant (C3, spec.md
// §4.3): negotiates compression, dispatches the PreLogin event, awaits
// outstanding login-plugin-message replies, and sends LoginSuccess. It runs
// on the I/O worker owning conn and must only be called while the
// participant is in PhaseLogin.
func (m *Manager) TransitionLoginToConfig(ctx context.Context, participant *Participant, profile Profile) (Profile, error) {
	conn := participant.Connection

	if m.cfg.CompressionThreshold > 0 {
		conn.StartCompression()
	}

	event := &PreLoginEvent{
		Connection: conn,
		Profile:    profile,
		Processor:  conn.LoginPluginMessageProcessor(),
	}
	m.eventBus.Dispatch(event)

	if !conn.IsOnline() {
		return event.Profile, ErrPreLoginCancelled
	}

	profile = event.Profile
	participant.SetProfile(profile)

	if event.Processor != nil {
		deadlineCtx, cancel := context.WithTimeout(ctx, m.cfg.LoginPluginMessageTimeout)
		err := event.Processor.AwaitAll(deadlineCtx)
		cancel()
		if err != nil {
			conn.Kick(KickInvalidProxyResponse.String())
			return profile, ErrLoginPluginReplyFail
		}
	}

	conn.Send(loginSuccessPacket{Profile: profile})

	actor := entityRef(participant)
	connlifecycle.LoginSuccess(ctx, m.logger, actor, connlifecycle.LoginSuccessPayload{Username: profile.Username})

	return profile, nil
}

// loginSuccessPacket is the wire-facing shape of the LoginSuccess packet;
// the actual encoding is owned by the transport collaborator, so this is
// an opaque marker value rather than a byte layout.
type loginSuccessPacket struct {
	Profile Profile
}

func entityRef(p *Participant) logging.EntityRef {
	profile := p.Profile()
	return logging.EntityRef{ID: profile.UUID.String(), Kind: logging.EntityKindParticipant}
}
