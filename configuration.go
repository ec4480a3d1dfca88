package server

import (
	"context"

	"github.com/ashenkeep/voxelserver/logging/connlifecycle"
)

// startConfigurationPacket signals the client to re-enter configuration.
type startConfigurationPacket struct{}

// brandPacket identifies this implementation to the client.
type brandPacket struct{ Brand string }

// enabledFeaturesPacket lists the active feature flags in iteration order.
type enabledFeaturesPacket struct{ Features []string }

// resetChatPacket clears the client's chat state.
type resetChatPacket struct{}

// finishConfigurationPacket ends the configuration phase.
type finishConfigurationPacket struct{}

const implementationBrand = "voxelserver"

// TransitionPlayToConfig sends a participant already in play back to
// configuration: sends StartConfiguration and adds it to config-set
// (spec.md §6).
func (m *Manager) TransitionPlayToConfig(participant *Participant) {
	participant.Connection.Send(startConfigurationPacket{})
	participant.setPhase(PhaseConfig)
	m.configSet.Add(participant)
}

// DoConfiguration drives participant through the configuration phase to
// finish-configuration (C4, spec.md §4.4). isFirstConfig distinguishes
// initial login from a play→config re-entry. Runs on the I/O worker owning
// the participant's connection.
func (m *Manager) DoConfiguration(ctx context.Context, participant *Participant, isFirstConfig bool) error {
	conn := participant.Connection

	connlifecycle.ConfigurationStart(ctx, m.logger, entityRef(participant))

	if isFirstConfig {
		m.configSet.Add(participant)
		m.keepAliveSet.Add(participant)
	}

	conn.Send(brandPacket{Brand: implementationBrand})

	knownPacksFuture := conn.RequestKnownPacks([]KnownPackEntry{CorePack})

	event := NewConfigurationEvent(participant, isFirstConfig)
	m.eventBus.Dispatch(event)

	if !conn.IsOnline() {
		return nil
	}

	conn.Send(enabledFeaturesPacket{Features: event.EnabledFeatures.Keys()})

	if event.SpawnTarget == nil {
		return ErrSpawnMissing
	}

	if event.ResetChat {
		conn.Send(resetChatPacket{})
	}

	if event.SendRegistryData {
		deadlineCtx, cancel := context.WithTimeout(ctx, m.cfg.KnownPacksResponseTimeout)
		knownPacks, err := knownPacksFuture.Await(deadlineCtx)
		cancel()
		if err != nil {
			connlifecycle.KnownPacksTimeout(ctx, m.logger, entityRef(participant), connlifecycle.KnownPacksTimeoutPayload{
				Username: participant.Profile().Username,
			})
			conn.Disconnect()
			return ErrKnownPacksTimeout
		}

		excludeVanilla := containsCorePack(knownPacks)
		for _, kind := range registryDataOrder {
			conn.Send(m.registries.RegistryData(kind, excludeVanilla))
		}
		m.SendRegistryTags(participant)
	}

	if future := participant.pendingResourcePackFuture(); future != nil {
		if err := future.Await(ctx); err != nil {
			return err
		}
	}

	m.keepAliveSet.Remove(participant)
	participant.setPendingOptions(PendingOptions{SpawnTarget: event.SpawnTarget, Hardcore: event.Hardcore})

	conn.Send(finishConfigurationPacket{})
	connlifecycle.FinishConfiguration(ctx, m.logger, entityRef(participant))

	return nil
}

func containsCorePack(packs []KnownPackEntry) bool {
	for _, pack := range packs {
		if pack == CorePack {
			return true
		}
	}
	return false
}

// TransitionConfigToPlay offers participant to the handoff queue (C5); the
// tick driver moves it from config-set to play-set on its next drain
// (spec.md §6).
func (m *Manager) TransitionConfigToPlay(participant *Participant) {
	m.handoff.Offer(participant)
	connlifecycle.HandoffEnqueued(context.Background(), m.logger, entityRef(participant))
}
