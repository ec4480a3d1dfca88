// Package connlifecycle carries the event types the connection-lifecycle
// core publishes through logging.Publisher: login, configuration, handoff,
// keep-alive, and shutdown observability.
package connlifecycle

import (
	"context"

	"github.com/ashenkeep/voxelserver/logging"
)

const (
	EventLoginSuccess        logging.EventType = "conn.login_success"
	EventConfigurationStart  logging.EventType = "conn.configuration_start"
	EventFinishConfiguration logging.EventType = "conn.finish_configuration"
	EventKnownPacksTimeout   logging.EventType = "conn.known_packs_timeout"
	EventHandoffEnqueued     logging.EventType = "conn.handoff_enqueued"
	EventPlayEntered         logging.EventType = "conn.play_entered"
	EventKeepAliveSent       logging.EventType = "conn.keep_alive_sent"
	EventParticipantKicked   logging.EventType = "conn.participant_kicked"
	EventShutdown            logging.EventType = "conn.shutdown"
	EventConfigPacketHandled logging.EventType = "conn.config_packet_handled"
)

// LoginSuccessPayload captures the identity the login step resolved.
type LoginSuccessPayload struct {
	Username string `json:"username"`
}

// KnownPacksTimeoutPayload identifies the participant whose known-packs
// future never resolved in time; spec.md's single required WARN.
type KnownPacksTimeoutPayload struct {
	Username string `json:"username"`
}

// KickedPayload records why a participant was kicked.
type KickedPayload struct {
	Reason string `json:"reason"`
}

// ConfigPacketInterpretedPayload records that a config-phase packet reached
// the single simulation thread and how large its undecoded payload was; the
// core never inspects the bytes itself.
type ConfigPacketInterpretedPayload struct {
	Bytes int `json:"bytes"`
}

func LoginSuccess(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload LoginSuccessPayload) {
	publish(ctx, pub, EventLoginSuccess, logging.SeverityInfo, actor, payload)
}

func ConfigurationStart(ctx context.Context, pub logging.Publisher, actor logging.EntityRef) {
	publish(ctx, pub, EventConfigurationStart, logging.SeverityDebug, actor, nil)
}

func FinishConfiguration(ctx context.Context, pub logging.Publisher, actor logging.EntityRef) {
	publish(ctx, pub, EventFinishConfiguration, logging.SeverityDebug, actor, nil)
}

// KnownPacksTimeout publishes the WARN spec.md §7 requires, identifying the
// participant by username.
func KnownPacksTimeout(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload KnownPacksTimeoutPayload) {
	publish(ctx, pub, EventKnownPacksTimeout, logging.SeverityWarn, actor, payload)
}

func HandoffEnqueued(ctx context.Context, pub logging.Publisher, actor logging.EntityRef) {
	publish(ctx, pub, EventHandoffEnqueued, logging.SeverityDebug, actor, nil)
}

func PlayEntered(ctx context.Context, pub logging.Publisher, actor logging.EntityRef) {
	publish(ctx, pub, EventPlayEntered, logging.SeverityInfo, actor, nil)
}

func KeepAliveSent(ctx context.Context, pub logging.Publisher, actor logging.EntityRef) {
	publish(ctx, pub, EventKeepAliveSent, logging.SeverityDebug, actor, nil)
}

func ParticipantKicked(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload KickedPayload) {
	publish(ctx, pub, EventParticipantKicked, logging.SeverityWarn, actor, payload)
}

func ConfigPacketInterpreted(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload ConfigPacketInterpretedPayload) {
	publish(ctx, pub, EventConfigPacketHandled, logging.SeverityDebug, actor, payload)
}

func Shutdown(ctx context.Context, pub logging.Publisher, count int) {
	publish(ctx, pub, EventShutdown, logging.SeverityInfo, logging.EntityRef{Kind: logging.EntityKindSystem}, struct {
		Count int `json:"count"`
	}{Count: count})
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, severity logging.Severity, actor logging.EntityRef, payload any) {
	if pub == nil {
		return
	}
	// A participant's UUID doubles as the trace ID correlating every event
	// published with that participant as actor, from LoginSuccess through
	// play entry and any kick. System-actor events such as Shutdown carry
	// no trace ID.
	var traceID string
	if actor.Kind == logging.EntityKindParticipant {
		traceID = actor.ID
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryConnection,
		Payload:  payload,
		TraceID:  traceID,
	})
}
