package netio

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	server "github.com/ashenkeep/voxelserver"
	"github.com/ashenkeep/voxelserver/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// HandlerConfig configures the HTTP handler that upgrades incoming
// connections and drives them through the manager's lifecycle.
type HandlerConfig struct {
	Manager *server.Manager
	Logger  telemetry.Logger
}

// NewHandler returns an http.Handler that upgrades every request to a
// WebSocket connection and runs it through login, configuration, and the
// inbound read pump.
func NewHandler(cfg HandlerConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Printf("websocket upgrade failed: %v", err)
			}
			return
		}
		conn := NewWSConnection(raw)
		go serve(r.Context(), cfg, conn)
	})
}

// serve owns one connection's cooperative task: login, configuration, and
// the inbound read pump that feeds config-phase packets, known-packs
// replies, configuration-end and keep-alive responses back into the core.
// The pump has no route for login-plugin-message replies.
func serve(ctx context.Context, cfg HandlerConfig, conn *WSConnection) {
	defer conn.Disconnect()

	profile := server.Profile{UUID: uuid.New()}
	participant, err := cfg.Manager.CreatePlayer(conn, profile)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Printf("create player failed: %v", err)
		}
		conn.Disconnect()
		return
	}
	defer cfg.Manager.RemovePlayer(conn)

	profile, err = cfg.Manager.TransitionLoginToConfig(ctx, participant, profile)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Printf("login transition for %s ended: %v", profile.Username, err)
		}
		return
	}

	if err := cfg.Manager.DoConfiguration(ctx, participant, true); err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Printf("configuration for %s ended: %v", profile.Username, err)
		}
		return
	}

	pump(ctx, cfg, participant, conn)
}

// inboundEnvelope is the minimal shape this reference adapter expects on
// the wire; real packet decoding belongs to the transport collaborator.
type inboundEnvelope struct {
	Kind       string                  `json:"kind"`
	KnownPacks []server.KnownPackEntry `json:"knownPacks,omitempty"`
	Payload    json.RawMessage         `json:"payload,omitempty"`
}

const (
	kindKnownPacksReply   = "known_packs_reply"
	kindConfigurationEnd  = "configuration_end"
	kindKeepAliveResponse = "keep_alive_response"
	kindConfigPacket      = "config_packet"
)

// pump reads frames off the socket until it closes, routing each to the
// manager operation the wire kind names.
func pump(ctx context.Context, cfg HandlerConfig, participant *server.Participant, conn *WSConnection) {
	for {
		var envelope inboundEnvelope
		if err := conn.conn.ReadJSON(&envelope); err != nil {
			return
		}
		switch envelope.Kind {
		case kindKnownPacksReply:
			conn.ResolveKnownPacks(envelope.KnownPacks)
		case kindConfigurationEnd:
			cfg.Manager.TransitionConfigToPlay(participant)
		case kindKeepAliveResponse:
			participant.MarkKeepAliveAnswered()
		case kindConfigPacket:
			cfg.Manager.QueueConfigPacket(participant, envelope.Payload)
		}
	}
}
