package server

import "github.com/iancoleman/orderedmap"

// PreLoginEvent is the in-out parameter object dispatched during C3 step 2.
// Handlers may mutate Profile and start login-plugin-message round trips
// through Processor before returning.
type PreLoginEvent struct {
	Connection Connection
	Profile    Profile
	Processor  LoginPluginMessageProcessor
}

// ConfigurationEvent is the in-out parameter object dispatched during C4
// step 4. Handlers observe IsFirstConfig and may mutate every other field;
// the core reads the post-dispatch record back out.
type ConfigurationEvent struct {
	Participant *Participant

	// IsFirstConfig is true on initial login, false when an already-playing
	// participant is sent back to configuration.
	IsFirstConfig bool

	// EnabledFeatures preserves insertion order so the wire packet lists
	// feature names the way the handler set them.
	EnabledFeatures *orderedmap.OrderedMap

	ResetChat         bool
	SendRegistryData  bool
	SpawnTarget       any
	Hardcore          bool

	kicked bool
}

// Kick marks the event's participant as kicked; the core checks this via
// Connection.IsOnline rather than a dedicated flag, but handlers may use
// this helper for symmetry with the kick they issue on the connection.
func (e *ConfigurationEvent) Kick(reason string) {
	if e.kicked {
		return
	}
	e.kicked = true
	if e.Participant != nil && e.Participant.Connection != nil {
		e.Participant.Connection.Kick(reason)
	}
}

// NewConfigurationEvent builds a ConfigurationEvent with an empty,
// order-preserving feature set ready for handlers to populate.
func NewConfigurationEvent(participant *Participant, isFirstConfig bool) *ConfigurationEvent {
	return &ConfigurationEvent{
		Participant:     participant,
		IsFirstConfig:   isFirstConfig,
		EnabledFeatures: orderedmap.New(),
	}
}

// EventBus dispatches events to registered handlers synchronously; handlers
// may mutate the event in place before dispatch returns.
type EventBus interface {
	Dispatch(event any)
}

// EventBusFunc adapts a function into the EventBus interface.
type EventBusFunc func(event any)

// Dispatch implements EventBus for EventBusFunc.
func (f EventBusFunc) Dispatch(event any) {
	if f == nil {
		return
	}
	f(event)
}
