package server

import "errors"

// Transient client faults: kick or disconnect, remove from all sets, stop
// the task for that participant. None of these are retried automatically.
var (
	ErrPreLoginCancelled    = errors.New("server: connection went offline during pre-login event")
	ErrLoginPluginReplyFail = errors.New("server: login plugin message reply failed or timed out")
	ErrKnownPacksTimeout    = errors.New("server: known packs response timed out")
	ErrKeepAliveTimeout     = errors.New("server: keep-alive timed out")
)

// Programming errors: fatal for the calling task, surfaced to the caller.
var (
	ErrSpawnMissing      = errors.New("server: configuration event left spawn target unset")
	ErrAlreadyRegistered = errors.New("server: connection already registered")
	ErrManagerShutdown   = errors.New("server: manager is shut down")
)
