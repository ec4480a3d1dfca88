package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashenkeep/voxelserver/logging"
	"github.com/ashenkeep/voxelserver/logging/sinks"
)

// TestLoginPublishesTraceableEventThroughRealRouter exercises the full
// publisher pipeline (Router -> sink worker -> MemorySink) end to end
// instead of a recordingPublisher double, so router.go's forwarding and
// WallClock's role as logging.Clock are both proven out.
func TestLoginPublishesTraceableEventThroughRealRouter(t *testing.T) {
	memory := sinks.NewMemorySink()
	router, err := logging.NewRouter(WallClock{}, logging.DefaultConfig(), []logging.NamedSink{
		{Name: "memory", Sink: memory},
	})
	require.NoError(t, err)

	m := NewManager(DefaultConfig(), fakeRegistries{}, &manualClock{}, WithLogger(router))
	conn := newFakeConn()
	participant := NewParticipant(conn, Profile{Username: "alice"})

	profile, err := m.TransitionLoginToConfig(context.Background(), participant, Profile{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	require.NoError(t, router.Close(context.Background()))

	events := memory.EventsOfType("conn.login_success")
	require.Len(t, events, 1)
	assert.Equal(t, logging.CategoryConnection, events[0].Category)
	assert.Equal(t, participant.Profile().UUID.String(), events[0].TraceID)
}
