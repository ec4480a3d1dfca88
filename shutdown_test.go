package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownKicksEveryParticipantAndClearsSets(t *testing.T) {
	m := newTestManager(DefaultConfig(), &manualClock{})

	loginConn := newFakeConn()
	loginParticipant, err := m.CreatePlayer(loginConn, Profile{Username: "login"})
	require.NoError(t, err)
	m.configSet.Add(loginParticipant)
	m.keepAliveSet.Add(loginParticipant)

	playConn := newFakeConn()
	playParticipant, err := m.CreatePlayer(playConn, Profile{Username: "play"})
	require.NoError(t, err)
	m.playSet.Add(playParticipant)
	m.keepAliveSet.Add(playParticipant)

	m.Shutdown(context.Background())

	for _, conn := range []*fakeConn{loginConn, playConn} {
		kicked, reason := conn.wasKicked()
		assert.True(t, kicked)
		assert.Equal(t, KickShutdown.String(), reason)
	}

	assert.Equal(t, 0, m.configSet.Len())
	assert.Equal(t, 0, m.playSet.Len())
	assert.Equal(t, 0, m.keepAliveSet.Len())
	_, ok := m.Get(loginConn)
	assert.False(t, ok)
	_, ok = m.Get(playConn)
	assert.False(t, ok)
}

func TestShutdownIsIdempotent(t *testing.T) {
	m := newTestManager(DefaultConfig(), &manualClock{})
	conn := newFakeConn()
	_, err := m.CreatePlayer(conn, Profile{})
	require.NoError(t, err)

	m.Shutdown(context.Background())
	m.Shutdown(context.Background())

	kicked, _ := conn.wasKicked()
	assert.True(t, kicked)
}

func TestShutdownRejectsFurtherCreate(t *testing.T) {
	m := newTestManager(DefaultConfig(), &manualClock{})
	m.Shutdown(context.Background())

	_, err := m.CreatePlayer(newFakeConn(), Profile{})
	assert.ErrorIs(t, err, ErrManagerShutdown)
}
