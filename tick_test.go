package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickDrainsHandoffIntoPlaySet(t *testing.T) {
	conn := newFakeConn()
	m := newTestManager(DefaultConfig(), &manualClock{})
	participant := NewParticipant(conn, Profile{Username: "N"})
	m.configSet.Add(participant)
	participant.setPendingOptions(PendingOptions{SpawnTarget: "island"})

	m.TransitionConfigToPlay(participant)

	world := &fakeWorld{}
	m.Tick(context.Background(), 1000, world)

	assert.False(t, m.configSet.Contains(participant))
	assert.True(t, m.playSet.Contains(participant))
	assert.True(t, m.keepAliveSet.Contains(participant))
	assert.True(t, participant.AnsweredKeepAlive())
	assert.Equal(t, int64(1000), participant.LastKeepAlive())
	assert.Equal(t, 1, world.enteredCount())
}

func TestTickSkipsOfflineParticipantsInHandoff(t *testing.T) {
	conn := newFakeConn()
	conn.Disconnect()
	m := newTestManager(DefaultConfig(), &manualClock{})
	participant := NewParticipant(conn, Profile{})
	m.TransitionConfigToPlay(participant)

	m.Tick(context.Background(), 1000, &fakeWorld{})

	assert.False(t, m.playSet.Contains(participant))
}

func TestKeepAliveBoundaryNoSendAtExactDelay(t *testing.T) {
	m := newTestManager(DefaultConfig(), &manualClock{})
	conn := newFakeConn()
	p := NewParticipant(conn, Profile{})
	p.setLastKeepAlive(0)
	p.setAnsweredKeepAlive(true)
	m.keepAliveSet.Add(p)

	age := int64(m.cfg.KeepAliveDelay)
	m.runKeepAlive(age)

	assert.Equal(t, 0, conn.sentCount())
	kicked, _ := conn.wasKicked()
	assert.False(t, kicked)
}

func TestKeepAliveSentStrictlyAfterDelay(t *testing.T) {
	m := newTestManager(DefaultConfig(), &manualClock{})
	conn := newFakeConn()
	p := NewParticipant(conn, Profile{})
	p.setLastKeepAlive(0)
	p.setAnsweredKeepAlive(true)
	m.keepAliveSet.Add(p)

	age := int64(m.cfg.KeepAliveDelay) + 1
	m.runKeepAlive(age)

	require.Equal(t, 1, conn.sentCount())
	assert.IsType(t, keepAlivePacket{}, conn.lastSent())
	assert.False(t, p.AnsweredKeepAlive())
}

func TestKeepAliveKickInclusiveAtExactKickThreshold(t *testing.T) {
	m := newTestManager(DefaultConfig(), &manualClock{})
	conn := newFakeConn()
	p := NewParticipant(conn, Profile{})
	p.setLastKeepAlive(0)
	p.setAnsweredKeepAlive(false)
	m.keepAliveSet.Add(p)

	age := int64(m.cfg.KeepAliveKick)
	m.runKeepAlive(age)

	kicked, reason := conn.wasKicked()
	assert.True(t, kicked)
	assert.Equal(t, KickTimeout.String(), reason)
}

func TestKeepAliveScenarioDelayThenKick(t *testing.T) {
	// A ping is sent once the participant goes idle past KEEP_ALIVE_DELAY;
	// last_keep_alive resets to that send time, so the silence clock for
	// the kick check restarts there too — the client must then go quiet
	// for a further KEEP_ALIVE_KICK before it is dropped.
	m := newTestManager(DefaultConfig(), &manualClock{})
	conn := newFakeConn()
	p := NewParticipant(conn, Profile{})
	p.setLastKeepAlive(0)
	p.setAnsweredKeepAlive(true)
	m.keepAliveSet.Add(p)

	t1 := int64(m.cfg.KeepAliveDelay) + 1
	m.runKeepAlive(t1)
	require.Equal(t, 1, conn.sentCount())

	t2 := t1 + int64(m.cfg.KeepAliveKick)
	m.runKeepAlive(t2)

	kicked, reason := conn.wasKicked()
	assert.True(t, kicked)
	assert.Equal(t, KickTimeout.String(), reason)
}

func TestInterpretConfigPacketsDrainsQueue(t *testing.T) {
	m := newTestManager(DefaultConfig(), &manualClock{})
	p := NewParticipant(newFakeConn(), Profile{})
	m.configSet.Add(p)

	handled := 0
	p.QueueConfigPacket(func() { handled++ })
	p.QueueConfigPacket(func() { handled++ })

	m.interpretConfigPackets()

	assert.Equal(t, 2, handled)
}
