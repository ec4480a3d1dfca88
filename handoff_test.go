package server

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandoffQueueFIFOPerProducer(t *testing.T) {
	q := newHandoffQueue()
	p1 := NewParticipant(newFakeConn(), Profile{Username: "one"})
	p2 := NewParticipant(newFakeConn(), Profile{Username: "two"})
	p3 := NewParticipant(newFakeConn(), Profile{Username: "three"})

	q.Offer(p1)
	q.Offer(p2)
	q.Offer(p3)

	var drained []*Participant
	n := q.Drain(func(p *Participant) { drained = append(drained, p) })

	require.Equal(t, 3, n)
	assert.Equal(t, []*Participant{p1, p2, p3}, drained)
}

func TestHandoffQueueDrainOnlyVisitsPriorEntries(t *testing.T) {
	q := newHandoffQueue()
	p1 := NewParticipant(newFakeConn(), Profile{})
	q.Offer(p1)

	var drained []*Participant
	q.Drain(func(p *Participant) {
		drained = append(drained, p)
		// Offered during drain; must not be visited by this call.
		q.Offer(NewParticipant(newFakeConn(), Profile{}))
	})

	assert.Len(t, drained, 1)

	var secondPass []*Participant
	q.Drain(func(p *Participant) { secondPass = append(secondPass, p) })
	assert.Len(t, secondPass, 1)
}

func TestHandoffQueueConcurrentProducers(t *testing.T) {
	q := newHandoffQueue()
	const producers = 20
	const perProducer = 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Offer(NewParticipant(newFakeConn(), Profile{}))
			}
		}()
	}
	wg.Wait()

	count := q.Drain(func(*Participant) {})
	assert.Equal(t, producers*perProducer, count)
}

func TestHandoffQueueEmptyDrainIsNoop(t *testing.T) {
	q := newHandoffQueue()
	n := q.Drain(func(*Participant) { t.Fatal("should not be called") })
	assert.Equal(t, 0, n)
}
