package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedEvent struct {
	orgID   uuid.UUID
	event   string
	payload []byte
}

type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) PublishOrgEvent(orgID uuid.UUID, event string, payload []byte) error {
	f.events = append(f.events, capturedEvent{orgID, event, payload})
	return nil
}

func TestPublish_GoesThroughRedisWhenConfigured(t *testing.T) {
	pub := &fakePublisher{}
	hub := NewHub(nil, pub, nil)

	orgID := uuid.New()
	err := hub.Publish(context.Background(), orgID, "gig_created", map[string]string{"gig_id": "g1"})
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	assert.Equal(t, orgID, pub.events[0].orgID)
	assert.Equal(t, "gig_created", pub.events[0].event)

	var data map[string]string
	require.NoError(t, json.Unmarshal(pub.events[0].payload, &data))
	assert.Equal(t, "g1", data["gig_id"])
}

func TestPublish_LocalOnlyWithoutRedis(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	err := hub.Publish(context.Background(), uuid.New(), "gig_deleted", map[string]string{"gig_id": "g2"})
	require.NoError(t, err)
}

func TestClientCount_TracksRegistrations(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	orgID := uuid.New()
	c1 := &Client{ID: "c1", OrgID: orgID, hub: hub, send: make(chan WSMessage, 1)}
	c2 := &Client{ID: "c2", OrgID: orgID, hub: hub, send: make(chan WSMessage, 1)}

	hub.Register(c1)
	hub.Register(c2)
	assert.Equal(t, 2, hub.ClientCount(orgID))

	hub.Broadcast(orgID, "gig_updated", map[string]string{"gig_id": "g3"})
	msg := <-c1.send
	assert.Equal(t, "gig_updated", msg.Event)

	hub.Unregister(c1)
	hub.Unregister(c2)
	assert.Equal(t, 0, hub.ClientCount(orgID))
}

func TestBroadcast_SafeDuringConcurrentRegistrations(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	orgID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		id := fmt.Sprintf("c%d", i)
		go func() {
			defer wg.Done()
			hub.Register(&Client{ID: id, OrgID: orgID, hub: hub, send: make(chan WSMessage, 4)})
		}()
		go func() {
			defer wg.Done()
			hub.Broadcast(orgID, "gig_updated", map[string]string{"gig_id": id})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, hub.ClientCount(orgID))
}
