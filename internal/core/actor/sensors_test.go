package actor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/berfenger/nuki2mqtt/internal/core/domain"
	"github.com/berfenger/nuki2mqtt/internal/core/service"
	"github.com/berfenger/nuki2mqtt/internal/util"
	"github.com/berfenger/nuki2mqtt/internal/util/actorutil"
	"github.com/berfenger/nuki2mqtt/pkg/nuki"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type eventCollector struct {
	mu     sync.Mutex
	events []any
}

func collectEvents(es *eventstream.EventStream) *eventCollector {
	c := &eventCollector{}
	es.Subscribe(func(evt any) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.events = append(c.events, evt)
	})
	return c
}

func (c *eventCollector) updates() []domain.TextSensorUpdateEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var res []domain.TextSensorUpdateEvent
	for _, evt := range c.events {
		if u, ok := evt.(domain.TextSensorUpdateEvent); ok {
			res = append(res, u)
		}
	}
	return res
}

func (c *eventCollector) entityChanges() []domain.EntitiesChangedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var res []domain.EntitiesChangedEvent
	for _, evt := range c.events {
		if u, ok := evt.(domain.EntitiesChangedEvent); ok {
			res = append(res, u)
		}
	}
	return res
}

func (c *eventCollector) refreshes() []domain.StateRefreshedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var res []domain.StateRefreshedEvent
	for _, evt := range c.events {
		if u, ok := evt.(domain.StateRefreshedEvent); ok {
			res = append(res, u)
		}
	}
	return res
}

func loadBridgeCache(t *testing.T) *service.StateCache {
	reader := nuki.CreateTestBridgeReader()
	info, err := reader.Info(context.Background())
	require.NoError(t, err)
	list, err := reader.List(context.Background())
	require.NoError(t, err)

	cache := service.NewStateCache(true)
	cache.ReplaceBridgeState(service.BridgeStateToCache(info, list))
	return cache
}

func TestSensorsActorPublishesChanges(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	logger := zap.Must(zap.NewDevelopment())
	as := actorutil.NewActorSystemWithZapLogger(logger)
	es := &eventstream.EventStream{}
	cache := loadBridgeCache(t)
	collector := collectEvents(es)

	pid := as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewSensorsActor(&cfg, cache, es, logger)
	}))
	t.Cleanup(func() {
		as.Root.Stop(pid)
		as.Shutdown()
	})

	// first refresh publishes every entity
	as.Root.Send(pid, domain.RepublishStateRequest{})
	assert.Eventually(func() bool {
		return len(collector.updates()) == 11
	}, 2*time.Second, 20*time.Millisecond)
	assert.Len(collector.entityChanges(), 1)
	assert.Len(collector.entityChanges()[0].Sensors, 11)

	frontId := nuki.DeviceId(nuki.TEST_NUKI_ID_FRONT)
	values := map[string]string{}
	for _, u := range collector.updates() {
		values[u.Id] = u.Value
	}
	assert.Equal("locked", values[frontId+"_state"])
	assert.Equal("84", values[frontId+"_battery"])
	assert.Equal("-58", values[frontId+"_rssi"])

	// nothing changed, nothing published
	es.Publish(domain.StateRefreshedEvent{Source: "bridge"})
	time.Sleep(200 * time.Millisecond)
	assert.Len(collector.updates(), 11)
	assert.Len(collector.entityChanges(), 1)

	// a new info field adds an entity and publishes only that value
	cache.SetInfoField(frontId, service.INFO_WEB_LAST_UPDATE, "2024-05-01T10:00:00Z")
	es.Publish(domain.StateRefreshedEvent{Source: "web"})
	assert.Eventually(func() bool {
		return len(collector.updates()) == 12
	}, 2*time.Second, 20*time.Millisecond)
	assert.Len(collector.entityChanges(), 2)
	last := collector.updates()[11]
	assert.Equal(frontId+"_web_last_update", last.Id)
	assert.Equal("2024-05-01T10:00:00Z", last.Value)

	// Home Assistant coming back online republishes everything
	es.Publish(domain.HAStatusOnlineEvent{})
	assert.Eventually(func() bool {
		return len(collector.updates()) == 24
	}, 2*time.Second, 20*time.Millisecond)
	assert.Len(collector.entityChanges(), 3)
}
