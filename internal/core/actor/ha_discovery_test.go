package actor

import (
	"testing"
	"time"

	adactor "github.com/berfenger/nuki2mqtt/internal/adapter/actor"
	"github.com/berfenger/nuki2mqtt/internal/core/domain"
	"github.com/berfenger/nuki2mqtt/internal/core/events"
	"github.com/berfenger/nuki2mqtt/internal/util"
	"github.com/berfenger/nuki2mqtt/internal/util/actorutil"
	"github.com/berfenger/nuki2mqtt/pkg/nuki"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHADiscoveryActor(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	cfg.MQTT.HADiscoveryEnable = true
	logger := zap.Must(zap.NewDevelopment())
	as := actorutil.NewActorSystemWithZapLogger(logger)
	es := &eventstream.EventStream{}
	rec := &brokerRecorder{messages: map[string]string{}}
	cache := loadBridgeCache(t)

	mqttPID := as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewTestMQTTActor(&cfg, es, rec.record, logger)
	}))
	pid := as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewHADiscoveryActor(&cfg, mqttPID, es, logger)
	}))
	t.Cleanup(func() {
		as.Root.Stop(pid)
		as.Root.Stop(mqttPID)
		as.Shutdown()
	})

	bridge := events.BridgeDevice(cfg.MQTT.BaseTopic)
	var sensors []domain.GenericSensor
	for _, entity := range events.Entities(cache, bridge) {
		sensors = append(sensors, entity.Sensor)
	}
	changed := domain.EntitiesChangedEvent{Sensors: sensors}

	frontId := nuki.DeviceId(nuki.TEST_NUKI_ID_FRONT)
	stateTopic := "homeassistant/sensor/nuki_" + frontId + "/" + frontId + "_state/config"

	// the subscription is set up asynchronously, keep announcing until it lands
	assert.Eventually(func() bool {
		es.Publish(changed)
		_, ok := rec.get(stateTopic)
		return ok
	}, 5*time.Second, 100*time.Millisecond)

	bridgeConfig, ok := rec.get("homeassistant/binary_sensor/" + bridge.Id + "/" + events.SENSOR_ID_BRIDGE_STATE + "/config")
	assert.True(ok)
	assert.Contains(bridgeConfig, `"payload_on":"online"`)

	stateConfig, _ := rec.get(stateTopic)
	assert.Contains(stateConfig, `"state_topic":"nuki/sensor/`+frontId+`_state/state"`)
	assert.Contains(stateConfig, `"name":"State"`)
}
