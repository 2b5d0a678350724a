package actor

import (
	"sync"
	"testing"
	"time"

	adactor "github.com/berfenger/nuki2mqtt/internal/adapter/actor"
	"github.com/berfenger/nuki2mqtt/internal/core/domain"
	"github.com/berfenger/nuki2mqtt/internal/util"
	"github.com/berfenger/nuki2mqtt/internal/util/actorutil"
	"github.com/berfenger/nuki2mqtt/pkg/nuki"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type brokerRecorder struct {
	mu       sync.Mutex
	messages map[string]string
}

func (r *brokerRecorder) record(topic, payload string, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[topic] = payload
}

func (r *brokerRecorder) get(topic string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.messages[topic]
	return v, ok
}

func TestMasterActor(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	cfg.MQTT.HADiscoveryEnable = true
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root
	rec := &brokerRecorder{messages: map[string]string{}}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func() *adactor.NukiActor {
			return adactor.NewNukiActor(nuki.CreateTestBridgeReader(), nuki.CreateTestWebReader(), cfg.Web.LogLimit, cfg.Bridge.RequestTimeout(), logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, rec.record, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	if err != nil {
		t.Error(err)
		return
	}

	frontId := nuki.DeviceId(nuki.TEST_NUKI_ID_FRONT)

	assert.Eventually(func() bool {
		_, ok := rec.get("nuki/sensor/" + frontId + "_web_last_log/state")
		return ok
	}, 5*time.Second, 50*time.Millisecond, "web log published")

	state, _ := rec.get("nuki/sensor/" + frontId + "_state/state")
	assert.Equal("locked", state)
	battery, _ := rec.get("nuki/sensor/" + frontId + "_battery/state")
	assert.Equal("84", battery)

	assert.Eventually(func() bool {
		_, ok := rec.get("homeassistant/sensor/nuki_" + frontId + "/" + frontId + "_state/config")
		return ok
	}, 5*time.Second, 50*time.Millisecond, "discovery published")

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	assert.NoError(err)
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(ok)
	assert.True(healthResp.Healthy, "healthy is true")

	context.Stop(pid)

	as.Shutdown()
}
