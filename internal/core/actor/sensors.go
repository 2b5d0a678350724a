package actor

import (
	"encoding/json"
	"fmt"

	"github.com/berfenger/nuki2mqtt/internal/config"
	"github.com/berfenger/nuki2mqtt/internal/core/domain"
	"github.com/berfenger/nuki2mqtt/internal/core/events"
	"github.com/berfenger/nuki2mqtt/internal/core/port"
	"github.com/berfenger/nuki2mqtt/internal/metrics"
	. "github.com/berfenger/nuki2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

// SensorsActor evaluates every entity after each cache refresh and publishes
// the values that changed. A reconnect or a Home Assistant restart forces a
// full republish, entity configs included.
type SensorsActor struct {
	behavior       actor.Behavior
	source         port.StateSource
	eventStream    *eventstream.EventStream
	eventStreamSub *eventstream.Subscription
	bridgeDevice   domain.Device

	published       map[string]string
	entitySignature string

	logger *zap.Logger
}

type sensorsEvent struct {
	message any
}

func NewSensorsActor(config *config.Config, source port.StateSource, eventStream *eventstream.EventStream, logger *zap.Logger) *SensorsActor {
	act := &SensorsActor{
		source:       source,
		eventStream:  eventStream,
		bridgeDevice: events.BridgeDevice(config.MQTT.BaseTopic),
		behavior:     actor.NewBehavior(),
		published:    map[string]string{},
		logger:       ActorLogger(domain.ACTOR_ID_SENSORS, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *SensorsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *SensorsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("sensors@default started")
		root := ctx.ActorSystem().Root
		self := ctx.Self()
		state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
			switch value.(type) {
			case domain.StateRefreshedEvent, domain.MQTTConnectedEvent, domain.HAStatusOnlineEvent:
				root.Send(self, sensorsEvent{message: value})
			}
		})
	case sensorsEvent:
		switch ev := msg.message.(type) {
		case domain.StateRefreshedEvent:
			state.logger.Debug("sensors@default state refreshed", zap.String("source", ev.Source))
			state.refresh(false)
		default:
			state.logger.Debug("sensors@default republish", zap.String("reason", fmt.Sprintf("%T", ev)))
			state.refresh(true)
		}
	case domain.RepublishStateRequest:
		state.logger.Debug("sensors@default RepublishStateRequest")
		state.refresh(true)
	case *actor.Stopping:
		state.unsubscribe()
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("sensors@default ignore", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *SensorsActor) unsubscribe() {
	if state.eventStreamSub != nil {
		state.eventStream.Unsubscribe(state.eventStreamSub)
		state.eventStreamSub = nil
	}
}

// refresh reads every entity once and publishes what changed, or everything
// when force is set.
func (state *SensorsActor) refresh(force bool) {
	if force {
		state.published = map[string]string{}
	}

	entities := events.Entities(state.source, state.bridgeDevice)
	sensors := make([]domain.GenericSensor, 0, len(entities))
	var updates []domain.SensorUpdateEvent
	for _, entity := range entities {
		reading := entity.Read(state.source)
		sensor := events.WithIcon(entity.Sensor, reading)
		sensors = append(sensors, sensor)
		updates = append(updates, events.ReadingToEvents(sensor, reading)...)
	}

	signature := entitySignature(sensors)
	if force || signature != state.entitySignature {
		state.entitySignature = signature
		state.eventStream.Publish(domain.EntitiesChangedEvent{Sensors: sensors})
	}

	count := 0
	for _, ev := range updates {
		key := fmt.Sprintf("%T/%s", ev, ev.SensorId())
		value := updatePayload(ev)
		if last, ok := state.published[key]; ok && last == value {
			continue
		}
		state.published[key] = value
		state.eventStream.Publish(ev)
		count++
	}
	state.logger.Debug("sensors refreshed", zap.Int("entities", len(entities)), zap.Int("published", count), zap.Bool("force", force))

	metrics.ObserveDevices(state.source)
}

func updatePayload(ev domain.SensorUpdateEvent) string {
	switch e := ev.(type) {
	case domain.TextSensorUpdateEvent:
		return e.Value
	case domain.AttributesUpdateEvent:
		payload, err := json.Marshal(e.Attributes)
		if err != nil {
			return ""
		}
		return string(payload)
	default:
		return fmt.Sprintf("%v", e)
	}
}

// entitySignature changes whenever an entity appears, disappears or any of
// its discovery fields changes.
func entitySignature(sensors []domain.GenericSensor) string {
	payload, err := json.Marshal(sensors)
	if err != nil {
		return ""
	}
	return string(payload)
}
