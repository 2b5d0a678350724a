package actor

import (
	"fmt"
	"time"

	"github.com/berfenger/nuki2mqtt/internal/config"
	"github.com/berfenger/nuki2mqtt/internal/core/domain"
	"github.com/berfenger/nuki2mqtt/internal/core/events"
	"github.com/berfenger/nuki2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

const (
	HADISCOVERY_HEALTH_RETRY = 2 * time.Second
)

// HADiscoveryActor publishes a Home Assistant config for the bridge and every
// entity, each time the entity set changes.
type HADiscoveryActor struct {
	config         *config.Config
	behavior       actor.Behavior
	stash          *actorutil.Stash
	scheduler      *scheduler.TimerScheduler
	mqttActor      *actor.PID
	eventStream    *eventstream.EventStream
	eventStreamSub *eventstream.Subscription
	bridgeDevice   domain.Device

	logger *zap.Logger
}

type haDiscoveryEvent struct {
	event domain.EntitiesChangedEvent
}

type haDiscoveryHealthRetry struct {
}

func NewHADiscoveryActor(config *config.Config, mqttActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:       config,
		mqttActor:    mqttActor,
		eventStream:  eventStream,
		bridgeDevice: events.BridgeDevice(config.MQTT.BaseTopic),
		behavior:     actor.NewBehavior(),
		stash:        &actorutil.Stash{},
		logger:       actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		state.scheduler = scheduler.NewTimerScheduler(ctx)

		root := ctx.ActorSystem().Root
		self := ctx.Self()
		state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
			if ev, ok := value.(domain.EntitiesChangedEvent); ok {
				root.Send(self, haDiscoveryEvent{event: ev})
			}
		})

		state.checkMQTTHealth(ctx)
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) checkMQTTHealth(ctx actor.Context) {
	actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
		return domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MQTT,
			Healthy: false,
		}
	})
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		if !msg.Healthy {
			state.scheduler.SendOnce(HADISCOVERY_HEALTH_RETRY, ctx.Self(), haDiscoveryHealthRetry{})
			return
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case haDiscoveryHealthRetry:
		state.checkMQTTHealth(ctx)
	case *actor.Stopping:
		state.unsubscribe()
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case haDiscoveryEvent:
		sensors := events.BridgeSensors(state.bridgeDevice)
		sensors = append(sensors, msg.event.Sensors...)
		state.logger.Debug("hadiscovery@default EntitiesChangedEvent", zap.Int("sensors", len(sensors)))
		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
			ActorRequestMixIn: domain.RequestReplyingTo(ctx.Self()),
			Sensors:           sensors,
		})
	case domain.PublishDiscoveryResponse:
		if msg.HasResponseError() {
			state.logger.Error("hadiscovery@default discovery not published", zap.Error(msg.GetResponseError()))
		}
	case *actor.Stopping:
		state.unsubscribe()
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("hadiscovery@default: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HADiscoveryActor) unsubscribe() {
	if state.eventStreamSub != nil {
		state.eventStream.Unsubscribe(state.eventStreamSub)
		state.eventStreamSub = nil
	}
}
