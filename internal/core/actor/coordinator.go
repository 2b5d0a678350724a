package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/nuki2mqtt/internal/config"
	"github.com/berfenger/nuki2mqtt/internal/core/domain"
	"github.com/berfenger/nuki2mqtt/internal/core/events"
	"github.com/berfenger/nuki2mqtt/internal/core/service"
	"github.com/berfenger/nuki2mqtt/internal/metrics"
	. "github.com/berfenger/nuki2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

const (
	WEB_LOG_JOB_KEY = "web_log_poll"
)

// CoordinatorActor owns the device-state cache. It polls the bridge on a
// timer, the web API from a quartz job, and announces every merge on the
// event stream. A failed bridge poll marks the bridge offline until the next
// successful one.
type CoordinatorActor struct {
	ActorWithStates
	scheduler    *scheduler.TimerScheduler
	webScheduler quartz.Scheduler
	stash        *Stash
	nukiActor    *actor.PID
	config       *config.Config
	cache        *service.StateCache
	eventStream  *eventstream.EventStream
	webPolled    bool
	bridgeDown   bool
	now          func() time.Time

	logger *zap.Logger
}

type bridgeTick struct {
}

type webTick struct {
}

func NewCoordinatorActor(config *config.Config, nukiActor *actor.PID, cache *service.StateCache, eventStream *eventstream.EventStream, logger *zap.Logger) *CoordinatorActor {
	act := &CoordinatorActor{
		config:      config,
		nukiActor:   nukiActor,
		cache:       cache,
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_COORDINATOR, logger),
		eventStream: eventStream,
		now:         time.Now,
		ActorWithStates: ActorWithStates{
			Behavior: actor.NewBehavior(),
		},
	}
	act.Become(CoordinatorStartingState{
		actor: act,
	})
	return act
}

func (state *CoordinatorActor) Receive(context actor.Context) {
	state.Behavior.Receive(context)
}

func (state *CoordinatorActor) startWebJob(ctx actor.Context) error {
	if !state.config.Web.Enabled() {
		return nil
	}
	sched, err := quartz.NewStdScheduler()
	if err != nil {
		return err
	}
	root := ctx.ActorSystem().Root
	self := ctx.Self()
	webJob := job.NewFunctionJob(func(_ context.Context) (bool, error) {
		root.Send(self, webTick{})
		return true, nil
	})
	detail := quartz.NewJobDetail(webJob, quartz.NewJobKey(WEB_LOG_JOB_KEY))
	if err := sched.ScheduleJob(detail, quartz.NewSimpleTrigger(state.config.Web.PollInterval())); err != nil {
		return err
	}
	sched.Start(context.Background())
	state.webScheduler = sched
	return nil
}

func (state *CoordinatorActor) stop() {
	if state.webScheduler != nil {
		state.webScheduler.Stop()
		state.webScheduler = nil
	}
}

// Upper bounds for a whole poll as seen from the coordinator. They stay above
// the task timeouts used by the nuki actor.
func (state *CoordinatorActor) bridgeRequestTimeout() time.Duration {
	return 4 * state.config.Bridge.RequestTimeout()
}

func (state *CoordinatorActor) webRequestTimeout() time.Duration {
	return 10 * state.config.Bridge.RequestTimeout()
}

// Starting state

type CoordinatorStartingState struct {
	ActorState
	actor *CoordinatorActor
}

func (state CoordinatorStartingState) Name() string {
	return "starting"
}

func (state CoordinatorStartingState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.actor.logger.Debug("coordinator@starting started")

		state.actor.scheduler = scheduler.NewTimerScheduler(ctx)
		if err := state.actor.startWebJob(ctx); err != nil {
			state.actor.logger.Error("coordinator@starting web job", zap.Error(err))
			panic(err)
		}

		ctx.Send(ctx.Self(), bridgeTick{})
		state.actor.Become(CoordinatorIdleState{
			actor: state.actor,
		})
		state.actor.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.actor.stop()
	default:
		state.actor.logger.Debug("coordinator@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

// Idle state

type CoordinatorIdleState struct {
	ActorState
	actor *CoordinatorActor
}

func (state CoordinatorIdleState) Name() string {
	return "idle"
}

func (state CoordinatorIdleState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.actor.logger.Debug("coordinator@idle: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_COORDINATOR,
			Healthy: true,
			State:   state.actor.StateName(),
		})
	case bridgeTick:
		state.actor.logger.Debug("coordinator@idle bridge tick")
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.actor.nukiActor, domain.GetBridgeStateRequest{}, state.actor.bridgeRequestTimeout()), func(err error) any {
			return domain.GetBridgeStateResponse{
				ActorResponseMixIn: domain.ResponseWithError(err),
			}
		})
		state.actor.Become(CoordinatorPollingState{
			actor:  state.actor,
			source: metrics.SOURCE_BRIDGE,
		})
	case webTick:
		if len(state.actor.cache.Devices()) == 0 {
			state.actor.logger.Debug("coordinator@idle web tick skipped, no devices yet")
			return
		}
		state.actor.logger.Debug("coordinator@idle web tick")
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.actor.nukiActor, domain.GetWebLogsRequest{}, state.actor.webRequestTimeout()), func(err error) any {
			return domain.GetWebLogsResponse{
				ActorResponseMixIn: domain.ResponseWithError(err),
			}
		})
		state.actor.Become(CoordinatorPollingState{
			actor:  state.actor,
			source: metrics.SOURCE_WEB,
		})
	case *actor.Stopping:
		state.actor.stop()
	case *actor.Restarting:
		state.actor.stop()
	default:
		state.actor.logger.Debug("coordinator@idle ignore", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// Polling state

type CoordinatorPollingState struct {
	ActorState
	actor  *CoordinatorActor
	source string
}

func (state CoordinatorPollingState) Name() string {
	return "polling"
}

func (state CoordinatorPollingState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_COORDINATOR,
			Healthy: true,
			State:   state.actor.StateName(),
		})
	case domain.GetBridgeStateResponse:
		metrics.PollCounter.WithLabelValues(metrics.SOURCE_BRIDGE).Inc()
		if msg.HasResponseError() {
			metrics.PollErrorCounter.WithLabelValues(metrics.SOURCE_BRIDGE).Inc()
			state.actor.logger.Error("coordinator@polling GetBridgeStateResponse error", zap.Error(msg.GetResponseError()))
			state.actor.bridgeDown = true
			state.actor.eventStream.Publish(events.BridgeStateEvent(false))
		} else {
			state.actor.logger.Debug("coordinator@polling GetBridgeStateResponse", zap.Int("devices", len(msg.Smartlocks)))
			if state.actor.bridgeDown {
				state.actor.bridgeDown = false
				state.actor.eventStream.Publish(events.BridgeStateEvent(true))
			}
			state.actor.cache.ReplaceBridgeState(service.BridgeStateToCache(msg.Info, msg.Smartlocks))
			state.actor.eventStream.Publish(domain.StateRefreshedEvent{Source: metrics.SOURCE_BRIDGE})

			// first web poll as soon as devices are known
			if state.actor.config.Web.Enabled() && !state.actor.webPolled {
				ctx.Send(ctx.Self(), webTick{})
			}
		}

		// schedule next tick
		state.actor.scheduler.RequestOnce(state.actor.config.Bridge.PollInterval(), ctx.Self(), bridgeTick{})
		state.becomeIdle(ctx)
	case domain.GetWebLogsResponse:
		metrics.PollCounter.WithLabelValues(metrics.SOURCE_WEB).Inc()
		state.actor.webPolled = true
		if msg.HasResponseError() {
			metrics.PollErrorCounter.WithLabelValues(metrics.SOURCE_WEB).Inc()
			state.actor.logger.Error("coordinator@polling GetWebLogsResponse error", zap.Error(msg.GetResponseError()))
		} else {
			state.actor.logger.Debug("coordinator@polling GetWebLogsResponse", zap.Int("entries", len(msg.Logs)))
			for deviceId, fields := range service.WebLogInfoFields(msg.Logs, state.actor.now()) {
				for key, value := range fields {
					if !state.actor.cache.SetInfoField(deviceId, key, value) {
						state.actor.logger.Debug("coordinator@polling log entry for unknown device", zap.String("device", deviceId))
						break
					}
				}
			}
			state.actor.eventStream.Publish(domain.StateRefreshedEvent{Source: metrics.SOURCE_WEB})
		}
		state.becomeIdle(ctx)
	case *actor.Stopping:
		state.actor.stop()
	case *actor.Restarting:
		state.actor.stop()
	default:
		state.actor.logger.Debug("coordinator@polling: stash", zap.String("source", state.source), zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

func (state CoordinatorPollingState) becomeIdle(ctx actor.Context) {
	state.actor.Become(CoordinatorIdleState{
		actor: state.actor,
	})
	state.actor.stash.UnstashAll(ctx)
}
