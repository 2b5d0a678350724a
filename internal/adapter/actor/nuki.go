package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/nuki2mqtt/internal/core/domain"
	"github.com/berfenger/nuki2mqtt/internal/util/actorutil"
	"github.com/berfenger/nuki2mqtt/pkg/nuki"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

var ErrWebDisabled = errors.New("web api not configured")

// NukiActor serializes access to the bridge and web APIs. While a request is
// in flight other requests are stashed.
type NukiActor struct {
	behavior   actor.Behavior
	stash      *actorutil.Stash
	bridge     nuki.BridgeReader
	web        nuki.WebReader
	webLimit   uint
	timeout    time.Duration
	webTimeout time.Duration
	logger     *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewNukiActor(bridge nuki.BridgeReader, web nuki.WebReader, webLimit uint, timeout time.Duration, logger *zap.Logger) *NukiActor {
	act := &NukiActor{
		bridge:     bridge,
		web:        web,
		webLimit:   webLimit,
		timeout:    timeout,
		webTimeout: 4 * timeout,
		behavior:   actor.NewBehavior(),
		stash:      &actorutil.Stash{},
		logger:     actorutil.ActorLogger(domain.ACTOR_ID_NUKI, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *NukiActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *NukiActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("nuki@default started")
	case domain.ActorHealthRequest:
		state.logger.Debug("nuki@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_NUKI,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetBridgeStateRequest:
		state.logger.Debug("nuki@default: GetBridgeStateRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.getBridgeState),
			mapTaskResult[domain.GetBridgeStateResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetBridgeStateResponse{
					ActorResponseMixIn: domain.ResponseWithError(err),
				},
				replyTo: sender,
			}
		}).WithTimeout(state.timeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingNuki)
	case domain.GetWebLogsRequest:
		state.logger.Debug("nuki@default: GetWebLogsRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		if state.web == nil {
			ctx.Send(sender, domain.GetWebLogsResponse{
				ActorResponseMixIn: domain.ResponseWithError(ErrWebDisabled),
			})
			return
		}
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.getWebLogs),
			mapTaskResult[domain.GetWebLogsResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetWebLogsResponse{
					ActorResponseMixIn: domain.ResponseWithError(err),
				},
				replyTo: sender,
			}
		}).WithTimeout(state.webTimeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingNuki)
	default:
		state.logger.Debug("nuki@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *NukiActor) WaitingNuki(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("nuki@WaitingNuki backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_NUKI,
			Healthy: true,
			State:   "waiting",
		})
	case *actor.Stopping:
		state.logger.Debug("nuki@WaitingNuki stopping", zap.Int("stashed", state.stash.Len()))
	default:
		state.logger.Debug("nuki@WaitingNuki stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *NukiActor) getBridgeState() (*domain.GetBridgeStateResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	info, err := a.bridge.Info(ctx)
	if err != nil {
		a.logger.Error("bridge info failed", zap.Error(err))
		return nil, err
	}
	list, err := a.bridge.List(ctx)
	if err != nil {
		a.logger.Error("bridge list failed", zap.Error(err))
		return nil, err
	}
	return &domain.GetBridgeStateResponse{
		Info:       info,
		Smartlocks: list,
	}, nil
}

func (a *NukiActor) getWebLogs() (*domain.GetWebLogsResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.webTimeout)
	defer cancel()

	logs, err := a.web.SmartlockLogs(ctx, a.webLimit)
	if err != nil {
		a.logger.Error("web logs failed", zap.Error(err))
		return nil, err
	}
	return &domain.GetWebLogsResponse{
		Logs: logs,
	}, nil
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
