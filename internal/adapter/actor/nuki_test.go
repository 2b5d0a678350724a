package actor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/berfenger/nuki2mqtt/internal/core/domain"
	"github.com/berfenger/nuki2mqtt/internal/util/actorutil"
	"github.com/berfenger/nuki2mqtt/pkg/nuki"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingBridgeReader struct{}

func (failingBridgeReader) Info(_ context.Context) (*nuki.BridgeInfo, error) {
	return nil, errors.New("bridge down")
}

func (failingBridgeReader) List(_ context.Context) ([]nuki.SmartlockEntry, error) {
	return nil, errors.New("bridge down")
}

func spawnNukiActor(t *testing.T, bridge nuki.BridgeReader, web nuki.WebReader) (*actor.ActorSystem, *actor.PID) {
	logger := zap.Must(zap.NewDevelopment())
	as := actorutil.NewActorSystemWithZapLogger(logger)
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewNukiActor(bridge, web, 20, time.Second, logger)
	})
	pid := as.Root.Spawn(props)
	t.Cleanup(func() {
		as.Root.Stop(pid)
		as.Shutdown()
	})
	return as, pid
}

func TestGetBridgeStateNukiActor(t *testing.T) {

	require := require.New(t)

	as, pid := spawnNukiActor(t, nuki.CreateTestBridgeReader(), nil)

	result, err := as.Root.RequestFuture(pid, domain.GetBridgeStateRequest{}, 5*time.Second).Result()
	require.NoError(err)
	resp := result.(domain.GetBridgeStateResponse)

	require.False(resp.HasResponseError())
	require.Len(resp.Smartlocks, 2)
	require.Equal("Front door", resp.Smartlocks[0].Name)
	require.Equal("1.22.1", resp.Info.Versions["firmwareVersion"])
}

func TestGetBridgeStateErrorNukiActor(t *testing.T) {

	assert := assert.New(t)

	as, pid := spawnNukiActor(t, failingBridgeReader{}, nil)

	result, err := as.Root.RequestFuture(pid, domain.GetBridgeStateRequest{}, 5*time.Second).Result()
	assert.NoError(err)
	resp := result.(domain.GetBridgeStateResponse)
	assert.True(resp.HasResponseError())
	assert.Nil(resp.Info)

	// actor is back to default after a failure
	result, err = as.Root.RequestFuture(pid, domain.ActorHealthRequest{}, 5*time.Second).Result()
	assert.NoError(err)
	assert.Equal("idle", result.(domain.ActorHealthResponse).State)
}

func TestGetWebLogsNukiActor(t *testing.T) {

	assert := assert.New(t)

	as, pid := spawnNukiActor(t, nuki.CreateTestBridgeReader(), nuki.CreateTestWebReader())

	result, err := as.Root.RequestFuture(pid, domain.GetWebLogsRequest{}, 5*time.Second).Result()
	assert.NoError(err)
	resp := result.(domain.GetWebLogsResponse)
	assert.False(resp.HasResponseError())
	assert.Len(resp.Logs, 2)
}

func TestGetWebLogsDisabledNukiActor(t *testing.T) {

	assert := assert.New(t)

	as, pid := spawnNukiActor(t, nuki.CreateTestBridgeReader(), nil)

	result, err := as.Root.RequestFuture(pid, domain.GetWebLogsRequest{}, 5*time.Second).Result()
	assert.NoError(err)
	resp := result.(domain.GetWebLogsResponse)
	assert.ErrorIs(resp.GetResponseError(), ErrWebDisabled)
}

func TestConcurrentRequestsAreStashedNukiActor(t *testing.T) {

	assert := assert.New(t)

	as, pid := spawnNukiActor(t, nuki.CreateTestBridgeReader(), nuki.CreateTestWebReader())

	f1 := as.Root.RequestFuture(pid, domain.GetBridgeStateRequest{}, 5*time.Second)
	f2 := as.Root.RequestFuture(pid, domain.GetWebLogsRequest{}, 5*time.Second)

	r1, err := f1.Result()
	assert.NoError(err)
	assert.IsType(domain.GetBridgeStateResponse{}, r1)

	r2, err := f2.Result()
	assert.NoError(err)
	assert.IsType(domain.GetWebLogsResponse{}, r2)
}
