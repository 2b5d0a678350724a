package metrics

import (
	"context"
	"testing"

	"github.com/berfenger/nuki2mqtt/internal/core/service"
	"github.com/berfenger/nuki2mqtt/pkg/nuki"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDevices(t *testing.T) {

	assert := assert.New(t)

	reader := nuki.CreateTestBridgeReader()
	info, err := reader.Info(context.Background())
	require.NoError(t, err)
	list, err := reader.List(context.Background())
	require.NoError(t, err)

	cache := service.NewStateCache(true)
	cache.ReplaceBridgeState(service.BridgeStateToCache(info, list))

	ObserveDevices(cache)

	front := nuki.DeviceId(nuki.TEST_NUKI_ID_FRONT)
	back := nuki.DeviceId(nuki.TEST_NUKI_ID_BACK)

	assert.Equal(float64(84), testutil.ToFloat64(BatteryGauge.WithLabelValues(front)))
	assert.Equal(float64(1), testutil.ToFloat64(LockStateGauge.WithLabelValues(front)))
	assert.Equal(float64(3), testutil.ToFloat64(LockStateGauge.WithLabelValues(back)))
	assert.Equal(float64(0), testutil.ToFloat64(DoorSecurityGauge.WithLabelValues(front)))
	assert.Equal(float64(-71), testutil.ToFloat64(RssiGauge.WithLabelValues(back)))
}

func TestDoorGaugeNeedsStateName(t *testing.T) {

	assert := assert.New(t)

	withName := nuki.DeviceId(101)
	withoutName := nuki.DeviceId(102)
	cache := service.NewStateCache(true)
	cache.ReplaceBridgeState(service.BridgeStateToCache(nil, []nuki.SmartlockEntry{
		{NukiId: 101, Name: "Garage", LastKnownState: map[string]any{
			"state":               float64(1),
			"doorsensorState":     float64(2),
			"doorsensorStateName": "door closed",
		}},
		{NukiId: 102, Name: "Shed", LastKnownState: map[string]any{
			"state":           float64(1),
			"doorsensorState": float64(2),
		}},
	}))

	ObserveDevices(cache)

	assert.True(DoorSecurityGauge.DeleteLabelValues(withName))
	assert.False(DoorSecurityGauge.DeleteLabelValues(withoutName))
	assert.True(LockStateGauge.DeleteLabelValues(withoutName))
}

func TestPollCountersHaveHelp(t *testing.T) {

	PollCounter.WithLabelValues(SOURCE_BRIDGE).Add(0)
	PollErrorCounter.WithLabelValues(SOURCE_BRIDGE).Add(0)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	help := map[string]string{}
	for _, mf := range families {
		help[mf.GetName()] = mf.GetHelp()
	}
	for _, name := range []string{"nuki2mqtt_client_polls_total", "nuki2mqtt_client_poll_errors_total"} {
		assert.NotEmpty(t, help[name], name)
	}
}
