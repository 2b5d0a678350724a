package mqtt

import (
	"testing"

	"github.com/berfenger/nuki2mqtt/internal/core/domain"
	"github.com/berfenger/nuki2mqtt/internal/core/events"
	"github.com/berfenger/nuki2mqtt/internal/util"

	"github.com/stretchr/testify/assert"
)

func testClient() *MQTTClient {
	cfg := util.LoadTestConfig()
	return CreateMQTTClient(&cfg, OptsFromConfig(&cfg), nil, nil)
}

func TestTopicLayout(t *testing.T) {

	assert := assert.New(t)

	c := testClient()

	assert.Equal("nuki/bridge/state", c.BridgeStateTopic())
	assert.Equal("nuki/sensor/1a2b3c4d_battery/state", c.SensorStateTopic("1a2b3c4d_battery"))
	assert.Equal("nuki/sensor/1a2b3c4d_web_last_log/attributes", c.SensorAttributesTopic("1a2b3c4d_web_last_log"))
	assert.Equal("nuki/binary_sensor/bridge/state", c.BinarySensorStateTopic("bridge"))
	assert.Equal("homeassistant/status", c.HAStatusTopic())
}

func TestLastWillIsBridgeOffline(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	opts := OptsFromConfig(&cfg)

	assert.True(opts.WillEnabled)
	assert.True(opts.WillRetained)
	assert.Equal("nuki/bridge/state", opts.WillTopic)
	assert.Equal([]byte(MQTT_PAYLOAD_OFFLINE), opts.WillPayload)
}

func TestSensorDiscoveryMessage(t *testing.T) {

	assert := assert.New(t)

	c := testClient()
	sensor := domain.GenericSensor{
		Device:            domain.Device{Id: "nuki_1a2b3c4d", Name: "Front door", Manufacturer: "Nuki", ViaDevice: "nuki_bridge"},
		Id:                "1a2b3c4d_battery",
		SensorType:        events.SENSOR_TYPE_SENSOR,
		Name:              "Battery",
		UniqueId:          "uid_nuki_1a2b3c4d_sensor_battery",
		UnitOfMeasurement: "%",
		StateClass:        events.STATE_CLASS_MEASUREMENT,
		DeviceClass:       events.DEVICE_CLASS_BATTERY,
		EntityCategory:    events.ENTITY_CLASS_DIAGNOSTIC,
	}

	msg := GenericSensorToHADiscoveryMessage(c, sensor)

	assert.Equal("homeassistant/sensor/nuki_1a2b3c4d/1a2b3c4d_battery/config", HADiscoverySensorTopic(c, sensor))
	assert.Equal([]string{"nuki_1a2b3c4d"}, msg.Device.Id)
	assert.Equal("nuki_bridge", msg.Device.ViaDevice)
	assert.Equal("nuki/sensor/1a2b3c4d_battery/state", msg.StateTopic)
	assert.Equal("nuki/bridge/state", msg.AvTopic)
	assert.Equal("uid_nuki_1a2b3c4d_sensor_battery", msg.UniqueId)
	assert.Equal(events.DEVICE_CLASS_BATTERY, msg.DeviceClass)
	assert.Empty(msg.JsonAttributesTopic)
	assert.Empty(msg.PayloadOn)
}

func TestAttributesAndBridgeDiscoveryMessage(t *testing.T) {

	assert := assert.New(t)

	c := testClient()

	withAttrs := GenericSensorToHADiscoveryMessage(c, domain.GenericSensor{
		Id:            "1a2b3c4d_web_last_log",
		SensorType:    events.SENSOR_TYPE_SENSOR,
		Icon:          "mdi:history",
		HasAttributes: true,
	})
	assert.Equal("nuki/sensor/1a2b3c4d_web_last_log/attributes", withAttrs.JsonAttributesTopic)
	assert.Equal("mdi:history", withAttrs.Icon)

	bridge := events.BridgeSensors(events.BridgeDevice("nuki"))[0]
	msg := GenericSensorToHADiscoveryMessage(c, bridge)
	assert.Equal("nuki/bridge/state", msg.StateTopic)
	assert.Equal(MQTT_PAYLOAD_ONLINE, msg.PayloadOn)
	assert.Equal(MQTT_PAYLOAD_OFFLINE, msg.PayloadOff)
	assert.Contains(HADiscoverySensorTopic(c, bridge), "homeassistant/binary_sensor/")
}
