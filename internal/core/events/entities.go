package events

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	. "github.com/berfenger/nuki2mqtt/internal/core/domain"
	"github.com/berfenger/nuki2mqtt/internal/core/port"
	"github.com/berfenger/nuki2mqtt/internal/core/service"
	"github.com/berfenger/nuki2mqtt/pkg/nuki"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE             = "bridge"
	SENSOR_ID_BATTERY                  = "battery"
	SENSOR_ID_STATE                    = "state"
	SENSOR_ID_RSSI                     = "rssi"
	SENSOR_ID_DOOR_STATE               = "door_state"
	SENSOR_ID_DOOR_SECURITY_STATE      = "door_security_state"
	SENSOR_ID_VERSION                  = "version"
	SENSOR_ID_WIFI_VERSION             = "wifi_version"
	SENSOR_ID_WEB_LAST_UPDATE          = "web_last_update"
	SENSOR_ID_WEB_LAST_LOG             = "web_last_log"
	SENSOR_ID_WEB_LAST_LOCK_UNLOCK_LOG = "web_last_lock_unlock_log"
	STATE_CLASS_MEASUREMENT            = "measurement"
	DEVICE_CLASS_BATTERY               = "battery"
	DEVICE_CLASS_SIGNAL_STRENGTH       = "signal_strength"
	DEVICE_CLASS_TIMESTAMP             = "timestamp"
	DEVICE_CLASS_CONNECTIVITY          = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC            = "diagnostic"
	SENSOR_TYPE_SENSOR                 = "sensor"
	SENSOR_TYPE_BINARY                 = "binary_sensor"
	UNKNOWN_STATE                      = "Unknown"
	UNKNOWN_ATTRIBUTE                  = "unknown"
	MANUFACTURER                       = "Nuki"
)

// Entity pairs the presentation metadata of a sensor with the projection
// that reads its value out of the device-state cache.
type Entity struct {
	Sensor GenericSensor
	Read   func(src port.StateSource) SensorReading
}

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("nuki2mqtt_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "Nuki2MQTT",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Nuki2MQTT %s", md5HashShort(baseTopic)),
	}
}

func NukiBridgeDevice(src port.StateSource, viaDevice string) Device {
	version, _ := src.BridgeField("", service.FIELD_VERSIONS, "firmwareVersion").(string)
	bridgeId := fmt.Sprint(src.BridgeField("", "ids", "serverId"))
	return Device{
		Id:           fmt.Sprintf("nuki_bridge_%s", md5HashShort(bridgeId)),
		Manufacturer: MANUFACTURER,
		Model:        "Bridge",
		Version:      version,
		Name:         "Nuki Bridge",
		ViaDevice:    viaDevice,
	}
}

func LockDevice(src port.StateSource, deviceId string, viaDevice string) Device {
	version, _ := src.InfoField(deviceId, "", service.FIELD_FIRMWARE_VERSION).(string)
	name, _ := src.InfoField(deviceId, deviceId, service.FIELD_NAME).(string)
	model := nuki.DeviceTypeName(nuki.DEVICE_TYPE_SMARTLOCK)
	if deviceType, ok := src.InfoField(deviceId, nil, service.FIELD_DEVICE_TYPE).(int); ok {
		model = nuki.DeviceTypeName(deviceType)
	}
	return Device{
		Id:           fmt.Sprintf("nuki_%s", deviceId),
		Manufacturer: MANUFACTURER,
		Model:        model,
		Version:      version,
		Name:         name,
		ViaDevice:    viaDevice,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Service connection state
	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

// Entities decides which sensors exist for the bridge and every known device.
func Entities(src port.StateSource, bridgeDevice Device) []Entity {

	var entities []Entity

	via := bridgeDevice.Id
	if src.CanBridge() {
		nukiBridge := NukiBridgeDevice(src, bridgeDevice.Id)
		via = nukiBridge.Id
		entities = append(entities, NukiBridgeEntities(nukiBridge)...)
	}

	for _, deviceId := range src.Devices() {
		device := LockDevice(src, deviceId, via)
		entities = append(entities, lockStateEntity(device, deviceId))
		if src.CanBridge() {
			entities = append(entities, rssiEntity(device, deviceId))
		}
		entities = append(entities, lockVersionEntity(device, deviceId))
		if src.DeviceSupports(deviceId, service.STATE_BATTERY_CHARGE_STATE) {
			entities = append(entities, batteryEntity(device, deviceId))
		}
		if src.DeviceSupports(deviceId, service.STATE_DOOR_SENSOR_STATE_NAME) {
			entities = append(entities, doorStateEntity(device, deviceId))
			entities = append(entities, doorSecurityStateEntity(device, deviceId))
		}
		if hasInfo(src, deviceId, service.INFO_WEB_LAST_UPDATE) {
			entities = append(entities, webLastUpdateEntity(device, deviceId))
		}
		if hasInfo(src, deviceId, service.INFO_WEB_LAST_LOG) {
			entities = append(entities, webLastLogEntity(device, deviceId))
		}
		if hasInfo(src, deviceId, service.INFO_WEB_LAST_LOCK_UNLOCK_LOG) {
			entities = append(entities, webLastLockUnlockLogEntity(device, deviceId))
		}
	}

	return entities
}

func NukiBridgeEntities(nukiBridge Device) []Entity {
	return []Entity{
		{
			Sensor: GenericSensor{
				Device:         nukiBridge,
				Id:             fmt.Sprintf("bridge_%s", SENSOR_ID_WIFI_VERSION),
				SensorType:     SENSOR_TYPE_SENSOR,
				Name:           "WiFi Firmware Version",
				EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
				UniqueId:       uniqueId(nukiBridge.Id, SENSOR_ID_WIFI_VERSION),
			},
			Read: func(src port.StateSource) SensorReading {
				return SensorReading{Value: src.BridgeField(nil, service.FIELD_VERSIONS, "wifiFirmwareVersion")}
			},
		},
		{
			Sensor: GenericSensor{
				Device:         nukiBridge,
				Id:             fmt.Sprintf("bridge_%s", SENSOR_ID_VERSION),
				SensorType:     SENSOR_TYPE_SENSOR,
				Name:           "Firmware Version",
				EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
				UniqueId:       uniqueId(nukiBridge.Id, SENSOR_ID_VERSION),
			},
			Read: func(src port.StateSource) SensorReading {
				return SensorReading{Value: src.BridgeField(nil, service.FIELD_VERSIONS, "firmwareVersion")}
			},
		},
	}
}

func batteryEntity(device Device, deviceId string) Entity {
	return Entity{
		Sensor: lockSensor(device, deviceId, SENSOR_ID_BATTERY, GenericSensor{
			Name:              "Battery",
			EntityCategory:    ENTITY_CLASS_DIAGNOSTIC,
			DeviceClass:       DEVICE_CLASS_BATTERY,
			StateClass:        STATE_CLASS_MEASUREMENT,
			UnitOfMeasurement: "%",
		}),
		Read: func(src port.StateSource) SensorReading {
			return SensorReading{Value: src.LastState(deviceId, service.STATE_BATTERY_CHARGE_STATE, 0)}
		},
	}
}

func lockStateEntity(device Device, deviceId string) Entity {
	return Entity{
		Sensor: lockSensor(device, deviceId, SENSOR_ID_STATE, GenericSensor{
			Name:           "State",
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			Icon:           "mdi:door",
		}),
		Read: func(src port.StateSource) SensorReading {
			return SensorReading{Value: src.LastState(deviceId, service.STATE_STATE_NAME, nil)}
		},
	}
}

func rssiEntity(device Device, deviceId string) Entity {
	return Entity{
		Sensor: lockSensor(device, deviceId, SENSOR_ID_RSSI, GenericSensor{
			Name:              "RSSI",
			EntityCategory:    ENTITY_CLASS_DIAGNOSTIC,
			DeviceClass:       DEVICE_CLASS_SIGNAL_STRENGTH,
			StateClass:        STATE_CLASS_MEASUREMENT,
			UnitOfMeasurement: "dBm",
		}),
		Read: func(src port.StateSource) SensorReading {
			return SensorReading{Value: src.InfoField(deviceId, nil, service.FIELD_BRIDGE_INFO, service.FIELD_RSSI)}
		},
	}
}

func doorStateEntity(device Device, deviceId string) Entity {
	return Entity{
		Sensor: lockSensor(device, deviceId, SENSOR_ID_DOOR_STATE, GenericSensor{
			Name:           "Door State",
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			Icon:           "mdi:door",
		}),
		Read: func(src port.StateSource) SensorReading {
			return SensorReading{Value: src.LastState(deviceId, service.STATE_DOOR_SENSOR_STATE_NAME, nil)}
		},
	}
}

func doorSecurityStateEntity(device Device, deviceId string) Entity {
	return Entity{
		Sensor: lockSensor(device, deviceId, SENSOR_ID_DOOR_SECURITY_STATE, GenericSensor{
			Name: "Door Security State",
			Icon: ICON_DOOR_CLOSED_LOCK,
		}),
		Read: func(src port.StateSource) SensorReading {
			state := ClassifyRawDoorSecurity(
				src.LastState(deviceId, service.STATE_STATE, nil),
				src.LastState(deviceId, service.STATE_DOOR_SENSOR_STATE, nil))
			return SensorReading{Value: state.String(), Icon: state.Icon()}
		},
	}
}

func lockVersionEntity(device Device, deviceId string) Entity {
	return Entity{
		Sensor: lockSensor(device, deviceId, SENSOR_ID_VERSION, GenericSensor{
			Name:           "Firmware Version",
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		}),
		Read: func(src port.StateSource) SensorReading {
			return SensorReading{Value: src.InfoField(deviceId, nil, service.FIELD_FIRMWARE_VERSION)}
		},
	}
}

func webLastUpdateEntity(device Device, deviceId string) Entity {
	return Entity{
		Sensor: lockSensor(device, deviceId, SENSOR_ID_WEB_LAST_UPDATE, GenericSensor{
			Name:           "Web Last Update",
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			Icon:           "mdi:history",
			DeviceClass:    DEVICE_CLASS_TIMESTAMP,
		}),
		Read: func(src port.StateSource) SensorReading {
			return SensorReading{Value: src.InfoField(deviceId, UNKNOWN_STATE, service.INFO_WEB_LAST_UPDATE)}
		},
	}
}

func webLastLogEntity(device Device, deviceId string) Entity {
	return Entity{
		Sensor: lockSensor(device, deviceId, SENSOR_ID_WEB_LAST_LOG, GenericSensor{
			Name:           "Web Last Log",
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			Icon:           "mdi:history",
			HasAttributes:  true,
		}),
		Read: func(src port.StateSource) SensorReading {
			return SensorReading{
				Value:      src.InfoField(deviceId, UNKNOWN_STATE, service.INFO_WEB_LAST_LOG, "action"),
				Attributes: logAttributes(src, deviceId, service.INFO_WEB_LAST_LOG, "name", "device_type", "trigger", "state", "source"),
			}
		},
	}
}

func webLastLockUnlockLogEntity(device Device, deviceId string) Entity {
	return Entity{
		Sensor: lockSensor(device, deviceId, SENSOR_ID_WEB_LAST_LOCK_UNLOCK_LOG, GenericSensor{
			Name:           "Web Last Lock Unlock Log",
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			Icon:           "mdi:account-lock-open",
			HasAttributes:  true,
		}),
		Read: func(src port.StateSource) SensorReading {
			return SensorReading{
				Value:      src.InfoField(deviceId, UNKNOWN_STATE, service.INFO_WEB_LAST_LOCK_UNLOCK_LOG, "action"),
				Attributes: logAttributes(src, deviceId, service.INFO_WEB_LAST_LOCK_UNLOCK_LOG, "name", "trigger", "state", "source"),
			}
		},
	}
}

// logAttributes always carries a timestamp, nil unless it parses as RFC 3339.
// hasInfo treats empty values like missing ones.
func hasInfo(src port.StateSource, deviceId, field string) bool {
	switch v := src.InfoField(deviceId, nil, field).(type) {
	case nil:
		return false
	case string:
		return v != ""
	case map[string]any:
		return len(v) > 0
	case bool:
		return v
	default:
		return true
	}
}

func logAttributes(src port.StateSource, deviceId, field string, keys ...string) map[string]any {
	attrs := map[string]any{"timestamp": nil}
	if ts, ok := src.InfoField(deviceId, nil, field, "timestamp").(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			attrs["timestamp"] = t.Format(time.RFC3339Nano)
		}
	}
	for _, key := range keys {
		attrs[key] = src.InfoField(deviceId, UNKNOWN_ATTRIBUTE, field, key)
	}
	return attrs
}

// lockSensor fills identity fields shared by every per-device sensor.
func lockSensor(device Device, deviceId, suffix string, sensor GenericSensor) GenericSensor {
	sensor.Device = device
	sensor.Id = fmt.Sprintf("%s_%s", deviceId, suffix)
	sensor.SensorType = SENSOR_TYPE_SENSOR
	sensor.UniqueId = uniqueId(device.Id, fmt.Sprintf("sensor_%s", suffix))
	return sensor
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
