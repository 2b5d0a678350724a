package events

import (
	"fmt"
	"math"
	"strconv"

	"github.com/berfenger/nuki2mqtt/internal/core/domain"
)

const NONE_STATE = "None"

// FormatState renders a sensor value the way it is published on its state topic.
func FormatState(value any) string {
	switch v := value.(type) {
	case nil:
		return NONE_STATE
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return FormatState(float64(v))
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// ReadingToEvents maps a sensor reading to the update events published for it.
func ReadingToEvents(sensor domain.GenericSensor, reading domain.SensorReading) []domain.SensorUpdateEvent {
	events := []domain.SensorUpdateEvent{
		domain.TextSensorUpdateEvent{
			SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: sensor.Id},
			Value:                  FormatState(reading.Value),
		},
	}
	if sensor.HasAttributes {
		attrs := reading.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}
		events = append(events, domain.AttributesUpdateEvent{
			SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: sensor.Id},
			Attributes:             attrs,
		})
	}
	return events
}

func BridgeStateEvent(online bool) domain.BridgeStateUpdateEvent {
	return domain.BridgeStateUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: SENSOR_ID_BRIDGE_STATE},
		Value:                  online,
	}
}

// WithIcon returns sensor with its discovery icon replaced when the reading carries one.
func WithIcon(sensor domain.GenericSensor, reading domain.SensorReading) domain.GenericSensor {
	if reading.Icon != "" {
		sensor.Icon = reading.Icon
	}
	return sensor
}
