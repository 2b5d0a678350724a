package events

import (
	"testing"

	"github.com/berfenger/nuki2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestFormatState(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("None", FormatState(nil))
	assert.Equal("locked", FormatState("locked"))
	assert.Equal("84", FormatState(float64(84)))
	assert.Equal("12.5", FormatState(12.5))
	assert.Equal("-58", FormatState(-58))
	assert.Equal("True", FormatState(true))
	assert.Equal("open", FormatState(domain.DOOR_SECURITY_STATE_OPEN))
}

func TestReadingToEvents(t *testing.T) {

	assert := assert.New(t)

	plain := domain.GenericSensor{Id: "a_state"}
	events := ReadingToEvents(plain, domain.SensorReading{Value: "locked"})
	assert.Equal([]domain.SensorUpdateEvent{
		domain.TextSensorUpdateEvent{SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: "a_state"}, Value: "locked"},
	}, events)

	withAttrs := domain.GenericSensor{Id: "a_web_last_log", HasAttributes: true}
	events = ReadingToEvents(withAttrs, domain.SensorReading{Value: nil})
	assert.Len(events, 2)
	assert.Equal("None", events[0].(domain.TextSensorUpdateEvent).Value)
	assert.Equal(map[string]any{}, events[1].(domain.AttributesUpdateEvent).Attributes)
	assert.Equal("a_web_last_log", events[1].SensorId())
}

func TestWithIcon(t *testing.T) {

	sensor := domain.GenericSensor{Id: "x", Icon: domain.ICON_DOOR_CLOSED_LOCK}
	assert.Equal(t, domain.ICON_DOOR_CLOSED_LOCK, WithIcon(sensor, domain.SensorReading{}).Icon)
	assert.Equal(t, domain.ICON_DOOR_OPEN, WithIcon(sensor, domain.SensorReading{Icon: domain.ICON_DOOR_OPEN}).Icon)
}
