package domain

import "fmt"

type SensorUpdateEventMixIn struct {
	Id string
}

type SensorUpdateEvent interface {
	SensorUpdateEvent() string
	SensorId() string
}

func (e SensorUpdateEventMixIn) SensorUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e SensorUpdateEventMixIn) SensorId() string {
	return e.Id
}

type TextSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value string
}

type AttributesUpdateEvent struct {
	SensorUpdateEventMixIn
	Attributes map[string]any
}

type BridgeStateUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

// StateRefreshedEvent is published after the device-state cache has been updated.
type StateRefreshedEvent struct {
	Source string
}

// EntitiesChangedEvent carries the full entity set whenever an entity
// appears or its discovery metadata (e.g. icon) changes.
type EntitiesChangedEvent struct {
	Sensors []GenericSensor
}

// HAStatusOnlineEvent is published when Home Assistant announces it came online.
type HAStatusOnlineEvent struct {
}

// MQTTConnectedEvent is published each time the MQTT session is (re)established.
type MQTTConnectedEvent struct {
}
