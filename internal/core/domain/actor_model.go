package domain

import "github.com/berfenger/nuki2mqtt/pkg/nuki"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_NUKI         = "nuki"
	ACTOR_ID_COORDINATOR  = "coordinator"
	ACTOR_ID_SENSORS      = "sensors"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetBridgeStateRequest struct {
	ActorRequestMixIn
}

type GetBridgeStateResponse struct {
	ActorResponseMixIn
	Info       *nuki.BridgeInfo
	Smartlocks []nuki.SmartlockEntry
}

type GetWebLogsRequest struct {
	ActorRequestMixIn
}

type GetWebLogsResponse struct {
	ActorResponseMixIn
	Logs []nuki.LogEntry
}

type RepublishStateRequest struct {
	ActorRequestMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
	SensorId string
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
