package port

// StateSource is the read side of the device-state cache kept by the coordinator.
// Lookups never fail: a missing key, a missing path segment or a
// non-map intermediate value yields the supplied default.
type StateSource interface {
	// LastState looks up key in the last reported lock state of a device.
	LastState(deviceId, key string, def any) any
	// InfoField walks path inside the state map of a device.
	InfoField(deviceId string, def any, path ...string) any
	// DeviceSupports reports whether the last state of a device carries capability.
	DeviceSupports(deviceId, capability string) bool
	// BridgeField walks path inside the bridge-level state.
	BridgeField(def any, path ...string) any
	Devices() []string
	CanBridge() bool
}

// StateSink is the write side used by the pollers.
type StateSink interface {
	ReplaceBridgeState(bridge map[string]any, devices map[string]map[string]any)
	SetInfoField(deviceId, key string, value any) bool
}
