package domain

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string // measurement
	DeviceClass       string // battery, signal_strength, timestamp
	EntityCategory    string // diagnostic, config, nil
	EnabledByDefault  *bool
	Icon              string
	HasAttributes     bool
}

// SensorReading is the projected value of a sensor at one point in time.
// A nil Value means the source had nothing to report.
type SensorReading struct {
	Value      any
	Icon       string
	Attributes map[string]any
}
