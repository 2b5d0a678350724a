package metrics

import (
	"github.com/berfenger/nuki2mqtt/internal/core/domain"
	"github.com/berfenger/nuki2mqtt/internal/core/port"
	"github.com/berfenger/nuki2mqtt/internal/core/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nuki2mqtt"

const (
	SOURCE_BRIDGE = "bridge"
	SOURCE_WEB    = "web"
)

var BatteryGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "lock",
	Name:      "battery_percent",
	Help:      "Battery charge state reported by the lock.",
}, []string{"device"})

var LockStateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "lock",
	Name:      "state",
	Help:      "Raw lock state code.",
}, []string{"device"})

var DoorSecurityGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "lock",
	Name:      "door_security_state",
	Help:      "0 closed and locked, 1 closed and unlocked, 2 open.",
}, []string{"device"})

var RssiGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "lock",
	Name:      "rssi_dbm",
	Help:      "Signal strength seen by the bridge.",
}, []string{"device"})

var PollCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "client",
	Name:      "polls_total",
	Help:      "Completed polls of the bridge or web API.",
}, []string{"source"})

var PollErrorCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "client",
	Name:      "poll_errors_total",
	Help:      "Polls of the bridge or web API that failed.",
}, []string{"source"})

// ObserveDevices refreshes the per-device gauges from the state cache.
func ObserveDevices(src port.StateSource) {
	for _, id := range src.Devices() {
		lock := domain.ParseLockState(src.LastState(id, service.STATE_STATE, nil))
		LockStateGauge.WithLabelValues(id).Set(float64(lock))

		if battery, ok := src.LastState(id, service.STATE_BATTERY_CHARGE_STATE, nil).(float64); ok {
			BatteryGauge.WithLabelValues(id).Set(battery)
		}
		if src.DeviceSupports(id, service.STATE_DOOR_SENSOR_STATE_NAME) {
			door := domain.ParseDoorSensorState(src.LastState(id, service.STATE_DOOR_SENSOR_STATE, nil))
			DoorSecurityGauge.WithLabelValues(id).Set(float64(domain.ClassifyDoorSecurity(lock, door)))
		}
		if rssi, ok := src.InfoField(id, nil, service.FIELD_BRIDGE_INFO, service.FIELD_RSSI).(int); ok {
			RssiGauge.WithLabelValues(id).Set(float64(rssi))
		}
	}
}
