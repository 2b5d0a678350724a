package service

import (
	"time"

	"github.com/berfenger/nuki2mqtt/pkg/nuki"
)

const (
	INFO_WEB_LAST_UPDATE          = "web_last_update"
	INFO_WEB_LAST_LOG             = "web_last_log"
	INFO_WEB_LAST_LOCK_UNLOCK_LOG = "web_last_lock_unlock_log"
	FIELD_FIRMWARE_VERSION        = "firmwareVersion"
	FIELD_VERSIONS                = "versions"
	FIELD_NAME                    = "name"
	FIELD_DEVICE_TYPE             = "deviceType"
	FIELD_NUKI_ID                 = "nukiId"
	FIELD_RSSI                    = "rssi"
	FIELD_PAIRED                  = "paired"
	STATE_BATTERY_CHARGE_STATE    = "batteryChargeState"
	STATE_STATE                   = "state"
	STATE_STATE_NAME              = "stateName"
	STATE_DOOR_SENSOR_STATE       = "doorsensorState"
	STATE_DOOR_SENSOR_STATE_NAME  = "doorsensorStateName"
)

// BridgeStateToCache converts a bridge poll into the raw maps kept by the cache.
func BridgeStateToCache(info *nuki.BridgeInfo, smartlocks []nuki.SmartlockEntry) (map[string]any, map[string]map[string]any) {
	bridge := map[string]any{}
	scan := map[int64]nuki.ScanResult{}
	if info != nil {
		bridge[FIELD_VERSIONS] = info.Versions
		bridge["ids"] = info.Ids
		bridge["uptime"] = info.Uptime
		bridge["wlanConnected"] = info.WlanConnected
		bridge["serverConnected"] = info.ServerConnected
		for _, r := range info.ScanResults {
			scan[r.NukiId] = r
		}
	}

	devices := make(map[string]map[string]any, len(smartlocks))
	for _, lock := range smartlocks {
		device := map[string]any{
			FIELD_NUKI_ID:          lock.NukiId,
			FIELD_NAME:             lock.Name,
			FIELD_DEVICE_TYPE:      lock.DeviceType,
			FIELD_FIRMWARE_VERSION: lock.FirmwareVersion,
		}
		if lock.LastKnownState != nil {
			device[FIELD_LAST_STATE] = lock.LastKnownState
		}
		if r, ok := scan[lock.NukiId]; ok {
			device[FIELD_BRIDGE_INFO] = map[string]any{
				FIELD_RSSI:   r.Rssi,
				FIELD_PAIRED: r.Paired,
				FIELD_NAME:   r.Name,
			}
		}
		devices[nuki.DeviceId(lock.NukiId)] = device
	}
	return bridge, devices
}

// WebLogInfoFields picks, per device, the newest log entry and the newest
// lock/unlock entry. Entries are expected newest first, as the web API returns them.
func WebLogInfoFields(logs []nuki.LogEntry, now time.Time) map[string]map[string]any {
	fields := map[string]map[string]any{}
	for _, entry := range logs {
		id := nuki.DeviceId(entry.NukiId())
		device, ok := fields[id]
		if !ok {
			device = map[string]any{
				INFO_WEB_LAST_UPDATE: now.UTC().Format(time.RFC3339),
				INFO_WEB_LAST_LOG:    logEntryInfo(entry, true),
			}
			fields[id] = device
		}
		if _, done := device[INFO_WEB_LAST_LOCK_UNLOCK_LOG]; !done && entry.IsLockAction() {
			device[INFO_WEB_LAST_LOCK_UNLOCK_LOG] = logEntryInfo(entry, false)
		}
	}
	return fields
}

func logEntryInfo(entry nuki.LogEntry, withDeviceType bool) map[string]any {
	info := map[string]any{
		"action":    nuki.LogActionName(entry.Action),
		"timestamp": entry.Date,
		"name":      entry.Name,
		"trigger":   nuki.LogTriggerName(entry.Trigger),
		"state":     nuki.LogStateName(entry.State),
		"source":    nuki.LogSourceName(entry.Source),
	}
	if withDeviceType {
		info["device_type"] = nuki.DeviceTypeName(entry.DeviceType)
	}
	return info
}
