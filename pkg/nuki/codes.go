package nuki

import "fmt"

const (
	LOG_ACTION_UNLOCK            = 1
	LOG_ACTION_LOCK              = 2
	LOG_ACTION_UNLATCH           = 3
	LOG_ACTION_LOCK_N_GO         = 4
	LOG_ACTION_LOCK_N_GO_UNLATCH = 5
	LOG_ACTION_DOOR_WARNING      = 208
	LOG_ACTION_FLOOR_WARNING     = 209
	LOG_ACTION_DOOR_OPENED       = 224
	LOG_ACTION_DOOR_CLOSED       = 225
	LOG_ACTION_DOOR_SENSOR_JAM   = 226
	LOG_ACTION_FIRMWARE_UPDATE   = 243
	LOG_ACTION_DOOR_LOG_ENABLED  = 250
	LOG_ACTION_DOOR_LOG_DISABLED = 251
	LOG_ACTION_INITIALIZATION    = 252
	LOG_ACTION_CALIBRATION       = 253
	LOG_ACTION_LOG_ENABLED       = 254
	LOG_ACTION_LOG_DISABLED      = 255
)

var logActions = map[int]string{
	LOG_ACTION_UNLOCK:            "Unlock",
	LOG_ACTION_LOCK:              "Lock",
	LOG_ACTION_UNLATCH:           "Unlatch",
	LOG_ACTION_LOCK_N_GO:         "Lock 'n' Go",
	LOG_ACTION_LOCK_N_GO_UNLATCH: "Lock 'n' Go with unlatch",
	LOG_ACTION_DOOR_WARNING:      "Door warning",
	LOG_ACTION_FLOOR_WARNING:     "Floor warning",
	LOG_ACTION_DOOR_OPENED:       "Door opened",
	LOG_ACTION_DOOR_CLOSED:       "Door closed",
	LOG_ACTION_DOOR_SENSOR_JAM:   "Door sensor jammed",
	LOG_ACTION_FIRMWARE_UPDATE:   "Firmware update",
	LOG_ACTION_DOOR_LOG_ENABLED:  "Door log enabled",
	LOG_ACTION_DOOR_LOG_DISABLED: "Door log disabled",
	LOG_ACTION_INITIALIZATION:    "Initialization",
	LOG_ACTION_CALIBRATION:       "Calibration",
	LOG_ACTION_LOG_ENABLED:       "Log enabled",
	LOG_ACTION_LOG_DISABLED:      "Log disabled",
}

var logTriggers = map[int]string{
	0:   "System",
	1:   "Manual",
	2:   "Button",
	3:   "Automatic",
	4:   "Web",
	5:   "App",
	6:   "Auto lock",
	7:   "Accessory",
	255: "Keypad",
}

var logStates = map[int]string{
	0:   "Success",
	1:   "Motor blocked",
	2:   "Canceled",
	3:   "Too recent",
	4:   "Busy",
	5:   "Low motor voltage",
	6:   "Clutch failure",
	7:   "Motor power failure",
	8:   "Incomplete",
	224: "Wrong entry code",
	225: "Wrong fingerprint",
	254: "Other error",
	255: "Unknown error",
}

var logSources = map[int]string{
	0: "Default",
	1: "Keypad code",
	2: "Fingerprint",
}

var deviceTypes = map[int]string{
	DEVICE_TYPE_SMARTLOCK:  "Smart Lock",
	DEVICE_TYPE_OPENER:     "Opener",
	DEVICE_TYPE_SMARTDOOR:  "Smart Door",
	DEVICE_TYPE_SMARTLOCK3: "Smart Lock 3.0",
}

func LogActionName(code int) string {
	return codeName(logActions, code)
}

func LogTriggerName(code int) string {
	return codeName(logTriggers, code)
}

func LogStateName(code int) string {
	return codeName(logStates, code)
}

func LogSourceName(code int) string {
	return codeName(logSources, code)
}

func DeviceTypeName(code int) string {
	return codeName(deviceTypes, code)
}

func codeName(names map[int]string, code int) string {
	if name, ok := names[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", code)
}
