package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// LockState is the lock mechanism state reported by a smart lock.
type LockState int

const (
	LOCK_STATE_UNCALIBRATED       LockState = 0
	LOCK_STATE_LOCKED             LockState = 1
	LOCK_STATE_UNLOCKING          LockState = 2
	LOCK_STATE_UNLOCKED           LockState = 3
	LOCK_STATE_LOCKING            LockState = 4
	LOCK_STATE_UNLATCHED          LockState = 5
	LOCK_STATE_UNLOCKED_LOCK_N_GO LockState = 6
	LOCK_STATE_UNLATCHING         LockState = 7
	LOCK_STATE_MOTOR_BLOCKED      LockState = 254
	LOCK_STATE_UNDEFINED          LockState = 255
)

var lockStateNames = map[LockState]string{
	LOCK_STATE_UNCALIBRATED:       "uncalibrated",
	LOCK_STATE_LOCKED:             "locked",
	LOCK_STATE_UNLOCKING:          "unlocking",
	LOCK_STATE_UNLOCKED:           "unlocked",
	LOCK_STATE_LOCKING:            "locking",
	LOCK_STATE_UNLATCHED:          "unlatched",
	LOCK_STATE_UNLOCKED_LOCK_N_GO: "unlocked (lock 'n' go)",
	LOCK_STATE_UNLATCHING:         "unlatching",
	LOCK_STATE_MOTOR_BLOCKED:      "motor blocked",
	LOCK_STATE_UNDEFINED:          "undefined",
}

func (s LockState) String() string {
	if name, ok := lockStateNames[s]; ok {
		return name
	}
	return lockStateNames[LOCK_STATE_UNDEFINED]
}

// ParseLockState maps a raw device code to a LockState.
// Missing or unknown codes yield LOCK_STATE_UNDEFINED.
func ParseLockState(raw any) LockState {
	code, ok := rawCode(raw)
	if !ok {
		return LOCK_STATE_UNDEFINED
	}
	state := LockState(code)
	if _, known := lockStateNames[state]; !known {
		return LOCK_STATE_UNDEFINED
	}
	return state
}

// DoorSensorState is the state of the door contact sensor paired with a lock.
type DoorSensorState int

const (
	DOOR_SENSOR_STATE_DEACTIVATED        DoorSensorState = 1
	DOOR_SENSOR_STATE_DOOR_CLOSED        DoorSensorState = 2
	DOOR_SENSOR_STATE_DOOR_OPENED        DoorSensorState = 3
	DOOR_SENSOR_STATE_DOOR_STATE_UNKNOWN DoorSensorState = 4
	DOOR_SENSOR_STATE_CALIBRATING        DoorSensorState = 5
	DOOR_SENSOR_STATE_UNCALIBRATED       DoorSensorState = 16
	DOOR_SENSOR_STATE_REMOVED            DoorSensorState = 240
	DOOR_SENSOR_STATE_UNKNOWN            DoorSensorState = 255
)

var doorSensorStateNames = map[DoorSensorState]string{
	DOOR_SENSOR_STATE_DEACTIVATED:        "deactivated",
	DOOR_SENSOR_STATE_DOOR_CLOSED:        "door closed",
	DOOR_SENSOR_STATE_DOOR_OPENED:        "door opened",
	DOOR_SENSOR_STATE_DOOR_STATE_UNKNOWN: "door state unknown",
	DOOR_SENSOR_STATE_CALIBRATING:        "calibrating",
	DOOR_SENSOR_STATE_UNCALIBRATED:       "uncalibrated",
	DOOR_SENSOR_STATE_REMOVED:            "removed",
	DOOR_SENSOR_STATE_UNKNOWN:            "unknown",
}

func (s DoorSensorState) String() string {
	if name, ok := doorSensorStateNames[s]; ok {
		return name
	}
	return doorSensorStateNames[DOOR_SENSOR_STATE_UNKNOWN]
}

// ParseDoorSensorState maps a raw device code to a DoorSensorState.
// Missing or unknown codes yield DOOR_SENSOR_STATE_UNKNOWN.
func ParseDoorSensorState(raw any) DoorSensorState {
	code, ok := rawCode(raw)
	if !ok {
		return DOOR_SENSOR_STATE_UNKNOWN
	}
	state := DoorSensorState(code)
	if _, known := doorSensorStateNames[state]; !known {
		return DOOR_SENSOR_STATE_UNKNOWN
	}
	return state
}

// rawCode accepts the numeric shapes a decoded device state can carry.
func rawCode(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint8:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return i, true
	case LockState:
		return int(v), true
	case DoorSensorState:
		return int(v), true
	default:
		return 0, false
	}
}
