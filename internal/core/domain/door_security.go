package domain

// DoorSecurityState combines lock and door sensor state for display.
// It has no lifecycle of its own and is derived on every read.
type DoorSecurityState int

const (
	DOOR_SECURITY_STATE_CLOSED_AND_LOCKED DoorSecurityState = iota
	DOOR_SECURITY_STATE_CLOSED_AND_UNLOCKED
	DOOR_SECURITY_STATE_OPEN
)

const (
	ICON_DOOR_CLOSED_LOCK = "mdi:door-closed-lock"
	ICON_DOOR_CLOSED      = "mdi:door-closed"
	ICON_DOOR_OPEN        = "mdi:door-open"
)

func (s DoorSecurityState) String() string {
	switch s {
	case DOOR_SECURITY_STATE_CLOSED_AND_LOCKED:
		return "closed_and_locked"
	case DOOR_SECURITY_STATE_CLOSED_AND_UNLOCKED:
		return "closed_and_unlocked"
	default:
		return "open"
	}
}

func (s DoorSecurityState) Icon() string {
	switch s {
	case DOOR_SECURITY_STATE_CLOSED_AND_LOCKED:
		return ICON_DOOR_CLOSED_LOCK
	case DOOR_SECURITY_STATE_CLOSED_AND_UNLOCKED:
		return ICON_DOOR_CLOSED
	default:
		return ICON_DOOR_OPEN
	}
}

// ClassifyDoorSecurity is a pure function of the current lock and door sensor state.
// Any lock state other than locked reports a closed door as unlocked, undefined included.
func ClassifyDoorSecurity(lock LockState, door DoorSensorState) DoorSecurityState {
	if lock == LOCK_STATE_LOCKED && door == DOOR_SENSOR_STATE_DOOR_CLOSED {
		return DOOR_SECURITY_STATE_CLOSED_AND_LOCKED
	}
	if door == DOOR_SENSOR_STATE_DOOR_CLOSED {
		return DOOR_SECURITY_STATE_CLOSED_AND_UNLOCKED
	}
	return DOOR_SECURITY_STATE_OPEN
}

// ClassifyRawDoorSecurity classifies raw device codes. nil stands for a missing value.
func ClassifyRawDoorSecurity(rawLock, rawDoor any) DoorSecurityState {
	return ClassifyDoorSecurity(ParseLockState(rawLock), ParseDoorSensorState(rawDoor))
}
