package nuki

import "context"

const (
	TEST_NUKI_ID_FRONT = 0x1a2b3c4d
	TEST_NUKI_ID_BACK  = 0x5e6f7a8b
)

func CreateTestBridgeReader() BridgeReader {
	return TestBridgeReader{}
}

func CreateTestWebReader() WebReader {
	return TestWebReader{}
}

// Bridge

type TestBridgeReader struct {
}

func (r TestBridgeReader) Info(_ context.Context) (*BridgeInfo, error) {
	return &BridgeInfo{
		BridgeType: 1,
		Versions: map[string]any{
			"firmwareVersion":     "1.22.1",
			"wifiFirmwareVersion": "1.2.0",
		},
		Uptime:          3600,
		WlanConnected:   true,
		ServerConnected: true,
		ScanResults: []ScanResult{
			{NukiId: TEST_NUKI_ID_FRONT, Type: DEVICE_TYPE_SMARTLOCK3, Name: "Front door", Rssi: -58, Paired: true},
			{NukiId: TEST_NUKI_ID_BACK, Type: DEVICE_TYPE_SMARTLOCK, Name: "Back door", Rssi: -71, Paired: true},
		},
	}, nil
}

func (r TestBridgeReader) List(_ context.Context) ([]SmartlockEntry, error) {
	return []SmartlockEntry{
		{
			NukiId:          TEST_NUKI_ID_FRONT,
			DeviceType:      DEVICE_TYPE_SMARTLOCK3,
			Name:            "Front door",
			FirmwareVersion: "3.5.2",
			LastKnownState: map[string]any{
				"mode":                float64(2),
				"state":               float64(1),
				"stateName":           "locked",
				"batteryCritical":     false,
				"batteryChargeState":  float64(84),
				"doorsensorState":     float64(2),
				"doorsensorStateName": "door closed",
				"timestamp":           "2024-05-01T10:00:00+00:00",
			},
		},
		{
			NukiId:          TEST_NUKI_ID_BACK,
			DeviceType:      DEVICE_TYPE_SMARTLOCK,
			Name:            "Back door",
			FirmwareVersion: "2.12.4",
			LastKnownState: map[string]any{
				"mode":            float64(2),
				"state":           float64(3),
				"stateName":       "unlocked",
				"batteryCritical": false,
				"timestamp":       "2024-05-01T10:00:00+00:00",
			},
		},
	}, nil
}

// Web

type TestWebReader struct {
}

func (r TestWebReader) SmartlockLogs(_ context.Context, _ uint) ([]LogEntry, error) {
	return []LogEntry{
		{
			Id:          "a1",
			SmartlockId: 4<<32 | TEST_NUKI_ID_FRONT,
			DeviceType:  DEVICE_TYPE_SMARTLOCK3,
			Name:        "Alice",
			Action:      LOG_ACTION_DOOR_CLOSED,
			Trigger:     0,
			State:       0,
			Date:        "2024-05-01T09:59:00.000Z",
			Source:      0,
		},
		{
			Id:          "a2",
			SmartlockId: 4<<32 | TEST_NUKI_ID_FRONT,
			DeviceType:  DEVICE_TYPE_SMARTLOCK3,
			Name:        "Alice",
			Action:      LOG_ACTION_LOCK,
			Trigger:     5,
			State:       0,
			Date:        "2024-05-01T09:58:00.000Z",
			Source:      0,
		},
	}, nil
}
