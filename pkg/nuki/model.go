package nuki

import (
	"context"
	"fmt"
)

const (
	DEVICE_TYPE_SMARTLOCK  = 0
	DEVICE_TYPE_OPENER     = 2
	DEVICE_TYPE_SMARTDOOR  = 3
	DEVICE_TYPE_SMARTLOCK3 = 4
)

// BridgeReader reads the local HTTP API of a Nuki bridge.
type BridgeReader interface {
	Info(ctx context.Context) (*BridgeInfo, error)
	List(ctx context.Context) ([]SmartlockEntry, error)
}

// WebReader reads activity logs from the Nuki web API.
type WebReader interface {
	SmartlockLogs(ctx context.Context, limit uint) ([]LogEntry, error)
}

type BridgeInfo struct {
	BridgeType      int            `json:"bridgeType"`
	Ids             map[string]any `json:"ids"`
	Versions        map[string]any `json:"versions"`
	Uptime          int64          `json:"uptime"`
	CurrentTime     string         `json:"currentTime"`
	WlanConnected   bool           `json:"wlanConnected"`
	ServerConnected bool           `json:"serverConnected"`
	ScanResults     []ScanResult   `json:"scanResults"`
}

type ScanResult struct {
	NukiId int64  `json:"nukiId"`
	Type   int    `json:"deviceType"`
	Name   string `json:"name"`
	Rssi   int    `json:"rssi"`
	Paired bool   `json:"paired"`
}

type SmartlockEntry struct {
	NukiId          int64          `json:"nukiId"`
	DeviceType      int            `json:"deviceType"`
	Name            string         `json:"name"`
	FirmwareVersion string         `json:"firmwareVersion"`
	LastKnownState  map[string]any `json:"lastKnownState"`
}

type LogEntry struct {
	Id          string `json:"id"`
	SmartlockId int64  `json:"smartlockId"`
	DeviceType  int    `json:"deviceType"`
	Name        string `json:"name"`
	Action      int    `json:"action"`
	Trigger     int    `json:"trigger"`
	State       int    `json:"state"`
	AutoUnlock  bool   `json:"autoUnlock"`
	Date        string `json:"date"`
	Source      int    `json:"source"`
}

// DeviceId is the identifier used for a device across the bridge and web APIs.
func DeviceId(nukiId int64) string {
	return fmt.Sprintf("%x", nukiId)
}

// NukiId extracts the bridge nukiId from a web API smartlockId,
// which carries the device type in its upper 32 bits.
func (e LogEntry) NukiId() int64 {
	return e.SmartlockId & 0xFFFFFFFF
}

func (e LogEntry) IsLockAction() bool {
	switch e.Action {
	case LOG_ACTION_UNLOCK, LOG_ACTION_LOCK, LOG_ACTION_UNLATCH, LOG_ACTION_LOCK_N_GO, LOG_ACTION_LOCK_N_GO_UNLATCH:
		return true
	}
	return false
}
