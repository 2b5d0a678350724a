package service

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/berfenger/nuki2mqtt/internal/core/port"
)

const (
	FIELD_LAST_STATE  = "last_state"
	FIELD_BRIDGE_INFO = "bridge_info"

	infoFieldPrefix = "web_"
)

// StateCache holds the latest known state of the bridge and of every device.
// Writers replace whole device maps; maps handed to the cache are not
// mutated afterwards, so readers only need the read lock.
type StateCache struct {
	mu        sync.RWMutex
	canBridge bool
	bridge    map[string]any
	devices   map[string]map[string]any
}

func NewStateCache(canBridge bool) *StateCache {
	return &StateCache{
		canBridge: canBridge,
		bridge:    map[string]any{},
		devices:   map[string]map[string]any{},
	}
}

func (c *StateCache) CanBridge() bool {
	return c.canBridge
}

func (c *StateCache) Devices() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.devices))
}

func (c *StateCache) LastState(deviceId, key string, def any) any {
	return c.InfoField(deviceId, def, FIELD_LAST_STATE, key)
}

func (c *StateCache) InfoField(deviceId string, def any, path ...string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	device, ok := c.devices[deviceId]
	if !ok {
		return def
	}
	return LookupPath(device, def, path...)
}

func (c *StateCache) DeviceSupports(deviceId, capability string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lastState, ok := c.devices[deviceId][FIELD_LAST_STATE].(map[string]any)
	if !ok {
		return false
	}
	_, ok = lastState[capability]
	return ok
}

func (c *StateCache) BridgeField(def any, path ...string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return LookupPath(c.bridge, def, path...)
}

// ReplaceBridgeState swaps in a fresh bridge poll. Info fields written by
// other sources (web_*) survive the swap for devices that are still present.
func (c *StateCache) ReplaceBridgeState(bridge map[string]any, devices map[string]map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, device := range devices {
		old, ok := c.devices[id]
		if !ok {
			continue
		}
		for k, v := range old {
			if _, set := device[k]; !set && strings.HasPrefix(k, infoFieldPrefix) {
				device[k] = v
			}
		}
	}
	if bridge == nil {
		bridge = map[string]any{}
	}
	c.bridge = bridge
	c.devices = devices
}

// SetInfoField stores value under key for a known device. It reports false
// when the device has not been seen on the bridge yet.
func (c *StateCache) SetInfoField(deviceId, key string, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	device, ok := c.devices[deviceId]
	if !ok {
		return false
	}
	updated := maps.Clone(device)
	updated[key] = value
	c.devices[deviceId] = updated
	return true
}

// LookupPath walks nested maps and returns def for any missing segment.
func LookupPath(m map[string]any, def any, path ...string) any {
	var current any = m
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return def
		}
		current, ok = node[key]
		if !ok {
			return def
		}
	}
	if current == nil {
		return def
	}
	return current
}

// ensure interface compliance
var _ port.StateSource = (*StateCache)(nil)
var _ port.StateSink = (*StateCache)(nil)
