package util

import (
	"github.com/berfenger/nuki2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Bridge: config.BridgeConfig{
			Host:                 "-.-.-.-",
			Port:                 8080,
			Token:                "token",
			PollIntervalMillis:   5000,
			RequestTimeoutMillis: 2000,
		},
		Web: config.WebConfig{
			Token:               "webtoken",
			URL:                 "https://api.nuki.io",
			PollIntervalSeconds: 300,
			LogLimit:            20,
		},
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "nuki",
			HADiscoveryTopic: "homeassistant",
		},
		Port: 8080,
	}
}
