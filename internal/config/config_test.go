package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Bridge: BridgeConfig{
			Host:                 "192.168.1.50",
			Port:                 8080,
			Token:                "token",
			PollIntervalMillis:   5000,
			RequestTimeoutMillis: 2000,
		},
		MQTT: MQTTConfig{
			BaseTopic:        "Nuki",
			HADiscoveryTopic: "homeassistant",
		},
	}
}

func TestValidateNormalizesTopics(t *testing.T) {

	assert := assert.New(t)

	cfg := validConfig()
	assert.NoError(cfg.Validate())
	assert.Equal("nuki", cfg.MQTT.BaseTopic)
	assert.Equal(5*time.Second, cfg.Bridge.PollInterval())
	assert.Equal(2*time.Second, cfg.Bridge.RequestTimeout())
	assert.False(cfg.Web.Enabled())
}

func TestValidateRejects(t *testing.T) {

	cases := map[string]func(c *Config){
		"bad base topic":   func(c *Config) { c.MQTT.BaseTopic = "nuki/x" },
		"bad ha topic":     func(c *Config) { c.MQTT.HADiscoveryTopic = "" },
		"no host":          func(c *Config) { c.Bridge.Host = "" },
		"no token":         func(c *Config) { c.Bridge.Token = "" },
		"fast poll":        func(c *Config) { c.Bridge.PollIntervalMillis = 500 },
		"long timeout":     func(c *Config) { c.Bridge.RequestTimeoutMillis = 5000 },
		"fast web poll":    func(c *Config) { c.Web = WebConfig{Token: "x", PollIntervalSeconds: 10, LogLimit: 20} },
		"zero web entries": func(c *Config) { c.Web = WebConfig{Token: "x", PollIntervalSeconds: 300} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCheckMQTTTopic(t *testing.T) {

	assert := assert.New(t)

	topic, err := CheckMQTTTopic("Home_Assistant2")
	assert.NoError(err)
	assert.Equal("home_assistant2", topic)

	_, err = CheckMQTTTopic("a b")
	assert.Error(err)
}
