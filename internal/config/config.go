package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	Bridge   BridgeConfig `mapstructure:"bridge"`
	Web      WebConfig    `mapstructure:"web"`
	MQTT     MQTTConfig   `mapstructure:"mqtt"`
	Port     uint         `mapstructure:"port"`
	HttpLog  bool         `mapstructure:"http_log"`
}

type BridgeConfig struct {
	Host                 string
	Port                 uint
	Token                string
	HashedToken          bool   `mapstructure:"hashed_token"`
	PollIntervalMillis   uint32 `mapstructure:"poll_interval_millis"`
	RequestTimeoutMillis uint32 `mapstructure:"request_timeout_millis"`
}

type WebConfig struct {
	Token               string
	URL                 string `mapstructure:"url"`
	PollIntervalSeconds uint32 `mapstructure:"poll_interval_seconds"`
	LogLimit            uint   `mapstructure:"log_limit"`
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

func (c BridgeConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMillis) * time.Millisecond
}

func (c BridgeConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMillis) * time.Millisecond
}

func (c WebConfig) Enabled() bool {
	return c.Token != ""
}

func (c WebConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Validate checks bounds and normalizes MQTT topics in place.
func (c *Config) Validate() error {

	// check and fix base topic
	baseTopic, err := CheckMQTTTopic(c.MQTT.BaseTopic)
	if err != nil {
		return errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	c.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := CheckMQTTTopic(c.MQTT.HADiscoveryTopic)
	if err != nil {
		return errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	c.MQTT.HADiscoveryTopic = hadBaseTopic

	// check bounds
	if c.Bridge.Host == "" {
		return errors.New("config param bridge.host is required")
	}
	if c.Bridge.Token == "" {
		return errors.New("config param bridge.token is required")
	}
	if c.Bridge.PollIntervalMillis < 1000 {
		return errors.New("config param bridge.poll_interval_millis should be >= 1000")
	}
	if c.Bridge.RequestTimeoutMillis == 0 || c.Bridge.RequestTimeoutMillis >= c.Bridge.PollIntervalMillis {
		return fmt.Errorf("config param bridge.request_timeout_millis should be > 0 and < %d", c.Bridge.PollIntervalMillis)
	}
	if c.Web.Enabled() {
		if c.Web.PollIntervalSeconds < 60 {
			return errors.New("config param web.poll_interval_seconds should be >= 60")
		}
		if c.Web.LogLimit == 0 {
			return errors.New("config param web.log_limit should be > 0")
		}
	}

	return nil
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
