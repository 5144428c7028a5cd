package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	defaultBind        = ":8080"
	defaultMetricsBind = ":9100"
)

// Validate normalizes and defaults the config in place.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}

	c.Gateway.Bind = strings.TrimSpace(c.Gateway.Bind)
	if c.Gateway.Bind == "" {
		c.Gateway.Bind = defaultBind
	}
	c.Gateway.MetricsBind = strings.TrimSpace(c.Gateway.MetricsBind)
	if c.Gateway.MetricsBind == "" {
		c.Gateway.MetricsBind = defaultMetricsBind
	}

	normalized := make(map[string]ChannelConfig, len(c.Channels))
	for key, one := range c.Channels {
		id := strings.TrimSpace(key)
		if id == "" {
			return errors.New("channel id cannot be empty")
		}
		one.ID = id
		one.Destination = strings.TrimSpace(one.Destination)

		if !one.Enabled {
			normalized[id] = one
			continue
		}
		if one.Secret == "" {
			return fmt.Errorf("channel %s: secret is required", id)
		}
		if one.ChannelID <= 0 {
			return fmt.Errorf("channel %s: channel_id must be a positive integer", id)
		}
		normalized[id] = one
	}
	c.Channels = normalized

	return nil
}
