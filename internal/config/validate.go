// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Download.Dir == "" {
		errs = append(errs, "download.dir: required")
	}

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Plex validation (only the URL shape; partial config just disables notifications)
	if c.Plex.URL != "" {
		if u, err := url.Parse(c.Plex.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("plex.url: must be an http or https URL, got %q", c.Plex.URL))
		}
	}

	// RabbitMQ validation
	if c.RabbitMQ.Enabled() {
		if c.RabbitMQ.Port < 1 || c.RabbitMQ.Port > 65535 {
			errs = append(errs, fmt.Sprintf("rabbitmq.port: must be between 1 and 65535, got %d", c.RabbitMQ.Port))
		}
		if c.RabbitMQ.Queue == "" {
			errs = append(errs, "rabbitmq.queue: required when rabbitmq is configured")
		}
	}

	return errs
}
