package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  ConfigError
		want string
	}{
		{
			name: "empty",
			err:  ConfigError{Path: "/etc/mediagrab/config.toml"},
			want: "",
		},
		{
			name: "missing vars",
			err:  ConfigError{Path: "config.toml", Missing: []string{"PLEX_TOKEN", "RABBITMQ_PASSWORD"}},
			want: "config.toml: unset environment variables: PLEX_TOKEN, RABBITMQ_PASSWORD",
		},
		{
			name: "validation without file",
			err:  ConfigError{Errors: []string{"server.port: must be 1-65535", "rabbitmq.queue: required"}},
			want: "invalid settings: server.port: must be 1-65535; rabbitmq.queue: required",
		},
		{
			name: "both",
			err:  ConfigError{Path: "c.toml", Missing: []string{"X"}, Errors: []string{"server.port: invalid"}},
			want: "c.toml: unset environment variables: X; invalid settings: server.port: invalid",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.want != "", tt.err.HasErrors())
		})
	}
}

func TestConfigError_As(t *testing.T) {
	var err error = &ConfigError{Errors: []string{"download.dir: required"}}
	var cerr *ConfigError
	assert.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"download.dir: required"}, cerr.Errors)
}
