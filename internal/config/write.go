package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

// ErrExists is returned by WriteDefault when the target file is present.
var ErrExists = errors.New("config file already exists")

const redacted = "********"

// WriteDefault writes the commented example config to path, creating parent
// directories. An existing file is only replaced when overwrite is set. The
// file may end up holding tokens, so it is created owner-only.
func WriteDefault(path string, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return err
	}
	if _, err := io.WriteString(f, defaultConfig); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the settings as TOML with the Plex token and broker
// credentials masked.
func (c *Config) Encode(w io.Writer) error {
	out := *c
	if out.Plex.Token != "" {
		out.Plex.Token = redacted
	}
	if out.RabbitMQ.Password != "" {
		out.RabbitMQ.Password = redacted
	}
	if out.RabbitMQ.URL != "" {
		out.RabbitMQ.URL = out.RabbitMQ.Redacted()
	}
	return toml.NewEncoder(w).Encode(out)
}
