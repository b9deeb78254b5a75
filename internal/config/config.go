// Package config resolves process settings from defaults, an optional TOML
// file, a .env file, the environment and CLI overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no --env-file is given. A missing file is not an error.
const DefaultEnvFile = ".env"

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Download DownloadConfig `toml:"download"`
	YtDlp    YtDlpConfig    `toml:"ytdlp"`
	Plex     PlexConfig     `toml:"plex"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
}

type ServerConfig struct {
	Host     string `toml:"host" env:"HOST"`
	Port     int    `toml:"port" env:"PORT"`
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`
}

type DownloadConfig struct {
	Dir      string `toml:"dir" env:"DOWNLOAD_DIR"`
	ErrorLog string `toml:"error_log" env:"ERROR_LOG_FILE"`
}

type YtDlpConfig struct {
	Path        string `toml:"path" env:"YTDLP_PATH"`
	AutoInstall Flag   `toml:"auto_install" env:"YTDLP_AUTO_INSTALL"`
}

// PlexConfig is all-or-nothing: URL, Token and Library must all be set for
// notifications to be enabled. Per-type libraries override Library.
type PlexConfig struct {
	URL            string `toml:"url" env:"PLEX_URL"`
	Token          string `toml:"token" env:"PLEX_TOKEN"`
	Library        string `toml:"library" env:"PLEX_LIBRARY"`
	VideoLibrary   string `toml:"video_library" env:"PLEX_VIDEO_LIBRARY"`
	AudioLibrary   string `toml:"audio_library" env:"PLEX_AUDIO_LIBRARY"`
	PictureLibrary string `toml:"picture_library" env:"PLEX_PICTURE_LIBRARY"`
}

// Configured reports whether every required Plex setting is present.
func (p PlexConfig) Configured() bool {
	return p.URL != "" && p.Token != "" && p.Library != ""
}

// RabbitMQConfig describes the broker connection. URL, when set, is expanded
// into the individual fields and wins over them.
type RabbitMQConfig struct {
	URL      string `toml:"url" env:"RABBITMQ_URL"`
	Host     string `toml:"host" env:"RABBITMQ_HOST"`
	Port     int    `toml:"port" env:"RABBITMQ_PORT"`
	User     string `toml:"user" env:"RABBITMQ_USER"`
	Password string `toml:"password" env:"RABBITMQ_PASSWORD"`
	VHost    string `toml:"vhost" env:"RABBITMQ_VHOST"`
	UseSSL   Flag   `toml:"use_ssl" env:"RABBITMQ_USE_SSL"`
	Queue    string `toml:"queue" env:"RABBITMQ_QUEUE"`
}

// Enabled reports whether a broker was configured at all.
func (r RabbitMQConfig) Enabled() bool {
	return r.Host != ""
}

// Flag is a boolean that accepts true, 1 and yes (any case) from the
// environment. Anything else is false.
type Flag bool

// SetValue implements cleanenv.Setter.
func (f *Flag) SetValue(s string) error {
	*f = Flag(ParseBool(s))
	return nil
}

// ParseBool reports whether s is one of true, 1 or yes.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     8000,
			LogLevel: "info",
		},
		Download: DownloadConfig{
			Dir:      "./.downloads",
			ErrorLog: "download_errors.log",
		},
		Plex: PlexConfig{
			Library: "Home Videos",
		},
		RabbitMQ: RabbitMQConfig{
			Port:     DefaultAMQPPort,
			User:     "guest",
			Password: "guest",
			VHost:    "/",
			Queue:    "download_requests",
		},
	}
}

// Options selects the sources Resolve reads.
type Options struct {
	Path      string // optional TOML file
	EnvFile   string // optional .env file; DefaultEnvFile when empty
	Overrides Overrides
}

// Resolve builds and validates the settings.
func Resolve(opts Options) (*Config, error) {
	cfg, err := LoadWithoutValidation(opts.Path, opts.EnvFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(opts.Overrides); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: opts.Path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads every source except CLI overrides.
func LoadWithoutValidation(path, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.RabbitMQ.expandURL(); err != nil {
		return nil, &ConfigError{Path: path, Errors: []string{err.Error()}}
	}
	cfg.RabbitMQ.detectCloudAMQP()
	return cfg, nil
}

// loadEnvFile loads a .env file without overriding variables that are
// already set. A missing default file is ignored; a missing explicit one
// is an error.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return &ConfigError{Path: path, Missing: missing}
	}

	if _, err := toml.Decode(content, c); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// Unresolved references are left in place and reported. Comment lines are
// copied unchanged.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = substituteLine(line, &missing)
	}
	return strings.Join(lines, ""), missing
}

func substituteLine(line string, missing *[]string) string {
	return envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				*missing = append(*missing, name+": "+arg)
				return match
			}
			return value
		}

		if !ok {
			*missing = append(*missing, name)
			return match
		}
		return value
	})
}

// EnsureDownloadDir creates the download root if needed. This is the only
// fatal configuration failure.
func (c *Config) EnsureDownloadDir() error {
	if err := os.MkdirAll(c.Download.Dir, 0o777); err != nil {
		return fmt.Errorf("create download dir %s: %w", c.Download.Dir, err)
	}
	return nil
}
