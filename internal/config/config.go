// Package config loads and validates the psmcp TOML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/brushlab/psmcp/internal/config/errz"
	"github.com/brushlab/psmcp/internal/interpolation"
)

// VersionLatest is the only config schema version this build understands.
const VersionLatest = "v1"

// Transport selects how the MCP server is exposed.
type Transport string

const (
	TransportUnspecified Transport = ""
	TransportStdio       Transport = "stdio"
	TransportHTTP        Transport = "http"
)

// String returns the string representation of Transport
func (t Transport) String() string {
	return string(t)
}

// IsValid checks if the Transport is valid
func (t Transport) IsValid() bool {
	switch t {
	case TransportUnspecified, TransportStdio, TransportHTTP:
		return true
	default:
		return false
	}
}

// Config is the root of the psmcp configuration.
type Config struct {
	Version   string          `toml:"version"`
	Server    ServerConfig    `toml:"server"`
	Photoshop PhotoshopConfig `toml:"photoshop"`
	Logging   LoggingConfig   `toml:"logging"`
	Preview   PreviewConfig   `toml:"preview"`
}

// ServerConfig describes the MCP server identity and transport.
type ServerConfig struct {
	Name      string    `toml:"name"`
	Transport Transport `toml:"transport"`
	Listen    string    `toml:"listen" env_interpolation:"yes"`
}

// PhotoshopConfig selects and tunes the COM connection to Photoshop.
type PhotoshopConfig struct {
	// Version picks the ProgID: "2025", "2024", ... "cs6". Empty uses the
	// version-independent "Photoshop.Application".
	Version string `toml:"version" env_interpolation:"yes"`
	// WarmConnect establishes the COM session during startup instead of on
	// the first tool call.
	WarmConnect    bool        `toml:"warm_connect"`
	DisplayDialogs string      `toml:"display_dialogs"`
	RulerUnits     string      `toml:"ruler_units"`
	Retry          RetryConfig `toml:"retry"`
}

// RetryConfig tunes the retry loop around COM calls blocked by modal
// dialogs or a busy host.
type RetryConfig struct {
	Attempts       int      `toml:"attempts"`
	InitialBackoff Duration `toml:"initial_backoff"`
	MaxBackoff     Duration `toml:"max_backoff"`
}

// PreviewConfig bounds the thumbnail built for the preview resource.
type PreviewConfig struct {
	MaxDimension int `toml:"max_dimension"`
}

// NewConfig loads configuration from a TOML file. An empty path yields the
// defaults, so running without a config file works.
func NewConfig(filePath string) (*Config, error) {
	if filePath == "" {
		return NewWithDefaults()
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}

	return NewConfigFromBytes(data)
}

// NewConfigFromBytes loads configuration from TOML bytes
func NewConfigFromBytes(data []byte) (*Config, error) {
	// Gate on the schema version before decoding the rest, so a future
	// config format fails with a clear error instead of field soup.
	var versionCheck struct {
		Version string `toml:"version"`
	}
	if err := toml.Unmarshal(data, &versionCheck); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}
	if versionCheck.Version != "" && versionCheck.Version != VersionLatest {
		return nil, fmt.Errorf(
			"%w: version %s is not supported",
			errz.ErrUnsupportedConfigVer, versionCheck.Version,
		)
	}

	cfg := defaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}

	return finalize(cfg)
}

// NewWithDefaults returns the built-in configuration, validated.
func NewWithDefaults() (*Config, error) {
	return finalize(defaultConfig())
}

func defaultConfig() *Config {
	return &Config{
		Version: VersionLatest,
		Server: ServerConfig{
			Name:      "psmcp",
			Transport: TransportStdio,
			Listen:    "localhost:8475",
		},
		Photoshop: PhotoshopConfig{
			// The placeholder lets PS_VERSION pick a release even when no
			// config file sets one; unset it resolves to the empty string.
			Version:        "${PS_VERSION:}",
			WarmConnect:    false,
			DisplayDialogs: "none",
			RulerUnits:     "pixels",
			Retry: RetryConfig{
				Attempts:       3,
				InitialBackoff: FromDuration(250 * time.Millisecond),
				MaxBackoff:     FromDuration(2 * time.Second),
			},
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
			Output: "stderr",
		},
		Preview: PreviewConfig{
			MaxDimension: 512,
		},
	}
}

// finalize interpolates environment references and validates.
func finalize(cfg *Config) (*Config, error) {
	if err := interpolation.InterpolateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
