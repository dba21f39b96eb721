package steady

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type (
	// configFile is the top-level structure of a configuration file.
	configFile struct {
		Element *RetrySettings `json:"element,omitempty" yaml:"element,omitempty"`
		Driver  *RetrySettings `json:"driver,omitempty"  yaml:"driver,omitempty"`
	}

	// RetrySettings is the file form of a [RetryConfig]. Every field is
	// optional; unset fields keep the preset value. Embed it in your own
	// config structs for JSON or YAML decoding, then call [BuildOptions].
	RetrySettings struct {
		// MaxAttempts is the total number of attempts. Must be >= 1.
		// Example: 3.
		MaxAttempts *int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
		// Delay is the pause between attempts, parsed via
		// time.ParseDuration. Example: "500ms".
		Delay *string `json:"delay,omitempty" yaml:"delay,omitempty"`
		// Verbose turns diagnostic logging on or off.
		Verbose *bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	}

	// Config is a decoded and validated configuration file.
	Config struct {
		// Element applies to handles built with NewElement and NewLazyList.
		Element RetryConfig
		// Driver applies to WrapDriver and everything it hands out.
		Driver RetryConfig
	}
)

// LoadConfig reads a configuration file. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON:
//
//	{
//	  "element": {"max_attempts": 3, "delay": "500ms", "verbose": true},
//	  "driver":  {"max_attempts": 5, "delay": "250ms"}
//	}
//
// Missing sections fall back to [DefaultElementConfig] and
// [DefaultDriverConfig]. Values are validated eagerly.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("steady: read config: %w", err)
	}

	var cf configFile

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cf)
	default:
		err = json.Unmarshal(data, &cf)
	}

	if err != nil {
		return Config{}, fmt.Errorf("steady: parse config: %w", err)
	}

	element, err := cf.Element.Resolve(DefaultElementConfig())
	if err != nil {
		return Config{}, fmt.Errorf("steady: element: %w", err)
	}

	driver, err := cf.Driver.Resolve(DefaultDriverConfig())
	if err != nil {
		return Config{}, fmt.Errorf("steady: driver: %w", err)
	}

	return Config{Element: element, Driver: driver}, nil
}

// ElementOptions returns the options for element handles.
func (c Config) ElementOptions() []Option {
	return []Option{WithRetryConfig(c.Element)}
}

// DriverOptions returns the options for [WrapDriver].
func (c Config) DriverOptions() []Option {
	return []Option{WithRetryConfig(c.Driver)}
}

// Resolve applies rs on top of base and validates the result. A nil rs
// returns base unchanged.
func (rs *RetrySettings) Resolve(base RetryConfig) (RetryConfig, error) {
	if rs == nil {
		return base, nil
	}

	cfg := base

	if rs.MaxAttempts != nil {
		if *rs.MaxAttempts < 1 {
			return RetryConfig{}, fmt.Errorf(
				"max_attempts: must be >= 1, got %d",
				*rs.MaxAttempts,
			)
		}

		cfg.MaxAttempts = *rs.MaxAttempts
	}

	if rs.Delay != nil {
		d, err := time.ParseDuration(*rs.Delay)
		if err != nil {
			return RetryConfig{}, fmt.Errorf("delay: %w", err)
		}

		if d < 0 {
			return RetryConfig{}, errors.New("delay: must not be negative")
		}

		cfg.Delay = d
	}

	if rs.Verbose != nil {
		cfg.Verbose = *rs.Verbose
	}

	return cfg, nil
}

// BuildOptions converts rs into options on top of base, for callers that
// embed [RetrySettings] in their own configuration.
func BuildOptions(rs *RetrySettings, base RetryConfig) ([]Option, error) {
	cfg, err := rs.Resolve(base)
	if err != nil {
		return nil, err
	}

	return []Option{WithRetryConfig(cfg)}, nil
}
