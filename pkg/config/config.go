// Package config loads skillkit settings from viper (config file, SKILLKIT_*
// environment variables and bound flags) and applies named profiles.
package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Default validation limits.
const (
	DefaultMaxNameLength        = 64
	DefaultMaxLines             = 500
	DefaultMinDescriptionLength = 20
)

// Config is the complete skillkit configuration
type Config struct {
	LogLevel   string                   `mapstructure:"log_level"`
	LogFormat  string                   `mapstructure:"log_format"`
	Validation ValidationConfig         `mapstructure:"validation"`
	Tracing    TracingConfig            `mapstructure:"tracing"`
	Profile    string                   `mapstructure:"profile"`
	Profiles   map[string]ProfileConfig `mapstructure:"profiles"`
}

// ValidationConfig tunes the skill validator
type ValidationConfig struct {
	MaxNameLength        int      `mapstructure:"max_name_length"`
	MaxLines             int      `mapstructure:"max_lines"`
	MinDescriptionLength int      `mapstructure:"min_description_length"`
	Ignore               []string `mapstructure:"ignore"`
	Strict               bool     `mapstructure:"strict"`
}

// TracingConfig holds OpenTelemetry settings
type TracingConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Sampler string  `mapstructure:"sampler"`
	Ratio   float64 `mapstructure:"ratio"`
}

// ProfileConfig is a partial configuration merged on top of the base one
type ProfileConfig map[string]any

// DefaultValidation returns the validation limits of the skill convention.
func DefaultValidation() ValidationConfig {
	return ValidationConfig{
		MaxNameLength:        DefaultMaxNameLength,
		MaxLines:             DefaultMaxLines,
		MinDescriptionLength: DefaultMinDescriptionLength,
	}
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "fmt")
	v.SetDefault("validation.max_name_length", DefaultMaxNameLength)
	v.SetDefault("validation.max_lines", DefaultMaxLines)
	v.SetDefault("validation.min_description_length", DefaultMinDescriptionLength)
	v.SetDefault("validation.strict", false)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sampler", "ratio")
	v.SetDefault("tracing.ratio", 1.0)
}

// GetConfigFromViper returns the configuration held by the global viper
// instance with the active profile applied.
func GetConfigFromViper() (Config, error) {
	return Load(viper.GetViper())
}

// Load unmarshals v into a Config and applies the active profile.
func Load(v *viper.Viper) (Config, error) {
	var config Config

	if err := v.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "failed to unmarshal configuration")
	}

	profileName := activeProfile(config.Profile)
	if profileName != "" {
		profile, exists := config.Profiles[profileName]
		if !exists {
			return config, errors.Errorf("profile '%s' not found", profileName)
		}
		if err := applyProfile(&config, profile); err != nil {
			return config, err
		}
	}

	config.Validation = config.Validation.WithDefaults()
	return config, nil
}

func activeProfile(profile string) string {
	if profile == "default" {
		return ""
	}
	return profile
}

func applyProfile(config *Config, profile ProfileConfig) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           config,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	if err := decoder.Decode(map[string]any(profile)); err != nil {
		return errors.Wrap(err, "failed to apply profile configuration")
	}

	return nil
}

// WithDefaults fills unset limits so a zero ValidationConfig still enforces
// the convention.
func (v ValidationConfig) WithDefaults() ValidationConfig {
	defaults := DefaultValidation()
	if v.MaxNameLength <= 0 {
		v.MaxNameLength = defaults.MaxNameLength
	}
	if v.MaxLines <= 0 {
		v.MaxLines = defaults.MaxLines
	}
	if v.MinDescriptionLength <= 0 {
		v.MinDescriptionLength = defaults.MinDescriptionLength
	}
	return v
}
