package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// newViperInstance creates a Viper instance with the JIRAEXPORT_ env prefix,
// key replacer and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence:
//  1. Environment variables (JIRAEXPORT_* prefix)
//  2. Project config (.jiraexport/config.yaml)
//  3. Global config (~/.jiraexport/config.yaml)
//  4. Built-in defaults
//
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// load merges all sources without validating the result.
func load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("tracker.endpoint", cfg.Tracker.Endpoint).
		Dur("tracker.timeout", cfg.Tracker.Timeout).
		Str("exporter.results_dir", cfg.Exporter.ResultsDir).
		Bool("exporter.info_updates_enabled", cfg.Exporter.InfoUpdatesEnabled).
		Bool("exporter.status_updates_enabled", cfg.Exporter.StatusUpdatesEnabled).
		Msg("configuration loaded and unmarshaled")
	return cfg, nil
}

// loadGlobalConfig loads the global config file if it exists.
func loadGlobalConfig(v *viper.Viper) error {
	path, err := GlobalConfigPath()
	if err != nil || !fileExists(path) {
		return nil //nolint:nilerr // a missing home directory means no global config
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig merges the project config file if it exists.
func loadProjectConfig(v *viper.Viper) error {
	path := ProjectConfigPath()
	if !fileExists(path) {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
//
// Only non-zero values in overrides are applied. Boolean switches cannot be
// told apart from unset ones here; commands set them through adjust when the
// flag changed. Validation runs once, after overrides and adjust.
func LoadWithOverrides(ctx context.Context, overrides *Config, adjust ...func(*Config)) (*Config, error) {
	cfg, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}
	for _, fn := range adjust {
		fn(cfg)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the mapstructure tag names. Every key needs a default so
// AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("tracker.endpoint", "")
	v.SetDefault("tracker.username", "")
	v.SetDefault("tracker.token_env_var", d.Tracker.TokenEnvVar)
	v.SetDefault("tracker.timeout", d.Tracker.Timeout.String())

	v.SetDefault("exporter.results_dir", d.Exporter.ResultsDir)
	v.SetDefault("exporter.project_key", "")
	v.SetDefault("exporter.assignee_id", "")
	v.SetDefault("exporter.test_run_id", "")
	v.SetDefault("exporter.test_issue_type", d.Exporter.TestIssueType)
	v.SetDefault("exporter.info_updates_enabled", false)
	v.SetDefault("exporter.status_updates_enabled", false)
	v.SetDefault("exporter.editable_statuses", []string{})
	v.SetDefault("exporter.require_automated", d.Exporter.RequireAutomated)
	v.SetDefault("exporter.workers", d.Exporter.Workers)
	v.SetDefault("exporter.fields_mapping", map[string]string{})
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Tracker.Endpoint != "" {
		cfg.Tracker.Endpoint = overrides.Tracker.Endpoint
	}
	if overrides.Tracker.Timeout != 0 {
		cfg.Tracker.Timeout = overrides.Tracker.Timeout
	}
	if overrides.Exporter.ResultsDir != "" {
		cfg.Exporter.ResultsDir = overrides.Exporter.ResultsDir
	}
	if overrides.Exporter.TestRunID != "" {
		cfg.Exporter.TestRunID = overrides.Exporter.TestRunID
	}
	if overrides.Exporter.Workers != 0 {
		cfg.Exporter.Workers = overrides.Exporter.Workers
	}
	if len(overrides.Exporter.EditableStatuses) > 0 {
		cfg.Exporter.EditableStatuses = overrides.Exporter.EditableStatuses
	}
	for k, val := range overrides.Exporter.FieldsMapping {
		if cfg.Exporter.FieldsMapping == nil {
			cfg.Exporter.FieldsMapping = make(map[string]string, len(overrides.Exporter.FieldsMapping))
		}
		cfg.Exporter.FieldsMapping[k] = val
	}
}

// viperDecoderOption configures mapstructure to decode durations from strings
// and comma separated env values into slices.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
