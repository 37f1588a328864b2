// Package config provides configuration management for the embedposts CLI
// using Viper for loading from files, environment variables and flags.
//
// Environment variables use the EMBEDPOSTS_ prefix with dots replaced by
// underscores, e.g. EMBEDPOSTS_LOADER_NAMESPACE or EMBEDPOSTS_LOG_LEVEL.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/embedposts/internal/loader"
	"github.com/conneroisu/embedposts/internal/logging"
	"github.com/conneroisu/embedposts/internal/validation"
)

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Loader LoaderConfig `mapstructure:"loader"`
	Output OutputConfig `mapstructure:"output"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type LoaderConfig struct {
	Namespace     string `mapstructure:"namespace"`
	ScriptPattern string `mapstructure:"script_pattern"`
	// UserAgent selects the capability provider; empty means standard.
	UserAgent string `mapstructure:"user_agent"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// SupportedFormats lists the output formats of the resolve command.
var SupportedFormats = []string{"json", "yaml", "text"}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Accept the root-level flag binding as well
	if config.Log.Level == "" && viper.IsSet("log-level") {
		config.Log.Level = viper.GetString("log-level")
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
	if config.Loader.Namespace == "" {
		config.Loader.Namespace = loader.DefaultNamespace
	}
	if config.Loader.ScriptPattern == "" {
		config.Loader.ScriptPattern = loader.DefaultScriptPattern
	}
	if config.Output.Format == "" {
		config.Output.Format = "text"
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoggerConfig translates the log section into a logger configuration.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		cfg.Level = level
	}
	cfg.Format = c.Log.Format
	return cfg
}

// validateConfig validates configuration values
func validateConfig(config *Config) error {
	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	if err := validateLoaderConfig(&config.Loader); err != nil {
		return fmt.Errorf("loader config: %w", err)
	}

	if err := validateFormat(config.Output.Format); err != nil {
		return fmt.Errorf("output config: %w", err)
	}

	return nil
}

func validateLogConfig(config *LogConfig) error {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		return err
	}
	if config.Format != "text" && config.Format != "json" {
		return fmt.Errorf("log format %q is not one of text, json", config.Format)
	}
	return nil
}

func validateLoaderConfig(config *LoaderConfig) error {
	for _, segment := range strings.Split(config.Namespace, ".") {
		if segment == "" {
			return fmt.Errorf("namespace %q has an empty segment", config.Namespace)
		}
		if strings.ContainsAny(segment, " \t\n/\\") {
			return fmt.Errorf("namespace segment %q contains whitespace or a path separator", segment)
		}
	}

	if _, err := regexp.Compile(config.ScriptPattern); err != nil {
		return fmt.Errorf("script_pattern: %w", err)
	}

	if err := validation.ValidateUserAgent(config.UserAgent); err != nil {
		return fmt.Errorf("user_agent: %w", err)
	}

	return nil
}

func validateFormat(format string) error {
	for _, f := range SupportedFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("format %q is not one of %s", format, strings.Join(SupportedFormats, ", "))
}
