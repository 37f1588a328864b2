package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/embedposts/internal/loader"
	"github.com/conneroisu/embedposts/internal/logging"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:  "defaults",
			setup: func() {},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Log.Level)
				assert.Equal(t, "text", cfg.Log.Format)
				assert.Equal(t, loader.DefaultNamespace, cfg.Loader.Namespace)
				assert.Equal(t, loader.DefaultScriptPattern, cfg.Loader.ScriptPattern)
				assert.Empty(t, cfg.Loader.UserAgent)
				assert.Equal(t, "text", cfg.Output.Format)
			},
		},
		{
			name: "explicit values",
			setup: func() {
				viper.Set("log.level", "debug")
				viper.Set("log.format", "json")
				viper.Set("loader.namespace", "org.example.widget")
				viper.Set("loader.script_pattern", `posts\.js`)
				viper.Set("loader.user_agent", "Mozilla/4.0 (compatible; MSIE 7.0)")
				viper.Set("output.format", "yaml")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "org.example.widget", cfg.Loader.Namespace)
				assert.Equal(t, `posts\.js`, cfg.Loader.ScriptPattern)
				assert.Equal(t, "Mozilla/4.0 (compatible; MSIE 7.0)", cfg.Loader.UserAgent)
				assert.Equal(t, "yaml", cfg.Output.Format)

				lc := cfg.LoggerConfig()
				assert.Equal(t, logging.LevelDebug, lc.Level)
				assert.Equal(t, "json", lc.Format)
			},
		},
		{
			name: "root log-level flag binding",
			setup: func() {
				viper.Set("log-level", "warn")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Log.Level)
			},
		},
		{
			name:        "unknown log level",
			setup:       func() { viper.Set("log.level", "loud") },
			expectError: true,
		},
		{
			name:        "unknown log format",
			setup:       func() { viper.Set("log.format", "xml") },
			expectError: true,
		},
		{
			name:        "empty namespace segment",
			setup:       func() { viper.Set("loader.namespace", "com..embedposts") },
			expectError: true,
		},
		{
			name:        "invalid script pattern",
			setup:       func() { viper.Set("loader.script_pattern", "(") },
			expectError: true,
		},
		{
			name:        "user agent with control characters",
			setup:       func() { viper.Set("loader.user_agent", "MSIE\nX-Injected: 1") },
			expectError: true,
		},
		{
			name:        "unsupported output format",
			setup:       func() { viper.Set("output.format", "csv") },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			tt.setup()

			cfg, err := Load()
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range SupportedFormats {
		assert.NoError(t, validateFormat(f))
	}
	assert.Error(t, validateFormat(""))
}
