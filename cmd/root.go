// Package cmd provides the command-line interface for embedposts.
//
// Configuration System:
//
//	Configuration is read from several sources with clear precedence:
//	1. Command-line flags (--config, --namespace, --user-agent, ...) - highest priority
//	2. EMBEDPOSTS_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (EMBEDPOSTS_LOADER_NAMESPACE, ...)
//	4. Configuration file (.embedposts.yml) - lowest priority
//
// Environment Variables:
//
//	EMBEDPOSTS_CONFIG_FILE: Path to custom configuration file
//	EMBEDPOSTS_LOG_LEVEL: debug, info, warn or error
//	EMBEDPOSTS_LOADER_NAMESPACE: Registry namespace for loader definitions
//	EMBEDPOSTS_LOADER_USER_AGENT: User agent used to negotiate DOM capabilities
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "embedposts",
	Short: "Resolve embed-tumblr-posts widgets in HTML pages",
	Long: `embedposts hosts the embed-tumblr-posts loader outside the browser.

It parses an HTML page, evaluates every inclusion of the loader script at the
point where the browser would run it, resolves each widget's settings from the
inline JSON and the script URL query, and then fires the page-ready lifecycle.

Quick Start:
  embedposts resolve page.html            Show resolved settings per widget
  embedposts resolve page.html -f json    Same, as JSON
  embedposts watch page.html              Re-resolve whenever the page changes
  embedposts version                      Show version information`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.SetNormalizeFunc(normalizeFlagName)
	flags.StringVar(&cfgFile, "config", "", "config file (default is .embedposts.yml, can also use EMBEDPOSTS_CONFIG_FILE env var)")
	flags.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.String("namespace", "", "registry namespace for loader definitions")
	flags.String("script-pattern", "", "regular expression selecting loader scripts by src")
	flags.String("user-agent", "", "user agent used to negotiate DOM capabilities")

	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("loader.namespace", flags.Lookup("namespace"))
	_ = viper.BindPFlag("loader.script_pattern", flags.Lookup("script-pattern"))
	_ = viper.BindPFlag("loader.user_agent", flags.Lookup("user-agent"))
}

// normalizeFlagName accepts --log_level as well as --log-level, matching
// the spelling of the config keys.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// initConfig initializes the configuration system with support for multiple config sources.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. EMBEDPOSTS_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .embedposts.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("EMBEDPOSTS_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".embedposts")
	}

	// Examples: EMBEDPOSTS_LOG_LEVEL, EMBEDPOSTS_LOADER_USER_AGENT
	viper.SetEnvPrefix("EMBEDPOSTS")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// A missing config file is fine; defaults apply
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
