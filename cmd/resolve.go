package cmd

import (
	"fmt"

	"github.com/conneroisu/embedposts/internal/config"
	"github.com/conneroisu/embedposts/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var resolveNoReady bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <page.html>",
	Short: "Resolve the settings of every loader inclusion in a page",
	Long: `Parse an HTML page, evaluate each embed-tumblr-posts script at its own
position in the document and fire the page-ready lifecycle.

For every inclusion the script key, the resolved settings, the typed options
and the widget state are printed. Query parameters on the script src take
precedence over the inline JSON settings, which take precedence over defaults.

Examples:
  embedposts resolve blog.html
  embedposts resolve blog.html --format json
  embedposts resolve blog.html --no-ready        # stop before DOMContentLoaded
  embedposts resolve blog.html --user-agent "Mozilla/4.0 (compatible; MSIE 8.0)"`,
	Aliases: []string{"r"},
	Args:    cobra.ExactArgs(1),
	RunE:    runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringP("format", "f", "text", "Output format (json, yaml, text)")
	resolveCmd.Flags().BoolVar(&resolveNoReady, "no-ready", false, "Do not fire the page-ready lifecycle")

	_ = viper.BindPFlag("output.format", resolveCmd.Flags().Lookup("format"))
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newCommandLogger(cmd, cfg)

	report, err := resolvePage(cmd.Context(), cfg, logger, args[0], !resolveNoReady)
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), report, cfg.Output.Format)
}

func newCommandLogger(cmd *cobra.Command, cfg *config.Config) logging.Logger {
	logCfg := cfg.LoggerConfig()
	logCfg.Output = cmd.ErrOrStderr()
	return logging.NewLogger(logCfg).WithComponent("cli")
}
