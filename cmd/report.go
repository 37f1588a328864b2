package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/embedposts/internal/config"
	"github.com/conneroisu/embedposts/internal/loader"
	"github.com/conneroisu/embedposts/internal/logging"
	"github.com/conneroisu/embedposts/internal/settings"
	"github.com/conneroisu/embedposts/internal/shim"
	"github.com/conneroisu/embedposts/internal/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// PageReport is the printable outcome of loading one page.
type PageReport struct {
	Page         string         `json:"page" yaml:"page"`
	Capabilities string         `json:"capabilities" yaml:"capabilities"`
	ReadyState   string         `json:"ready_state" yaml:"ready_state"`
	Namespace    string         `json:"namespace" yaml:"namespace"`
	Bindings     []string       `json:"bindings" yaml:"bindings"`
	Widgets      []WidgetReport `json:"widgets" yaml:"widgets"`
}

// WidgetReport describes one inclusion of the loader script.
type WidgetReport struct {
	Script   string            `json:"script" yaml:"script"`
	Source   string            `json:"src,omitempty" yaml:"src,omitempty"`
	ID       string            `json:"id,omitempty" yaml:"id,omitempty"`
	State    string            `json:"state,omitempty" yaml:"state,omitempty"`
	Settings settings.Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
	Options  *settings.Options `json:"options,omitempty" yaml:"options,omitempty"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// resolvePage loads path with the configured loader and, when ready is set,
// fires the page-ready lifecycle before reporting.
func resolvePage(ctx context.Context, cfg *config.Config, logger logging.Logger, path string, ready bool) (*PageReport, error) {
	if err := validation.ValidatePagePath(path); err != nil {
		return nil, fmt.Errorf("invalid page: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer file.Close()

	caps := shim.Negotiate(cfg.Loader.UserAgent)
	l := loader.New(loader.Options{
		Namespace:    cfg.Loader.Namespace,
		Capabilities: caps,
		Logger:       logger,
	})

	page, loadErr := l.LoadPage(ctx, file, loader.PageOptions{ScriptPattern: cfg.Loader.ScriptPattern})
	if page == nil {
		return nil, loadErr
	}
	if loadErr != nil {
		logger.Warn(ctx, loadErr, "Some inclusions failed", "page", path)
	}

	if ready {
		page.Ready(ctx)
	}

	reg, err := l.Registry(page.Window)
	if err != nil {
		return nil, err
	}

	report := &PageReport{
		Page:         path,
		Capabilities: caps.Name(),
		ReadyState:   string(page.Window.ReadyState()),
		Namespace:    reg.Path(),
		Bindings:     reg.Names(),
		Widgets:      make([]WidgetReport, 0, len(page.Inclusions)),
	}

	for _, inc := range page.Inclusions {
		wr := WidgetReport{Script: inc.Script.Key()}
		if src, ok := inc.Script.Attribute("src"); ok {
			wr.Source = src
		}
		if inc.Err != nil {
			wr.Error = inc.Err.Error()
			report.Widgets = append(report.Widgets, wr)
			continue
		}

		wr.ID = inc.Widget.ID()
		wr.State = inc.Widget.State().String()
		wr.Settings = inc.Widget.Settings()
		if opts, err := wr.Settings.Options(); err == nil {
			wr.Options = &opts
		} else {
			logger.Warn(ctx, err, "Settings do not coerce to options", "script", wr.Script)
		}
		report.Widgets = append(report.Widgets, wr)
	}

	return report, nil
}

// writeReport renders report in one of config.SupportedFormats.
func writeReport(w io.Writer, report *PageReport, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(report)
	case "text", "":
		return writeReportText(w, report)
	default:
		return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(config.SupportedFormats, ", "))
	}
}

func writeReportText(w io.Writer, report *PageReport) error {
	title := cases.Title(language.English)

	fmt.Fprintf(w, "%s (%s, %s)\n", report.Page, report.Capabilities, report.ReadyState)
	if report.Namespace != "" {
		fmt.Fprintf(w, "%s: %s\n", report.Namespace, strings.Join(report.Bindings, ", "))
	}
	if len(report.Widgets) == 0 {
		fmt.Fprintln(w, "No loader scripts found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	columns := []string{"script", "state", settings.KeyBaseHostname, settings.KeyLimit, settings.KeyOffset, "other"}
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = title.String(c)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, wr := range report.Widgets {
		if wr.Error != "" {
			fmt.Fprintf(tw, "%s\terror\t%s\t\t\t\n", wr.Script, wr.Error)
			continue
		}
		hostname, limit, offset := "", "", ""
		if wr.Options != nil {
			hostname = wr.Options.BaseHostname
			limit = fmt.Sprint(wr.Options.Limit)
			offset = fmt.Sprint(wr.Options.Offset)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			wr.Script, wr.State, hostname, limit, offset, otherSettings(wr.Settings))
	}

	return tw.Flush()
}

// otherSettings formats the keys outside the typed options, sorted.
func otherSettings(s settings.Settings) string {
	known := map[string]bool{
		settings.KeyAPIKey:       true,
		settings.KeyBaseHostname: true,
		settings.KeyLimit:        true,
		settings.KeyOffset:       true,
	}

	var parts []string
	for key, value := range s {
		if known[key] {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", key, logging.SanitizeField(key, value)))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
