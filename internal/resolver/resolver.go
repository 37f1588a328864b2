// Package resolver turns the invoking script element into resolved settings.
//
// The invoking ("current") script is taken to be the last script element in
// the document at call time. This only holds while the defining script runs
// synchronously during parse; async, deferred or late-inserted scripts break
// the heuristic.
package resolver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/conneroisu/embedposts/internal/cdata"
	"github.com/conneroisu/embedposts/internal/dom"
	"github.com/conneroisu/embedposts/internal/errors"
	"github.com/conneroisu/embedposts/internal/logging"
	"github.com/conneroisu/embedposts/internal/query"
	"github.com/conneroisu/embedposts/internal/settings"
)

// Resolution is the outcome of resolving one script inclusion.
type Resolution struct {
	// Script is the invoking script element, or nil when the document has no
	// script elements.
	Script   dom.Node
	Source   string
	Inline   settings.Settings
	Query    settings.Settings
	Settings settings.Settings
}

// Resolver locates the current script and merges its settings.
type Resolver struct {
	caps   dom.Capabilities
	logger logging.Logger
}

// New creates a resolver. Nil arguments fall back to the standard provider
// and a discarding logger.
func New(caps dom.Capabilities, logger logging.Logger) *Resolver {
	if caps == nil {
		caps = dom.Standard{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{
		caps:   caps,
		logger: logger.WithComponent("resolver"),
	}
}

// CurrentScript returns the last script element visible in doc, or nil.
func (r *Resolver) CurrentScript(doc dom.Document) dom.Element {
	scripts := r.caps.Scripts(doc)
	if len(scripts) == 0 {
		return nil
	}
	return scripts[len(scripts)-1]
}

// Resolve locates the current script, parses its query and inline settings
// and merges them, query settings taking precedence. Malformed inline
// settings are a fatal configuration error.
func (r *Resolver) Resolve(ctx context.Context, doc dom.Document) (*Resolution, error) {
	script := r.CurrentScript(doc)
	if script == nil {
		r.logger.Warn(ctx, nil, "No script element found in document")
		empty := settings.Settings{}
		return &Resolution{Inline: empty, Query: empty, Settings: settings.Merge()}, nil
	}

	src, _ := script.Attribute("src")
	querySettings := query.Parse(query.FromSource(src))

	inline, err := ParseInline(r.caps.TextContent(script))
	if err != nil {
		r.logger.Error(ctx, err, "Invalid inline settings", "script", script.Key())
		return nil, errors.Wrap(err, "resolve "+script.Key())
	}

	resolved := settings.Merge(inline, querySettings)

	r.logger.Debug(ctx, "Resolved script settings",
		"script", script.Key(),
		"src", src,
		"inline_keys", len(inline),
		"query_keys", len(querySettings),
		"settings", logging.SanitizeMap(resolved))

	return &Resolution{
		Script:   script,
		Source:   src,
		Inline:   inline,
		Query:    querySettings,
		Settings: resolved,
	}, nil
}

// ParseInline parses a script's text content as a JSON object after removing
// CDATA markers. Empty or whitespace-only content means no settings.
func ParseInline(text string) (settings.Settings, error) {
	body := cdata.Extract(text)
	if strings.TrimSpace(body) == "" {
		return settings.Settings{}, nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInlineSettingsJSON,
			"inline settings are not valid JSON", err).WithComponent("resolver")
	}

	object, ok := decoded.(map[string]any)
	if !ok {
		return nil, errors.NewConfigError(errors.ErrCodeInlineSettingsNotObject,
			"inline settings must be a JSON object", nil).
			WithComponent("resolver").
			WithContext("json_type", jsonType(decoded))
	}

	return settings.Settings(object), nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "object"
	}
}
