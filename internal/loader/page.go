package loader

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"regexp"

	"github.com/conneroisu/embedposts/internal/dom"
	"github.com/conneroisu/embedposts/internal/errors"
	"github.com/conneroisu/embedposts/internal/htmldom"
	"github.com/conneroisu/embedposts/internal/registry"
	"github.com/conneroisu/embedposts/internal/widget"
)

// DefaultScriptPattern matches the src of the defining script.
const DefaultScriptPattern = `embed-tumblr-posts(\.min)?\.js`

// Inclusion is one evaluated occurrence of the defining script.
type Inclusion struct {
	Script dom.Element
	Widget widget.Widget
	Err    error
}

// Page is a parsed HTML page hosting the loader.
type Page struct {
	Window     *dom.Window
	Document   *htmldom.Document
	Inclusions []Inclusion
}

// PageOptions configures LoadPage.
type PageOptions struct {
	// ScriptPattern selects the defining scripts by src. Empty means
	// DefaultScriptPattern.
	ScriptPattern string
	// Global is the window's root scope; nil gives the page its own.
	Global *registry.Scope
}

// LoadPage parses r and evaluates every defining script in document order,
// each against the document as it stood when that script ran. A failing
// inclusion does not stop later ones; the joined errors are returned along
// with the page.
func (l *Loader) LoadPage(ctx context.Context, r io.Reader, opts PageOptions) (*Page, error) {
	pattern := opts.ScriptPattern
	if pattern == "" {
		pattern = DefaultScriptPattern
	}
	matcher, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("invalid script pattern %q: %v", pattern, err))
	}

	doc, err := htmldom.Parse(r)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeDocumentParse, "failed to load page", err)
	}

	page := &Page{
		Window:   dom.NewWindow(opts.Global),
		Document: doc,
	}

	var errs []error
	for _, script := range l.caps.Scripts(doc) {
		src, ok := script.Attribute("src")
		if !ok || !matcher.MatchString(src) {
			continue
		}

		w, err := l.Evaluate(ctx, page.Window, doc.Until(script))
		page.Inclusions = append(page.Inclusions, Inclusion{Script: script, Widget: w, Err: err})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", script.Key(), err))
		}
	}

	l.logger.Info(ctx, "Page loaded",
		"inclusions", len(page.Inclusions),
		"failed", len(errs),
		"capabilities", l.caps.Name())

	return page, stderrors.Join(errs...)
}

// Ready fires the page-ready lifecycle. It reports false when the page was
// already ready.
func (p *Page) Ready(ctx context.Context) bool {
	return p.Window.Ready(ctx)
}

// Widgets returns the widgets of successful inclusions.
func (p *Page) Widgets() []widget.Widget {
	widgets := make([]widget.Widget, 0, len(p.Inclusions))
	for _, inc := range p.Inclusions {
		if inc.Widget != nil {
			widgets = append(widgets, inc.Widget)
		}
	}
	return widgets
}
