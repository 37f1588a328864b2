// Package widget defines the embed-posts widget: an object built from
// resolved settings and bound to the script element that included it.
//
// A widget starts in StateConstructed. The page-ready trigger calls Run,
// which moves it to StateRenderingTriggered and invokes the Renderer exactly
// once. Rendering itself (fetching and drawing posts) lives behind the
// Renderer interface.
package widget

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/conneroisu/embedposts/internal/dom"
	"github.com/conneroisu/embedposts/internal/errors"
	"github.com/conneroisu/embedposts/internal/logging"
	"github.com/conneroisu/embedposts/internal/settings"
)

// State is the widget lifecycle state.
type State int32

const (
	StateConstructed State = iota
	StateRenderingTriggered
)

// String returns the string representation of the State
func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateRenderingTriggered:
		return "rendering-triggered"
	default:
		return "unknown"
	}
}

// Widget is the capability every embed widget exposes.
type Widget interface {
	ID() string
	// Settings returns a copy of the resolved settings.
	Settings() settings.Settings
	Target() dom.Element
	Document() dom.Document
	State() State
	// Run is the page-ready trigger. It reports whether this call performed
	// the transition to StateRenderingTriggered.
	Run(ctx context.Context, event dom.Event) bool
}

// Factory constructs a widget bound to target.
type Factory func(target dom.Node, s settings.Settings, opts ...Option) (Widget, error)

// View is what a Renderer gets to work with.
type View struct {
	ID       string
	Settings settings.Settings
	Target   dom.Element
	Document dom.Document
}

// Renderer is the rendering extension point.
type Renderer interface {
	Render(ctx context.Context, event dom.Event, view View) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, event dom.Event, view View) error

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context, event dom.Event, view View) error {
	return f(ctx, event, view)
}

// NopRenderer renders nothing.
type NopRenderer struct{}

// Render implements Renderer.
func (NopRenderer) Render(context.Context, dom.Event, View) error { return nil }

// Option configures an EmbedPosts widget.
type Option func(*EmbedPosts)

// WithRenderer sets the rendering extension point.
func WithRenderer(r Renderer) Option {
	return func(w *EmbedPosts) {
		if r != nil {
			w.renderer = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(w *EmbedPosts) {
		if l != nil {
			w.logger = l
		}
	}
}

// EmbedPosts is the concrete widget.
type EmbedPosts struct {
	id       string
	settings settings.Settings
	target   dom.Element
	document dom.Document
	renderer Renderer
	logger   logging.Logger
	state    atomic.Int32
}

var _ Widget = (*EmbedPosts)(nil)

// New builds a widget from s layered over the default settings. target must
// be an element node; anything else is a fatal binding error.
func New(target dom.Node, s settings.Settings, opts ...Option) (*EmbedPosts, error) {
	el, ok := target.(dom.Element)
	if target == nil || !ok || el.NodeType() != dom.ElementNode {
		return nil, errors.NewBindingError(errors.ErrCodeBindTarget,
			"widget target must be an element node").
			WithComponent("widget").
			WithContext("node_type", nodeType(target))
	}

	w := &EmbedPosts{
		id:       uuid.NewString(),
		settings: settings.Merge(settings.Defaults(), s),
		target:   el,
		document: el.OwnerDocument(),
		renderer: NopRenderer{},
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("widget").With("widget_id", w.id, "target", el.Key())

	return w, nil
}

// NewWidget is New returning the Widget interface; it satisfies Factory.
func NewWidget(target dom.Node, s settings.Settings, opts ...Option) (Widget, error) {
	w, err := New(target, s, opts...)
	if err != nil {
		return nil, err
	}
	return w, nil
}

var _ Factory = NewWidget

// ID implements Widget.
func (w *EmbedPosts) ID() string { return w.id }

// Settings implements Widget.
func (w *EmbedPosts) Settings() settings.Settings { return w.settings.Clone() }

// Target implements Widget.
func (w *EmbedPosts) Target() dom.Element { return w.target }

// Document implements Widget.
func (w *EmbedPosts) Document() dom.Document { return w.document }

// State implements Widget.
func (w *EmbedPosts) State() State { return State(w.state.Load()) }

// Run implements Widget. Renderer errors are logged and not returned; once
// triggered, the widget never renders again.
func (w *EmbedPosts) Run(ctx context.Context, event dom.Event) bool {
	if !w.state.CompareAndSwap(int32(StateConstructed), int32(StateRenderingTriggered)) {
		w.logger.Debug(ctx, "Ignoring repeated trigger", "event", event.Type)
		return false
	}

	w.logger.Info(ctx, "Rendering triggered", "event", event.Type)

	view := View{
		ID:       w.id,
		Settings: w.settings.Clone(),
		Target:   w.target,
		Document: w.document,
	}
	if err := w.renderer.Render(ctx, event, view); err != nil {
		w.logger.Error(ctx, err, "Render failed")
	}
	return true
}

func nodeType(n dom.Node) string {
	if n == nil {
		return "nil"
	}
	return n.NodeType().String()
}
