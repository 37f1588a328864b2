// Package loader wires the resolver, the widget and the module registry
// together: it is what runs each time the defining script is evaluated.
package loader

import (
	"context"
	"fmt"

	"github.com/conneroisu/embedposts/internal/dom"
	"github.com/conneroisu/embedposts/internal/errors"
	"github.com/conneroisu/embedposts/internal/logging"
	"github.com/conneroisu/embedposts/internal/registry"
	"github.com/conneroisu/embedposts/internal/resolver"
	"github.com/conneroisu/embedposts/internal/widget"
)

// Registry names. The constructor and resolver are page-wide singletons;
// every script inclusion additionally owns one listener entry.
const (
	DefaultNamespace = "com.tumblr.embedposts"
	ConstructorName  = "EmbedTumblrPosts"
	ResolverName     = "preparation"
	listenerPrefix   = "listener:"
)

// Options configures a Loader.
type Options struct {
	Namespace    string
	Capabilities dom.Capabilities
	Renderer     widget.Renderer
	Logger       logging.Logger
}

// Loader evaluates the defining script against a window and document.
type Loader struct {
	namespace string
	caps      dom.Capabilities
	renderer  widget.Renderer
	logger    logging.Logger
}

// New creates a loader, filling unset options with defaults.
func New(opts Options) *Loader {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.Capabilities == nil {
		opts.Capabilities = dom.Standard{}
	}
	if opts.Renderer == nil {
		opts.Renderer = widget.NopRenderer{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}

	return &Loader{
		namespace: opts.Namespace,
		caps:      opts.Capabilities,
		renderer:  opts.Renderer,
		logger:    opts.Logger.WithComponent("loader"),
	}
}

// Namespace returns the registry namespace the loader installs into.
func (l *Loader) Namespace() string {
	return l.namespace
}

// Evaluate performs one evaluation of the defining script. doc must reflect
// the page as seen by that script, i.e. with the script as the last one.
//
// Definitions are taken from the registry when an earlier evaluation put them
// there. Evaluating the same inclusion again returns the widget it already
// created without attaching another page-ready listener.
func (l *Loader) Evaluate(ctx context.Context, win *dom.Window, doc dom.Document) (widget.Widget, error) {
	reg, err := l.Registry(win)
	if err != nil {
		return nil, l.fail(ctx, err, "Failed to open registry namespace")
	}

	events := reg.Watch()
	defer l.logBindings(ctx, reg, events)

	factory, err := registry.EnsureAs(reg, ConstructorName, func() (widget.Factory, error) {
		l.logger.Debug(ctx, "Defining widget constructor", "namespace", l.namespace)
		return widget.NewWidget, nil
	})
	if err != nil {
		return nil, l.fail(ctx, err, "Failed to obtain widget constructor")
	}

	res, err := registry.EnsureAs(reg, ResolverName, func() (*resolver.Resolver, error) {
		l.logger.Debug(ctx, "Defining settings resolver", "capabilities", l.caps.Name())
		return resolver.New(l.caps, l.logger), nil
	})
	if err != nil {
		return nil, l.fail(ctx, err, "Failed to obtain settings resolver")
	}

	resolution, err := res.Resolve(ctx, doc)
	if err != nil {
		return nil, l.fail(ctx, err, "Settings resolution failed")
	}

	el, ok := resolution.Script.(dom.Element)
	if !ok {
		// No usable bind target: construction reports the binding error.
		_, err := factory(resolution.Script, resolution.Settings)
		return nil, l.fail(ctx, err, "Widget construction failed")
	}

	key := listenerPrefix + el.Key()
	if existing, found := reg.Find(key); found {
		if w, isWidget := existing.(widget.Widget); isWidget {
			l.logger.Debug(ctx, "Inclusion already prepared", "script", el.Key(), "widget_id", w.ID())
		}
	}

	w, err := registry.EnsureAs(reg, key, func() (widget.Widget, error) {
		w, err := factory(el, resolution.Settings,
			widget.WithRenderer(l.renderer),
			widget.WithLogger(l.logger))
		if err != nil {
			return nil, err
		}

		l.caps.OnContentLoaded(win, func(ctx context.Context, event dom.Event) {
			w.Run(ctx, event)
		})

		l.logger.Info(ctx, "Widget prepared",
			"script", el.Key(),
			"widget_id", w.ID(),
			"settings", logging.SanitizeMap(w.Settings()))
		return w, nil
	})
	if err != nil {
		return nil, l.fail(ctx, err, "Widget construction failed")
	}

	return w, nil
}

// Registry opens the loader's namespace on the window's global scope.
func (l *Loader) Registry(win *dom.Window) (*registry.Registry, error) {
	return registry.New(l.namespace, win.Global())
}

// logBindings stops watching reg and logs the bindings made while it was
// watched.
func (l *Loader) logBindings(ctx context.Context, reg *registry.Registry, events <-chan registry.Event) {
	reg.UnWatch(events)
	for event := range events {
		l.logger.Debug(ctx, "Registry binding",
			"namespace", reg.Path(),
			"name", event.Name,
			"event", event.Type.String(),
			"value_type", fmt.Sprintf("%T", event.Value))
	}
}

func (l *Loader) fail(ctx context.Context, err error, msg string) error {
	if err == nil {
		err = errors.NewBindingError(errors.ErrCodeBindTarget, "no widget was constructed")
	}
	l.logger.Error(ctx, err, msg)
	return err
}
