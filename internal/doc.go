// Package internal contains the core implementation packages for embedposts.
//
// These packages follow Go's internal package convention and are not
// importable by external modules. They host the embed-tumblr-posts loader
// outside a browser: a page is parsed, every inclusion of the loader script is
// evaluated where the browser would run it, and the page-ready lifecycle is
// driven explicitly.
//
// # Package Organization
//
//   - settings: configuration objects, defaults, merging and typed options
//   - query: parsing of the script src query string
//   - cdata: CDATA wrapper stripping for inline settings
//   - dom: node, element, document and window abstractions plus the
//     capability provider interface
//   - htmldom: a dom.Document backed by golang.org/x/net/html
//   - shim: the legacy capability provider and its negotiation
//   - resolver: settings resolution for the currently executing script
//   - registry: scope tree and the find-or-install guard shared by inclusions
//   - widget: the widget bound to a script element and its state machine
//   - loader: one evaluation of the loader script and whole-page loading
//   - config, logging, errors, validation, watcher, version: CLI support
//
// # Inter-Package Communication
//
//   - The loader owns a registry namespace on the window's global scope
//   - The resolver reads the document only through dom.Capabilities
//   - Widgets are triggered by window lifecycle events, never by the loader
//   - The watcher re-runs whole-page loading with a fresh window per change
package internal
