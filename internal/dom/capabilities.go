package dom

// Capabilities is the environment-facing primitive set the core depends on.
type Capabilities interface {
	// Name identifies the provider in logs.
	Name() string
	// Scripts returns the script elements visible in doc, in document order.
	Scripts(doc Document) []Element
	TextContent(el Element) string
	SetTextContent(el Element, text string) error
	// OnContentLoaded arranges for listener to run once when the page
	// content has loaded.
	OnContentLoaded(target EventTarget, listener Listener)
}

// Standard is the provider for conforming environments.
type Standard struct{}

var _ Capabilities = Standard{}

// Name implements Capabilities.
func (Standard) Name() string { return "standard" }

// Scripts returns XHTML-namespaced script elements only; SVG scripts are
// ignored.
func (Standard) Scripts(doc Document) []Element {
	if doc == nil {
		return nil
	}
	return doc.ElementsByTagNameNS(XHTMLNamespace, "script")
}

// TextContent implements Capabilities.
func (Standard) TextContent(el Element) string {
	return el.TextContent()
}

// SetTextContent implements Capabilities.
func (Standard) SetTextContent(el Element, text string) error {
	el.SetTextContent(text)
	return nil
}

// OnContentLoaded implements Capabilities.
func (Standard) OnContentLoaded(target EventTarget, listener Listener) {
	target.AddEventListener(EventContentLoaded, listener)
}
