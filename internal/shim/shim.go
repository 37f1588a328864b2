// Package shim negotiates the DOM capability provider for the host
// environment. Legacy user agents get a provider that avoids namespaced
// lookup, derives text content from markup and waits for readyState
// "complete" instead of DOMContentLoaded.
package shim

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/conneroisu/embedposts/internal/dom"
)

var (
	legacyUserAgent = regexp.MustCompile(`MSIE`)
	tagPattern      = regexp.MustCompile(`<.+?>`)
	tagEscaper      = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// Detect reports whether userAgent belongs to a legacy browser.
func Detect(userAgent string) bool {
	return legacyUserAgent.MatchString(userAgent)
}

// Negotiate returns the capability provider for userAgent.
func Negotiate(userAgent string) dom.Capabilities {
	if Detect(userAgent) {
		return Legacy()
	}
	return dom.Standard{}
}

// StripTags removes anything that looks like a tag. Like the legacy
// textContent it replaces, it does not span lines.
func StripTags(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}

// EscapeTags escapes &, < and >.
func EscapeTags(text string) string {
	return tagEscaper.Replace(text)
}

type legacy struct{}

// Legacy returns the provider for legacy environments.
func Legacy() dom.Capabilities {
	return legacy{}
}

func (legacy) Name() string { return "legacy" }

func (legacy) Scripts(doc dom.Document) []dom.Element {
	if doc == nil {
		return nil
	}
	return doc.ElementsByTagName("script")
}

func (legacy) TextContent(el dom.Element) string {
	return StripTags(el.InnerHTML())
}

func (legacy) SetTextContent(el dom.Element, text string) error {
	return el.SetInnerHTML(EscapeTags(text))
}

func (legacy) OnContentLoaded(target dom.EventTarget, listener dom.Listener) {
	var once sync.Once
	target.AddEventListener(dom.EventReadyStateChange, func(ctx context.Context, event dom.Event) {
		if event.ReadyState != dom.ReadyStateComplete {
			return
		}
		once.Do(func() {
			listener(ctx, event)
		})
	})
}
