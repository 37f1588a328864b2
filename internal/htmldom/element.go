package htmldom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/conneroisu/embedposts/internal/dom"
)

// Element wraps an element node.
type Element struct {
	node     *html.Node
	doc      *Document
	position int
	key      string
}

var _ dom.Element = (*Element)(nil)

// NodeType implements dom.Node.
func (e *Element) NodeType() dom.NodeType {
	return dom.ElementNode
}

// OwnerDocument implements dom.Element.
func (e *Element) OwnerDocument() dom.Document {
	return e.doc
}

// TagName implements dom.Element.
func (e *Element) TagName() string {
	return e.node.Data
}

// NamespaceURI implements dom.Element. The HTML parser leaves html elements
// without a namespace; they belong to XHTML.
func (e *Element) NamespaceURI() string {
	switch e.node.Namespace {
	case "":
		return dom.XHTMLNamespace
	case "svg":
		return dom.SVGNamespace
	case "math":
		return dom.MathMLNamespace
	default:
		return e.node.Namespace
	}
}

// Attribute implements dom.Element.
func (e *Element) Attribute(name string) (string, bool) {
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// TextContent implements dom.Element.
func (e *Element) TextContent() string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		traverse(c)
	}
	return sb.String()
}

// SetTextContent implements dom.Element.
func (e *Element) SetTextContent(text string) {
	e.removeChildren()
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	e.doc.idx.rebuild(e.doc)
}

// InnerHTML implements dom.Element. Text inside raw text elements such as
// script is serialized verbatim, as browsers do.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	raw := rawTextElements[e.node.Data]
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if raw && c.Type == html.TextNode {
			sb.WriteString(c.Data)
			continue
		}
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"xmp":       true,
}

// SetInnerHTML implements dom.Element.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return err
	}
	e.removeChildren()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	e.doc.idx.rebuild(e.doc)
	return nil
}

// Key implements dom.Element.
func (e *Element) Key() string {
	return e.key
}

func (e *Element) removeChildren() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
}
