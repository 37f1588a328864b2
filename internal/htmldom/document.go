// Package htmldom implements the dom interfaces on top of golang.org/x/net/html.
package htmldom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/conneroisu/embedposts/internal/dom"
)

// index holds the document-order element table shared by a document and all
// of its partial views.
type index struct {
	root     *html.Node
	elements []*Element
	byNode   map[*html.Node]*Element
}

// Document is a parsed HTML document, or a prefix view of one.
type Document struct {
	idx *index
	// until is the last element visible in this view; nil means all.
	until *Element
}

var _ dom.Document = (*Document)(nil)

// Parse parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return FromNode(root), nil
}

// FromNode wraps an already parsed tree.
func FromNode(root *html.Node) *Document {
	idx := &index{root: root, byNode: make(map[*html.Node]*Element)}
	doc := &Document{idx: idx}
	idx.rebuild(doc)
	return doc
}

func (idx *index) rebuild(doc *Document) {
	elements := make([]*Element, 0, len(idx.elements))
	byNode := make(map[*html.Node]*Element, len(idx.byNode))
	counts := make(map[string]int)

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			el, ok := idx.byNode[n]
			if !ok {
				el = &Element{node: n, doc: doc}
			}
			el.position = len(elements)
			el.key = fmt.Sprintf("%s[%d]", n.Data, counts[n.Data])
			counts[n.Data]++

			elements = append(elements, el)
			byNode[n] = el
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(idx.root)

	idx.elements = elements
	idx.byNode = byNode
}

// NodeType implements dom.Node.
func (d *Document) NodeType() dom.NodeType {
	return dom.DocumentNode
}

// Until returns a view of the document in which nothing after el exists, as
// seen by a script element executing synchronously during parse. An element
// from another document yields an empty view.
func (d *Document) Until(el dom.Element) *Document {
	view := &Document{idx: d.idx}
	if e, ok := el.(*Element); ok && d.idx.byNode[e.node] == e {
		view.until = e
	} else {
		view.until = &Element{position: -1}
	}
	return view
}

func (d *Document) visible() []*Element {
	if d.until == nil {
		return d.idx.elements
	}
	end := d.until.position + 1
	if end > len(d.idx.elements) {
		end = len(d.idx.elements)
	}
	if end < 0 {
		end = 0
	}
	return d.idx.elements[:end]
}

// ElementsByTagNameNS implements dom.Document.
func (d *Document) ElementsByTagNameNS(namespace, localName string) []dom.Element {
	var out []dom.Element
	for _, el := range d.visible() {
		if el.node.Data != localName {
			continue
		}
		if namespace != "*" && el.NamespaceURI() != namespace {
			continue
		}
		out = append(out, el)
	}
	return out
}

// ElementsByTagName implements dom.Document.
func (d *Document) ElementsByTagName(name string) []dom.Element {
	name = strings.ToLower(name)
	var out []dom.Element
	for _, el := range d.visible() {
		if el.node.Data == name {
			out = append(out, el)
		}
	}
	return out
}
