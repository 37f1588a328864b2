// Package dom defines the document model the loader runs against and the
// capability provider that mediates every environment-specific primitive.
//
// Core packages (resolver, loader, widget) only talk to these interfaces, so
// an alternative environment is supported by supplying another Capabilities
// value rather than by branching on environment identity.
package dom

// Namespace URIs.
const (
	XHTMLNamespace  = "http://www.w3.org/1999/xhtml"
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
)

// NodeType follows the DOM nodeType numbering.
type NodeType int

const (
	OtherNode    NodeType = 0
	ElementNode  NodeType = 1
	TextNode     NodeType = 3
	CommentNode  NodeType = 8
	DocumentNode NodeType = 9
)

// String returns the DOM name of the node type.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case DocumentNode:
		return "document"
	default:
		return "other"
	}
}

// Node is anything that can sit in a document tree.
type Node interface {
	NodeType() NodeType
}

// Element is an element node.
type Element interface {
	Node
	// OwnerDocument is the complete document the element belongs to.
	OwnerDocument() Document
	TagName() string
	NamespaceURI() string
	Attribute(name string) (string, bool)
	TextContent() string
	SetTextContent(text string)
	InnerHTML() string
	SetInnerHTML(markup string) error
	// Key identifies the element within its document, e.g. "script[2]".
	Key() string
}

// Document is a (possibly partial) view of a parsed page.
type Document interface {
	Node
	// ElementsByTagNameNS returns matching elements in document order.
	// A namespace of "*" matches any namespace.
	ElementsByTagNameNS(namespace, localName string) []Element
	// ElementsByTagName matches on local name regardless of namespace.
	ElementsByTagName(name string) []Element
}
