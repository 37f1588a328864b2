// Package cdata unwraps CDATA-marked text embedded in script elements.
package cdata

import "strings"

const (
	openMarker  = "<![CDATA["
	closeMarker = "]]>"
)

// Extract removes a leading "<![CDATA[" and a trailing "]]>" when present at
// the very start and end of text. Each marker is handled independently and
// nothing else, interior whitespace included, is touched.
func Extract(text string) string {
	text = strings.TrimPrefix(text, openMarker)
	return strings.TrimSuffix(text, closeMarker)
}
