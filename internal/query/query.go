// Package query parses the query component of a script URL into settings.
//
// Values are NOT percent-decoded: "title=a%20b" yields the literal "a%20b".
// Widget authors rely on the raw form, so decoding is deliberately left to
// whoever consumes a particular option.
package query

import (
	"strings"

	"github.com/conneroisu/embedposts/internal/settings"
)

// Parse splits raw (without a leading '?') on ';' or '&'. Each token is split
// on its first '='; a token without '=' or with an empty value maps its key
// to boolean true. Later duplicates overwrite earlier ones. Empty tokens and
// tokens with an empty key contribute nothing.
func Parse(raw string) settings.Settings {
	result := make(settings.Settings)
	if raw == "" {
		return result
	}

	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '&' || r == ';'
	})

	for _, token := range tokens {
		key, value, _ := strings.Cut(token, "=")
		if key == "" {
			continue
		}
		if value == "" {
			result[key] = true
			continue
		}
		result[key] = value
	}

	return result
}

// FromSource extracts the raw query component of a script src attribute, the
// part between the first '?' and the fragment. The src is not otherwise
// validated, so a malformed path or host keeps its query.
func FromSource(src string) string {
	beforeFragment, _, _ := strings.Cut(src, "#")
	_, raw, _ := strings.Cut(beforeFragment, "?")
	return raw
}
