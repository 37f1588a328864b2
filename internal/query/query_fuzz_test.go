package query

import (
	"strings"
	"testing"
)

// FuzzParse checks that parsing never panics and never produces empty keys
// or keys containing separators.
func FuzzParse(f *testing.F) {
	f.Add("a=1&b=2;c")
	f.Add("")
	f.Add("=&=;;")
	f.Add("k=v=w")
	f.Add("%zz=%%")

	f.Fuzz(func(t *testing.T, raw string) {
		result := Parse(raw)
		for k, v := range result {
			if k == "" {
				t.Fatalf("empty key in result for %q", raw)
			}
			if strings.ContainsAny(k, "&;=") {
				t.Fatalf("key %q contains a separator", k)
			}
			switch v.(type) {
			case string, bool:
			default:
				t.Fatalf("unexpected value type %T", v)
			}
		}
	})
}

// FuzzFromSource checks that the extracted query never carries a fragment and
// is always a suffix of the src before its fragment.
func FuzzFromSource(f *testing.F) {
	f.Add("https://cdn.example.com/embed-tumblr-posts.js?limit=5#top")
	f.Add("/js/100%.js?limit=5")
	f.Add("#?")

	f.Fuzz(func(t *testing.T, src string) {
		raw := FromSource(src)
		if strings.Contains(raw, "#") {
			t.Fatalf("query %q of %q contains a fragment", raw, src)
		}
		beforeFragment, _, _ := strings.Cut(src, "#")
		if !strings.HasSuffix(beforeFragment, raw) {
			t.Fatalf("query %q is not taken from %q", raw, src)
		}
	})
}
