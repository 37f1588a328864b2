//go:build property
// +build property

package settings

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genSettings() gopter.Gen {
	return gen.MapOf(
		gen.OneConstOf("api_key", "base-hostname", "limit", "offset", "theme", "x"),
		gen.AlphaString(),
	).Map(func(m map[string]string) Settings {
		s := make(Settings, len(m))
		for k, v := range m {
			s[k] = v
		}
		return s
	})
}

// TestMergeProperties checks the union laws of Merge.
func TestMergeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("merge is associative in source order", prop.ForAll(
		func(a, b, c Settings) bool {
			flat := Merge(a, b, c)
			return reflect.DeepEqual(flat, Merge(Merge(a, b), c)) &&
				reflect.DeepEqual(flat, Merge(a, Merge(b, c)))
		},
		genSettings(), genSettings(), genSettings(),
	))

	properties.Property("rightmost source wins", prop.ForAll(
		func(a, b Settings) bool {
			merged := Merge(a, b)
			for k, v := range b {
				if merged[k] != v {
					return false
				}
			}
			return true
		},
		genSettings(), genSettings(),
	))

	properties.Property("single source round-trips", prop.ForAll(
		func(a Settings) bool {
			return reflect.DeepEqual(Merge(a), a) || (len(a) == 0 && len(Merge(a)) == 0)
		},
		genSettings(),
	))

	properties.TestingRun(t)
}
