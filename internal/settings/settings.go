// Package settings models the flat configuration objects a widget is built
// from and the union operation used to combine them.
//
// A Settings value maps string keys to string, bool, float64 (JSON numbers)
// or nil. Keys are flat; nested values are copied by reference and never
// merged structurally.
package settings

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Recognized option keys.
const (
	KeyAPIKey       = "api_key"
	KeyBaseHostname = "base-hostname"
	KeyLimit        = "limit"
	KeyOffset       = "offset"
)

// Settings is a single configuration object.
type Settings map[string]any

// Defaults returns a fresh copy of the built-in default settings.
func Defaults() Settings {
	return Settings{
		KeyAPIKey:       nil,
		KeyBaseHostname: "example.com",
		KeyLimit:        float64(10),
		KeyOffset:       float64(0),
	}
}

// Merge returns a new Settings holding the union of all sources. When a key
// appears in several sources the value from the later source wins. Sources
// are never mutated and nil sources are skipped.
func Merge(sources ...Settings) Settings {
	size := 0
	for _, src := range sources {
		size += len(src)
	}

	merged := make(Settings, size)
	for _, src := range sources {
		for k, v := range src {
			merged[k] = v
		}
	}
	return merged
}

// Clone returns an independent shallow copy.
func (s Settings) Clone() Settings {
	return Merge(s)
}

// Len returns the number of keys.
func (s Settings) Len() int {
	return len(s)
}

// String returns the value for key coerced to a string. A missing or nil
// value yields "".
func (s Settings) String(key string) (string, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return "", nil
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("setting %q: %w", key, err)
	}
	return str, nil
}

// Int returns the value for key coerced to an int. Query settings arrive as
// strings ("5"), inline settings as float64; both coerce. Strings are read in
// base 10 only, so "010" is 10 and "0x10" is rejected. A boolean true (a bare
// query key) and non-integral numbers such as 5.9 are rejected.
func (s Settings) Int(key string) (int, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return 0, nil
	}
	if _, isBool := v.(bool); isBool {
		return 0, fmt.Errorf("setting %q: boolean is not a number", key)
	}
	if str, isString := v.(string); isString && strings.ContainsAny(str, "xX") {
		return 0, fmt.Errorf("setting %q: %q is not a decimal number", key, str)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("setting %q: %w", key, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("setting %q: %v is not an integer", key, v)
	}
	if f >= float64(math.MaxInt) || f < float64(math.MinInt) {
		return 0, fmt.Errorf("setting %q: %v is out of range", key, v)
	}
	return int(f), nil
}

// APIKey returns the api_key option, or "" when unset.
func (s Settings) APIKey() (string, error) { return s.String(KeyAPIKey) }

// BaseHostname returns the base-hostname option.
func (s Settings) BaseHostname() (string, error) { return s.String(KeyBaseHostname) }

// Limit returns the limit option.
func (s Settings) Limit() (int, error) { return s.Int(KeyLimit) }

// Offset returns the offset option.
func (s Settings) Offset() (int, error) { return s.Int(KeyOffset) }

// Options is the typed view of the recognized settings.
type Options struct {
	APIKey       string `json:"api_key" yaml:"api_key"`
	BaseHostname string `json:"base_hostname" yaml:"base_hostname"`
	Limit        int    `json:"limit" yaml:"limit"`
	Offset       int    `json:"offset" yaml:"offset"`
}

// Options coerces every recognized key, returning the first failure.
func (s Settings) Options() (Options, error) {
	var (
		opts Options
		err  error
	)
	if opts.APIKey, err = s.APIKey(); err != nil {
		return Options{}, err
	}
	if opts.BaseHostname, err = s.BaseHostname(); err != nil {
		return Options{}, err
	}
	if opts.Limit, err = s.Limit(); err != nil {
		return Options{}, err
	}
	if opts.Offset, err = s.Offset(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
