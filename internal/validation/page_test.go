package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePagePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"html file", "blog.html", false},
		{"htm file", "pages/index.htm", false},
		{"xhtml upper case", "feed.XHTML", false},
		{"absolute path", "/srv/www/blog.html", false},
		{"empty path", "", true},
		{"no extension", "README", true},
		{"wrong extension", "script.js", true},
		{"null byte", "blog\x00.html", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePagePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFileExtension(t *testing.T) {
	assert.NoError(t, ValidateFileExtension("a.HTML", []string{".html"}))
	assert.ErrorContains(t, ValidateFileExtension("a.txt", []string{".html", ".htm"}), ".html, .htm")
}

func TestValidateUserAgent(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		wantErr   bool
	}{
		{"empty", "", false},
		{"legacy browser", "Mozilla/4.0 (compatible; MSIE 8.0; Windows NT 6.1)", false},
		{"modern browser", "Mozilla/5.0 (X11; Linux x86_64) Gecko/20100101 Firefox/128.0", false},
		{"newline", "Mozilla/5.0\r\nX-Injected: 1", true},
		{"too long", strings.Repeat("a", maxUserAgentLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserAgent(tt.userAgent)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
