// Package validation checks user input handed to the CLI before it reaches
// the loader.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// PageExtensions are the file extensions accepted as HTML pages.
var PageExtensions = []string{".html", ".htm", ".xhtml"}

const maxUserAgentLength = 512

// ValidatePagePath validates the path of a page to resolve.
func ValidatePagePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains null byte: %q", path)
	}
	return ValidateFileExtension(path, PageExtensions)
}

// ValidateFileExtension validates file extensions against an allowlist
func ValidateFileExtension(filename string, allowedExtensions []string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("file has no extension: %s", filename)
	}

	for _, allowed := range allowedExtensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}

	return fmt.Errorf("file extension '%s' is not allowed (allowed: %s)", ext, strings.Join(allowedExtensions, ", "))
}

// ValidateUserAgent validates a user agent used for capability negotiation.
// Empty is valid and selects the standard provider.
func ValidateUserAgent(userAgent string) error {
	if len(userAgent) > maxUserAgentLength {
		return fmt.Errorf("user agent exceeds %d bytes", maxUserAgentLength)
	}
	for _, r := range userAgent {
		if unicode.IsControl(r) {
			return fmt.Errorf("user agent contains control character %U", r)
		}
	}
	return nil
}
