package errors

import (
	"strings"
	"unicode"
)

// ValidateEntityName validates a tool or plugin name for safety and correctness.
// Names end up in file names of the published catalog (<name>-tool.json,
// <name>-<version>.php), so anything that could escape the output directory
// is rejected:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateEntityName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "name %q contains invalid characters: %q", name, pattern)
		}
	}

	return nil
}

// ValidateVersion validates a version string before it is used as a map key
// and as part of an artifact file name.
func ValidateVersion(version string) error {
	if strings.TrimSpace(version) == "" {
		return New(ErrCodeInvalidInput, "version cannot be empty")
	}
	if strings.ContainsAny(version, "/\\\x00") || strings.Contains(version, "..") {
		return New(ErrCodeInvalidInput, "version %q contains invalid characters", version)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
