package errors

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from users.
const MaxNodeIDLength = 256

// ValidateNodeID validates a node identifier received from a user (query
// parameter, CLI argument, MCP tool input).
//
// Rules:
//   - not empty or whitespace only
//   - at most MaxNodeIDLength bytes
//   - no control characters
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", MaxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates the path of a graph document on the local
// filesystem.
//
// Rules:
//   - not empty
//   - maximum length of 4096 characters
//   - no null bytes or control characters
//   - ".json" extension (case-insensitive)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return New(ErrCodeInvalidPath, "graph file must have a .json extension: %s", path)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed. The comparison is
// exact; callers lower-case user input first.
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
