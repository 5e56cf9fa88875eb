package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxIDLength bounds node and edge identifiers accepted from hosts.
const maxIDLength = 256

// ValidateID validates a node or edge identifier supplied by a collaborator.
// The rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters (including null bytes)
//   - Maximum length of 256 bytes
//
// The kind argument ("node", "edge") is only used in messages.
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id %q contains control characters", kind, id)
		}
	}

	return nil
}

// graphExtensions lists the file extensions accepted for graph input.
var graphExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// ValidateGraphPath validates a graph input path for the CLI.
// It ensures the path is non-empty, free of null bytes and carries one of
// the supported extensions (.json, .yaml, .yml).
func ValidateGraphPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "graph path cannot be empty")
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "graph path contains invalid characters")
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !graphExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported graph file extension %q (must be .json, .yaml or .yml)", ext)
	}

	return nil
}
