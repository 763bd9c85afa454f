package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxLabelLength bounds node labels and proposal names.
const maxLabelLength = 256

// ValidateLabel validates a node label supplied through manual editing.
//
// The validation rules are intentionally conservative:
//   - No empty (or whitespace-only) labels
//   - No control characters
//   - Maximum length of 256 characters
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}

	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}

	return nil
}

// sessionIDRegex matches session identifiers usable as file names and keys.
var sessionIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateSessionID validates a session identifier.
// It rejects anything that could escape the session directory when the file
// store maps ids to paths.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "session id cannot contain path traversal sequences (..)")
	}

	if !sessionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid session id: %q", id)
	}

	return nil
}

// colorRegex matches #rgb and #rrggbb colours.
var colorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates an optional node colour. Empty is allowed.
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !colorRegex.MatchString(color) {
		return New(ErrCodeInvalidInput, "invalid colour %q (want #rgb or #rrggbb)", color)
	}
	return nil
}
