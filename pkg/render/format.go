package render

import (
	"strings"

	"github.com/matzehuels/archsketch/pkg/errors"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists the supported formats.
var Formats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPNG, FormatPDF}

var contentTypes = map[string]string{
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
}

// ParseFormat validates a format name. Empty means JSON.
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	if f == "" {
		return FormatJSON, nil
	}
	if _, ok := contentTypes[f]; !ok {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", s, strings.Join(Formats, ", "))
	}
	return f, nil
}

// FormatFromPath infers a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		if f, err := ParseFormat(path[i+1:]); err == nil {
			return f
		}
	}
	return FormatJSON
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}
