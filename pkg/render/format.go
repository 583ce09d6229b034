package render

import (
	"strings"

	"github.com/matzehuels/cardfan/pkg/deck"
	apperrors "github.com/matzehuels/cardfan/pkg/errors"
	"github.com/matzehuels/cardfan/pkg/fan"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatJSON = "json"
)

// Formats lists the supported formats.
var Formats = []string{FormatSVG, FormatPNG, FormatWebP, FormatJSON}

// ValidateFormat reports an INVALID_FORMAT error for unsupported formats.
func ValidateFormat(format string) error {
	switch format {
	case FormatSVG, FormatPNG, FormatWebP, FormatJSON:
		return nil
	}
	return apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q (must be one of %s)", format, strings.Join(Formats, ", "))
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Render dispatches to the sink for format.
func Render(format string, frame fan.Frame, d *deck.Deck, opts ...Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(frame, d, opts...), nil
	case FormatPNG:
		return RenderPNG(frame, d, opts...)
	case FormatWebP:
		return RenderWebP(frame, d, opts...)
	case FormatJSON:
		return RenderJSON(frame, d, opts...)
	}
	return nil, ValidateFormat(format)
}
