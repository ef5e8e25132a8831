// Package convert turns artwork files into press-ready PDF fragments.
// SVG artwork goes through one of several external converters with
// fallback, PostScript legacy formats go through Ghostscript, and a
// pure-Go rasterizer backstops systems with no converter installed.
package convert

import (
	"context"
	"fmt"
)

// Converter defines the interface for converting SVG artwork to other formats
type Converter interface {
	// Name returns the name of the converter
	Name() string

	// IsAvailable checks if the converter is available on the system
	IsAvailable() bool

	// SupportedFormats returns the list of output formats this converter supports
	SupportedFormats() []string

	// Convert converts an SVG file to the specified format
	Convert(ctx context.Context, svgPath, outputPath string, options *Options) error
}

// Options holds options for artwork conversion
type Options struct {
	// Output format (png, pdf, eps, ps)
	Format string

	// Output width in pixels (0 = auto)
	Width int

	// Output height in pixels (0 = auto)
	Height int

	// DPI for raster formats (0 = default)
	DPI int

	// Background color (transparent if empty)
	BackgroundColor string

	// OutlineText converts live text to paths on vector export, so the
	// print file never depends on fonts installed at the press.
	OutlineText bool
}

// DefaultOptions returns default conversion options
func DefaultOptions() *Options {
	return &Options{
		Format:      "pdf",
		DPI:         300,
		OutlineText: true,
	}
}

// ConverterError represents an error from a converter
type ConverterError struct {
	Converter string
	Operation string
	Err       error
}

func (e *ConverterError) Error() string {
	return fmt.Sprintf("%s converter %s failed: %v", e.Converter, e.Operation, e.Err)
}

func (e *ConverterError) Unwrap() error {
	return e.Err
}

// NewConverterError creates a new converter error
func NewConverterError(converter, operation string, err error) error {
	return &ConverterError{
		Converter: converter,
		Operation: operation,
		Err:       err,
	}
}
