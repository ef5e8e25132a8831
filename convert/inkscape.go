package convert

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// InkscapeConverter implements Converter using Inkscape
type InkscapeConverter struct{}

// NewInkscapeConverter creates a new Inkscape converter
func NewInkscapeConverter() *InkscapeConverter {
	return &InkscapeConverter{}
}

// Name returns the name of this converter
func (c *InkscapeConverter) Name() string {
	return "inkscape"
}

// IsAvailable checks if Inkscape is available in PATH
func (c *InkscapeConverter) IsAvailable() bool {
	_, err := exec.LookPath("inkscape")
	return err == nil
}

// SupportedFormats returns formats supported by Inkscape
func (c *InkscapeConverter) SupportedFormats() []string {
	return []string{"png", "pdf", "eps", "ps", "svg"}
}

// Convert converts an SVG file using Inkscape
func (c *InkscapeConverter) Convert(ctx context.Context, svgPath, outputPath string, options *Options) error {
	if !c.IsAvailable() {
		return NewConverterError(c.Name(), "convert", fmt.Errorf("inkscape not found in PATH"))
	}

	if options == nil {
		options = DefaultOptions()
	}

	args := []string{
		svgPath,
		"--export-filename=" + outputPath,
	}

	format := strings.ToLower(options.Format)
	switch format {
	case "png":
		args = append(args, "--export-type=png")

		if options.Width > 0 {
			args = append(args, "--export-width="+strconv.Itoa(options.Width))
		}
		if options.Height > 0 {
			args = append(args, "--export-height="+strconv.Itoa(options.Height))
		}
		if options.DPI > 0 {
			args = append(args, "--export-dpi="+strconv.Itoa(options.DPI))
		}
		if options.BackgroundColor != "" {
			args = append(args, "--export-background="+options.BackgroundColor)
		}

	case "pdf":
		// Inkscape keeps vector paths intact on PDF export, which is
		// what lets CMYK-preserving artwork survive untouched. PDF 1.5
		// is the floor most transfer RIPs accept.
		args = append(args, "--export-type=pdf", "--export-pdf-version=1.5")
		if options.OutlineText {
			args = append(args, "--export-text-to-path")
		}

	case "eps":
		args = append(args, "--export-type=eps")
		if options.OutlineText {
			args = append(args, "--export-text-to-path")
		}

	case "ps":
		args = append(args, "--export-type=ps")
		if options.OutlineText {
			args = append(args, "--export-text-to-path")
		}

	case "svg":
		args = append(args, "--export-type=svg")

	default:
		return NewConverterError(c.Name(), "convert", fmt.Errorf("unsupported format: %s", format))
	}

	cmd := exec.CommandContext(ctx, "inkscape", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return NewConverterError(c.Name(), "convert", fmt.Errorf("command failed: %w, output: %s", err, string(output)))
	}

	return nil
}
