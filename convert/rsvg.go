package convert

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// RSVGConverter implements Converter using rsvg-convert
type RSVGConverter struct{}

// NewRSVGConverter creates a new RSVG converter
func NewRSVGConverter() *RSVGConverter {
	return &RSVGConverter{}
}

// Name returns the name of this converter
func (c *RSVGConverter) Name() string {
	return "rsvg-convert"
}

// IsAvailable checks if rsvg-convert is available in PATH
func (c *RSVGConverter) IsAvailable() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// SupportedFormats returns formats supported by rsvg-convert
func (c *RSVGConverter) SupportedFormats() []string {
	return []string{"png", "pdf", "ps", "eps", "svg"}
}

// Convert converts an SVG file using rsvg-convert
func (c *RSVGConverter) Convert(ctx context.Context, svgPath, outputPath string, options *Options) error {
	if !c.IsAvailable() {
		return NewConverterError(c.Name(), "convert", fmt.Errorf("rsvg-convert not found in PATH"))
	}

	if options == nil {
		options = DefaultOptions()
	}

	args := []string{}

	// rsvg-convert always draws text as outlines on vector output, so
	// OutlineText needs no flag here.
	format := strings.ToLower(options.Format)
	switch format {
	case "png", "pdf", "ps", "eps", "svg":
		args = append(args, "--format="+format)
	default:
		return NewConverterError(c.Name(), "convert", fmt.Errorf("unsupported format: %s", format))
	}

	if options.Width > 0 {
		args = append(args, "--width="+strconv.Itoa(options.Width))
	}
	if options.Height > 0 {
		args = append(args, "--height="+strconv.Itoa(options.Height))
	}
	if options.Width > 0 || options.Height > 0 {
		// forced dimensions must not distort artwork proportions
		args = append(args, "--keep-aspect-ratio")
	}
	if options.DPI > 0 {
		args = append(args, "--dpi-x="+strconv.Itoa(options.DPI))
		args = append(args, "--dpi-y="+strconv.Itoa(options.DPI))
	}
	if options.BackgroundColor != "" {
		args = append(args, "--background-color="+options.BackgroundColor)
	}

	args = append(args, "--output="+outputPath)
	args = append(args, svgPath)

	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return NewConverterError(c.Name(), "convert", fmt.Errorf("command failed: %w, output: %s", err, string(output)))
	}

	return nil
}
