package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/flanksource/commons/logger"
)

// Policy selects how the finished document's colors are normalized.
type Policy string

const (
	// PolicyPreserve keeps existing color values untouched. Used when
	// the artwork already carries press-ready CMYK.
	PolicyPreserve Policy = "preserve"
	// PolicyConvert converts everything to CMYK for press.
	PolicyConvert Policy = "convert"
)

// Normalizer runs the one-time color normalization pass over a
// finished PDF.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath, outputPath string, policy Policy) error
}

// GhostscriptNormalizer implements Normalizer with a gs pdfwrite pass.
type GhostscriptNormalizer struct{}

// NewGhostscriptNormalizer creates a new Ghostscript normalizer
func NewGhostscriptNormalizer() *GhostscriptNormalizer {
	return &GhostscriptNormalizer{}
}

// IsAvailable checks if Ghostscript is available in PATH
func (n *GhostscriptNormalizer) IsAvailable() bool {
	_, err := exec.LookPath("gs")
	return err == nil
}

// Normalize rewrites the PDF under the given color policy. A failed
// pass is not fatal: the un-normalized document is still printable, so
// the input is carried through to the output path and a warning is
// logged.
func (n *GhostscriptNormalizer) Normalize(ctx context.Context, inputPath, outputPath string, policy Policy) error {
	strategy := "LeaveColorUnchanged"
	args := []string{
		"-dNOPAUSE",
		"-dBATCH",
		"-dSAFER",
		"-sDEVICE=pdfwrite",
	}
	if policy == PolicyConvert {
		strategy = "CMYK"
		args = append(args,
			"-sProcessColorModel=DeviceCMYK",
			"-dOverrideICC",
		)
	}
	args = append(args,
		"-sColorConversionStrategy="+strategy,
		"-sOutputFile="+outputPath,
		inputPath,
	)

	if !n.IsAvailable() {
		logger.Warnf("color normalization skipped: gs not found in PATH")
		return copyFile(inputPath, outputPath)
	}

	cmd := exec.CommandContext(ctx, "gs", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		logger.Warnf("color normalization failed, keeping original colors: %v, output: %s", err, string(output))
		return copyFile(inputPath, outputPath)
	}

	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
