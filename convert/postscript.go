package convert

import (
	"context"
	"fmt"
	"os/exec"
)

// PostScriptBridge converts legacy Adobe Illustrator and EPS uploads
// to PDF with Ghostscript so the rest of the pipeline only ever deals
// with SVG and PDF.
type PostScriptBridge struct{}

// NewPostScriptBridge creates a new Ghostscript bridge
func NewPostScriptBridge() *PostScriptBridge {
	return &PostScriptBridge{}
}

// Name returns the name of this bridge
func (b *PostScriptBridge) Name() string {
	return "ghostscript"
}

// IsAvailable checks if Ghostscript is available in PATH
func (b *PostScriptBridge) IsAvailable() bool {
	_, err := exec.LookPath("gs")
	return err == nil
}

// ToPDF converts an AI or EPS file to PDF
func (b *PostScriptBridge) ToPDF(ctx context.Context, inputPath, outputPath string) error {
	if !b.IsAvailable() {
		return NewConverterError(b.Name(), "convert", fmt.Errorf("gs not found in PATH"))
	}

	args := []string{
		"-dNOPAUSE",
		"-dBATCH",
		"-dSAFER",
		"-sDEVICE=pdfwrite",
		"-dEPSCrop",
		"-sOutputFile=" + outputPath,
		inputPath,
	}

	cmd := exec.CommandContext(ctx, "gs", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return NewConverterError(b.Name(), "convert", fmt.Errorf("command failed: %w, output: %s", err, string(output)))
	}

	return nil
}
