package convert

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// ChromiumConverter implements Converter by rendering the SVG in a
// headless Chromium page via Playwright. It is the slowest option but
// handles CSS-heavy artwork the command-line converters choke on.
type ChromiumConverter struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewChromiumConverter creates a new Chromium converter
func NewChromiumConverter() *ChromiumConverter {
	return &ChromiumConverter{}
}

// Name returns the name of this converter
func (c *ChromiumConverter) Name() string {
	return "chromium"
}

// IsAvailable checks if the converter is available (lazy initialization)
func (c *ChromiumConverter) IsAvailable() bool {
	return true
}

// SupportedFormats returns formats supported by Chromium
func (c *ChromiumConverter) SupportedFormats() []string {
	return []string{"png", "pdf"}
}

// Convert converts an SVG file by loading it into a headless page
func (c *ChromiumConverter) Convert(ctx context.Context, svgPath, outputPath string, options *Options) error {
	if options == nil {
		options = DefaultOptions()
	}

	if err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
	}); err != nil {
		return NewConverterError(c.Name(), "install browsers", err)
	}

	if c.browser == nil {
		pw, err := playwright.Run()
		if err != nil {
			return NewConverterError(c.Name(), "start playwright", err)
		}
		c.pw = pw

		browser, err := c.pw.Chromium.Launch()
		if err != nil {
			return NewConverterError(c.Name(), "launch browser", err)
		}
		c.browser = browser
	}

	svgContent, err := os.ReadFile(svgPath)
	if err != nil {
		return NewConverterError(c.Name(), "read SVG", err)
	}

	page, err := c.browser.NewPage()
	if err != nil {
		return NewConverterError(c.Name(), "create page", err)
	}
	defer page.Close()

	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>
        body { margin: 0; padding: 0; }
        svg { display: block; }
    </style>
</head>
<body>
    %s
</body>
</html>`, string(svgContent))

	if err := page.SetContent(htmlContent); err != nil {
		return NewConverterError(c.Name(), "set content", err)
	}

	format := strings.ToLower(options.Format)
	switch format {
	case "png":
		return c.convertToPNG(page, outputPath, options)
	case "pdf":
		return c.convertToPDF(page, outputPath, options)
	default:
		return NewConverterError(c.Name(), "convert", fmt.Errorf("unsupported format: %s", format))
	}
}

func (c *ChromiumConverter) convertToPNG(page playwright.Page, outputPath string, options *Options) error {
	screenshotOptions := playwright.PageScreenshotOptions{
		Path: &outputPath,
		Type: playwright.ScreenshotTypePng,
	}

	if options.Width > 0 && options.Height > 0 {
		if err := page.SetViewportSize(options.Width, options.Height); err != nil {
			return NewConverterError(c.Name(), "set viewport", err)
		}
	}

	if _, err := page.Screenshot(screenshotOptions); err != nil {
		return NewConverterError(c.Name(), "screenshot PNG", err)
	}

	return nil
}

func (c *ChromiumConverter) convertToPDF(page playwright.Page, outputPath string, options *Options) error {
	pdfOptions := playwright.PagePdfOptions{
		Path: &outputPath,
	}

	if options.Width > 0 && options.Height > 0 {
		width := fmt.Sprintf("%dpx", options.Width)
		height := fmt.Sprintf("%dpx", options.Height)
		pdfOptions.Width = &width
		pdfOptions.Height = &height
	}

	if _, err := page.PDF(pdfOptions); err != nil {
		return NewConverterError(c.Name(), "generate PDF", err)
	}

	return nil
}

// Close closes the browser and Playwright instance
func (c *ChromiumConverter) Close() error {
	if c.browser != nil {
		if err := c.browser.Close(); err != nil {
			return err
		}
		c.browser = nil
	}

	if c.pw != nil {
		if err := c.pw.Stop(); err != nil {
			return err
		}
		c.pw = nil
	}

	return nil
}
