package convert

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageHandle identifies one page of a prepared PDF fragment together
// with its media box size in points.
type PageHandle struct {
	Path     string
	Page     int
	WidthPt  float64
	HeightPt float64
}

// PageLoader opens a prepared PDF and reports its pages. The assembler
// depends on this interface so tests can stub out real PDF parsing.
type PageLoader interface {
	LoadPages(path string) ([]PageHandle, error)
}

// FileLoader is the production PageLoader backed by pdfcpu.
type FileLoader struct{}

// LoadPages reads page dimensions from a PDF file
func (FileLoader) LoadPages(path string) ([]PageHandle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("pdf not found: %w", err)
	}

	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions of %s: %w", path, err)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("%s has no pages", path)
	}

	pages := make([]PageHandle, 0, len(dims))
	for i, dim := range dims {
		pages = append(pages, PageHandle{
			Path:     path,
			Page:     i + 1,
			WidthPt:  dim.Width,
			HeightPt: dim.Height,
		})
	}
	return pages, nil
}
