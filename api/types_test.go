package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		mime, filename string
		want           FileKind
	}{
		{"image/svg+xml", "logo.svg", KindVectorSVG},
		{"application/pdf", "artwork.pdf", KindVectorPDF},
		{"application/postscript", "legacy.ai", KindVectorAI},
		{"application/postscript", "legacy.eps", KindVectorEPS},
		{"image/png", "photo.png", KindRasterPNG},
		{"image/jpeg", "photo.jpg", KindRasterJPEG},
		{"", "logo.SVG", KindVectorSVG},
		{"", "artwork.pdf", KindVectorPDF},
		{"application/octet-stream", "mystery.bin", KindUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.mime, tt.filename), "%s %s", tt.mime, tt.filename)
	}
}

func TestFileKindPredicates(t *testing.T) {
	assert.True(t, KindVectorSVG.IsVector())
	assert.True(t, KindVectorPDF.IsPaginated())
	assert.False(t, KindVectorSVG.IsPaginated())
	assert.True(t, KindRasterPNG.IsRaster())
	assert.False(t, KindRasterPNG.IsVector())
	assert.False(t, KindUnknown.IsVector())
}

func TestColorDeclarationRGB(t *testing.T) {
	r, g, b, ok := ColorDeclaration{OriginalText: "#FF8000", Format: FormatHex}.RGB()
	require.True(t, ok)
	assert.Equal(t, []int{255, 128, 0}, []int{r, g, b})

	r, g, b, ok = ColorDeclaration{Format: FormatRGB, Components: []float64{1, 2, 3}}.RGB()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, []int{r, g, b})

	_, _, _, ok = ColorDeclaration{Format: FormatCMYK, Components: []float64{0, 100, 100, 0}}.RGB()
	assert.False(t, ok)
}

func TestProjectValidate(t *testing.T) {
	p := &Project{ID: "p1", Template: TemplateSize{Name: "A3", WidthMM: 297, HeightMM: 420}}
	assert.NoError(t, p.Validate())

	p = &Project{ID: "p2", Template: TemplateSize{Name: "broken"}}
	assert.Error(t, p.Validate())
}

func TestProjectGarmentViews(t *testing.T) {
	p := &Project{
		GarmentColor:  "#FF0000",
		GarmentColors: []string{"#000000", "#FF0000"},
		Elements: []PlacedElement{
			{ID: "e1", GarmentColor: "#FFFFFF"},
			{ID: "e2", GarmentColor: "#000000"},
			{ID: "e3"},
		},
	}

	assert.Equal(t, []string{"#FF0000", "#000000", "#FFFFFF"}, p.GarmentViews())

	// no selection anywhere falls back to white
	assert.Equal(t, []string{"#FFFFFF"}, (&Project{}).GarmentViews())
}

func TestProjectSourceMap(t *testing.T) {
	p := &Project{Sources: []ArtworkSource{{ID: "s1"}, {ID: "s2"}}}

	m := p.SourceMap()
	require.Len(t, m, 2)

	// entries are addressable views into the project, not copies
	m["s1"].Vectorized = true
	assert.True(t, p.Sources[0].Vectorized)
}
