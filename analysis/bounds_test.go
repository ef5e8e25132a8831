package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentBounds_ExcludesBackground(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
    <rect x="0" y="0" width="100" height="100" fill="#FFFFFF"/>
    <path d="M20 20 L60 60 L20 60 Z" fill="#FF0000"/>
</svg>`

	b := ContentBounds(markup)
	assert.InDelta(t, 20, b.MinX, 0.001)
	assert.InDelta(t, 20, b.MinY, 0.001)
	assert.InDelta(t, 60, b.MaxX, 0.001)
	assert.InDelta(t, 60, b.MaxY, 0.001)
}

func TestContentBounds_WhiteRectanglePathAsBackground(t *testing.T) {
	// Vector editors often emit the page background as a white path
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100">
    <path d="M0 0 L200 0 L200 100 L0 100 Z" fill="white"/>
    <path d="M30 40 L50 40 L50 70 L30 70 Z" fill="#000000"/>
</svg>`

	b := ContentBounds(markup)
	assert.InDelta(t, 30, b.MinX, 0.001)
	assert.InDelta(t, 40, b.MinY, 0.001)
	assert.InDelta(t, 50, b.MaxX, 0.001)
	assert.InDelta(t, 70, b.MaxY, 0.001)
}

func TestContentBounds_WhiteShapeInsideArtworkKept(t *testing.T) {
	// A white shape that does not span the page is artwork, not background
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
    <rect x="40" y="40" width="10" height="10" fill="#FFFFFF"/>
    <path d="M20 20 L80 80" fill="#333333"/>
</svg>`

	b := ContentBounds(markup)
	assert.InDelta(t, 20, b.MinX, 0.001)
	assert.InDelta(t, 80, b.MaxX, 0.001)
}

func TestContentBounds_FallbackWhenNoInk(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
    <rect x="0" y="0" width="100" height="100" fill="#FFFFFF"/>
</svg>`

	b := ContentBounds(markup)
	assert.InDelta(t, 0, b.MinX, 0.001)
	assert.InDelta(t, FallbackBoundsSize, b.MaxX, 0.001)
	assert.InDelta(t, FallbackBoundsSize, b.MaxY, 0.001)
	assert.InDelta(t, 100, b.DocWidth, 0.001)
}

func TestContentBounds_Deterministic(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
    <path d="M10 5 L90 95" fill="#123456"/>
</svg>`

	first := ContentBounds(markup)
	second := ContentBounds(markup)
	assert.Equal(t, first, second)

	assert.True(t, first.HasOffset())
	assert.InDelta(t, 10, first.MinX, 0.001)
	assert.InDelta(t, 5, first.MinY, 0.001)

	// the bounds carry the document span they were measured in
	assert.InDelta(t, 100, first.DocWidth, 0.001)
	assert.InDelta(t, 100, first.DocHeight, 0.001)
}

func TestContentBounds_SkipsGlyphDefinitions(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
    <defs>
        <path id="glyph0" d="M500 500 L900 900" fill="#000000"/>
    </defs>
    <use href="#glyph0"/>
    <path d="M10 10 L40 40" fill="#000000"/>
</svg>`

	b := ContentBounds(markup)
	assert.InDelta(t, 10, b.MinX, 0.001)
	assert.InDelta(t, 40, b.MaxX, 0.001)
}

func TestContentBounds_ReclustersStrayGeometry(t *testing.T) {
	// A single coordinate far outside the document must not blow up the box
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
    <path d="M10 10 L90 10 L90 90 L10 90 L20 20 L80 80 Z" fill="#FF0000"/>
    <path d="M50000 50000" fill="#FF0000"/>
</svg>`

	b := ContentBounds(markup)
	assert.InDelta(t, 10, b.MinX, 0.001)
	assert.InDelta(t, 90, b.MaxX, 0.001)
	assert.InDelta(t, 90, b.MaxY, 0.001)
}
