package analysis

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
)

func TestCache_RoundTrip(t *testing.T) {
	cache, err := NewCache(CacheConfig{
		TTL:    time.Hour,
		DBPath: filepath.Join(t.TempDir(), "analysis.db"),
	})
	require.NoError(t, err)
	defer cache.Close()

	markup := `<svg><path fill="#FF0000"/></svg>`
	colors := api.ColorAnalysis{
		Colors: []api.ColorDeclaration{{ID: "color-1", OriginalText: "#FF0000", Format: api.FormatHex}},
		Class:  api.ClassRGB,
	}
	bounds := api.ContentBounds{MinX: 10, MinY: 5, MaxX: 90, MaxY: 95}

	require.NoError(t, cache.Set(markup, colors, bounds))

	gotColors, gotBounds, err := cache.Get(markup)
	require.NoError(t, err)
	require.NotNil(t, gotColors)
	require.NotNil(t, gotBounds)

	assert.Equal(t, colors, *gotColors)
	assert.Equal(t, bounds, *gotBounds)
}

func TestCache_Miss(t *testing.T) {
	cache, err := NewCache(CacheConfig{
		TTL:    time.Hour,
		DBPath: filepath.Join(t.TempDir(), "analysis.db"),
	})
	require.NoError(t, err)
	defer cache.Close()

	colors, bounds, err := cache.Get("<svg>never cached</svg>")
	require.NoError(t, err)
	assert.Nil(t, colors)
	assert.Nil(t, bounds)
}

func TestCache_DisabledWithZeroTTL(t *testing.T) {
	cache, err := NewCache(CacheConfig{})
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Set("<svg/>", api.ColorAnalysis{}, api.ContentBounds{}))

	colors, bounds, err := cache.Get("<svg/>")
	require.NoError(t, err)
	assert.Nil(t, colors)
	assert.Nil(t, bounds)
}

func TestCache_Clear(t *testing.T) {
	cache, err := NewCache(CacheConfig{
		TTL:    time.Hour,
		DBPath: filepath.Join(t.TempDir(), "analysis.db"),
	})
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Set("<svg/>", api.ColorAnalysis{Class: api.ClassRGB}, api.ContentBounds{}))
	require.NoError(t, cache.Clear())

	colors, _, err := cache.Get("<svg/>")
	require.NoError(t, err)
	assert.Nil(t, colors)
}
