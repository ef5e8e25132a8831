package convert

import (
	"context"
	"fmt"
	"sync"

	"github.com/flanksource/commons/logger"
)

// Manager manages multiple converters with fallback support
type Manager struct {
	converters []Converter
	preferred  string
	mu         sync.RWMutex
}

// NewManager creates a converter manager. With no arguments it
// auto-detects what the system offers; passing converters explicitly
// pins the fallback order (useful in tests).
func NewManager(converters ...Converter) *Manager {
	m := &Manager{converters: converters}
	if len(m.converters) == 0 {
		m.autoDetect()
	}
	return m
}

// autoDetect discovers available converters on the system. The raster
// fallback is always last: it never fails availability but trades
// away vector fidelity.
func (m *Manager) autoDetect() {
	candidates := []Converter{
		NewRSVGConverter(),
		NewInkscapeConverter(),
		NewChromiumConverter(),
		NewRasterConverter(),
	}

	for _, converter := range candidates {
		if converter.IsAvailable() {
			m.converters = append(m.converters, converter)
		}
	}
}

// SetPreferred sets the preferred converter by name
func (m *Manager) SetPreferred(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, converter := range m.converters {
		if converter.Name() == name {
			m.preferred = name
			return nil
		}
	}

	return fmt.Errorf("converter '%s' not available", name)
}

// Available returns the names of registered converters in fallback order
func (m *Manager) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.converters))
	for i, converter := range m.converters {
		names[i] = converter.Name()
	}
	return names
}

// Best returns the first converter that supports the given format,
// honoring the preferred converter if one is set
func (m *Manager) Best(format string) (Converter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.converters) == 0 {
		return nil, fmt.Errorf("no converters available")
	}

	if m.preferred != "" {
		for _, converter := range m.converters {
			if converter.Name() == m.preferred && supportsFormat(converter, format) {
				return converter, nil
			}
		}
	}

	for _, converter := range m.converters {
		if supportsFormat(converter, format) {
			return converter, nil
		}
	}

	return nil, fmt.Errorf("no converter supports format '%s'", format)
}

// Convert converts using the best available converter, without fallback
func (m *Manager) Convert(ctx context.Context, svgPath, outputPath string, options *Options) error {
	if options == nil {
		options = DefaultOptions()
	}

	converter, err := m.Best(options.Format)
	if err != nil {
		return fmt.Errorf("failed to get converter: %w", err)
	}

	return converter.Convert(ctx, svgPath, outputPath, options)
}

// ConvertWithFallback attempts conversion with fallback to other converters
func (m *Manager) ConvertWithFallback(ctx context.Context, svgPath, outputPath string, options *Options) error {
	m.mu.RLock()
	converters := make([]Converter, len(m.converters))
	copy(converters, m.converters)
	m.mu.RUnlock()

	if options == nil {
		options = DefaultOptions()
	}

	var lastErr error

	for _, converter := range converters {
		if !supportsFormat(converter, options.Format) {
			continue
		}

		err := converter.Convert(ctx, svgPath, outputPath, options)
		if err == nil {
			return nil
		}

		logger.Warnf("converter %s failed for %s, trying next: %v", converter.Name(), svgPath, err)
		lastErr = fmt.Errorf("%s: %w", converter.Name(), err)
	}

	if lastErr == nil {
		return fmt.Errorf("no converter supports format '%s'", options.Format)
	}

	return fmt.Errorf("all converters failed, last error: %w", lastErr)
}

// Close closes any converters that need cleanup (like Chromium)
func (m *Manager) Close() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, converter := range m.converters {
		if closer, ok := converter.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				return err
			}
		}
	}

	return nil
}

func supportsFormat(converter Converter, format string) bool {
	for _, supported := range converter.SupportedFormats() {
		if supported == format {
			return true
		}
	}
	return false
}
