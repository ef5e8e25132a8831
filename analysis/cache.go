package analysis

import (
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
)

// CacheConfig holds analysis cache configuration
type CacheConfig struct {
	TTL    time.Duration // Cache time-to-live (0 means no caching)
	DBPath string        // Database file path
}

// Cache stores color analysis and content bounds keyed by artwork
// content, so re-uploads of the same file skip the parse entirely.
type Cache struct {
	db     *sql.DB
	config CacheConfig
}

// cachedAnalysis is the stored row shape.
type cachedAnalysis struct {
	Analysis api.ColorAnalysis `json:"analysis"`
	Bounds   api.ContentBounds `json:"bounds"`
}

// NewCache creates a new analysis cache
func NewCache(config CacheConfig) (*Cache, error) {
	// If TTL is 0, caching is disabled
	if config.TTL == 0 {
		return &Cache{
			config: config,
		}, nil
	}

	if config.DBPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		config.DBPath = filepath.Join(homeDir, ".cache", "transfers-analysis.db")
	}

	// Ensure cache directory exists
	cacheDir := filepath.Dir(config.DBPath)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set pragmas for performance
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	cache := &Cache{
		db:     db,
		config: config,
	}

	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return cache, nil
}

// Close closes the database connection
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Key returns the cache key for a piece of artwork markup.
func (c *Cache) Key(markup string) string {
	hash := sha256.Sum256([]byte(markup))
	return fmt.Sprintf("%x", hash)
}

// Get retrieves a cached analysis result. A nil result with nil error
// means a cache miss.
func (c *Cache) Get(markup string) (*api.ColorAnalysis, *api.ContentBounds, error) {
	if c.config.TTL == 0 || c.db == nil {
		return nil, nil, nil
	}

	query := `
		SELECT result_json
		FROM analysis_cache
		WHERE cache_key = ?
		  AND (expires_at IS NULL OR expires_at > CURRENT_TIMESTAMP)
		LIMIT 1
	`

	var resultJSON string
	err := c.db.QueryRow(query, c.Key(markup)).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var row cachedAnalysis
	if err := json.Unmarshal([]byte(resultJSON), &row); err != nil {
		return nil, nil, fmt.Errorf("failed to parse cached analysis: %w", err)
	}

	// Update access time
	_, _ = c.db.Exec("UPDATE analysis_cache SET accessed_at = CURRENT_TIMESTAMP WHERE cache_key = ?", c.Key(markup))

	return &row.Analysis, &row.Bounds, nil
}

// Set stores an analysis result in the cache
func (c *Cache) Set(markup string, analysis api.ColorAnalysis, bounds api.ContentBounds) error {
	if c.config.TTL == 0 || c.db == nil {
		return nil
	}

	resultJSON, err := json.Marshal(cachedAnalysis{Analysis: analysis, Bounds: bounds})
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	expiresAt := time.Now().Add(c.config.TTL)

	query := `
		INSERT OR REPLACE INTO analysis_cache (
			cache_key, result_json, cached_at, expires_at, accessed_at
		) VALUES (?, ?, CURRENT_TIMESTAMP, ?, CURRENT_TIMESTAMP)
	`

	if _, err := c.db.Exec(query, c.Key(markup), string(resultJSON), expiresAt); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// Clear removes all cache entries
func (c *Cache) Clear() error {
	if c.db == nil {
		return nil
	}

	if _, err := c.db.Exec("DELETE FROM analysis_cache"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// initSchema creates the database schema
func (c *Cache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_cache (
		cache_key TEXT PRIMARY KEY,
		result_json TEXT,
		cached_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMP,
		accessed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analysis_cache_expires
		ON analysis_cache(expires_at);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}
