package main

import "io"

// DatabaseConfig holds tunables for opening a database file.
type DatabaseConfig struct {
	PageCacheSize  int
	MaxConcurrency int
	ValidationMode ValidationLevel
}

// ValidationLevel is a validation strictness setting. It is stored in
// DatabaseConfig; the header and page decoders do not read it and always
// apply the same checks.
type ValidationLevel int

const (
	ValidationNone ValidationLevel = iota
	ValidationBasic
	ValidationStrict
)

// DatabaseOption is a functional option for DatabaseConfig.
type DatabaseOption func(*DatabaseConfig)

// WithPageCacheSize sets the size of the optional page memo (0 disables it).
// The first size distinct pages read are kept and never evicted; later pages
// are not memoised. The core's traversal algorithms do not require a cache
// (§5); this only changes whether repeated descents into the same page
// re-read it from the byte source.
func WithPageCacheSize(size int) DatabaseOption {
	return func(cfg *DatabaseConfig) { cfg.PageCacheSize = size }
}

// WithMaxConcurrency sets DatabaseConfig.MaxConcurrency. Nothing in this
// program reads the field; the query path is single-threaded (§5).
func WithMaxConcurrency(max int) DatabaseOption {
	return func(cfg *DatabaseConfig) { cfg.MaxConcurrency = max }
}

// WithValidation sets DatabaseConfig.ValidationMode (not read by the decoders).
func WithValidation(level ValidationLevel) DatabaseOption {
	return func(cfg *DatabaseConfig) { cfg.ValidationMode = level }
}

// DefaultDatabaseConfig returns the default configuration.
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		PageCacheSize:  0,
		MaxConcurrency: 1,
		ValidationMode: ValidationBasic,
	}
}

// ResourceManager closes managed resources in LIFO order.
type ResourceManager struct {
	resources []io.Closer
}

// NewResourceManager creates an empty resource manager.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{resources: make([]io.Closer, 0, 1)}
}

// Add registers a closer to be closed on Close, LIFO.
func (rm *ResourceManager) Add(resource io.Closer) {
	rm.resources = append(rm.resources, resource)
}

// Close closes every managed resource in reverse registration order,
// returning the first error encountered (if any) after attempting all of them.
func (rm *ResourceManager) Close() error {
	var first error
	for i := len(rm.resources) - 1; i >= 0; i-- {
		if err := rm.resources[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
