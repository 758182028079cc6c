package storage

import "fmt"

const (
	DefaultMinFillPercent = 0.5
	DefaultMaxFillPercent = 0.95
)

// Options are plain values resolved by the caller; the storage layer never looks up the OS
// page size itself.
type Options struct {
	PageSize       int
	MinFillPercent float64
	MaxFillPercent float64
	// CachePages bounds the page cache. Zero disables it.
	CachePages int
}

func DefaultOptions(pageSize int) Options {
	return Options{
		PageSize:       pageSize,
		MinFillPercent: DefaultMinFillPercent,
		MaxFillPercent: DefaultMaxFillPercent,
	}
}

func (o Options) Validate() error {
	if o.PageSize < MinPageSize || o.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d outside [%d,%d]", ErrInvalidOptions, o.PageSize, MinPageSize, MaxPageSize)
	}
	if o.MinFillPercent <= 0 || o.MaxFillPercent > 1 || o.MinFillPercent >= o.MaxFillPercent {
		return fmt.Errorf("%w: fill percent bounds %.4f/%.4f", ErrInvalidOptions, o.MinFillPercent, o.MaxFillPercent)
	}
	if o.CachePages < 0 {
		return fmt.Errorf("%w: negative cache size %d", ErrInvalidOptions, o.CachePages)
	}
	return nil
}
