package bitmask

import (
	"log/slog"

	"github.com/gogpu/bitmask/internal/label"
)

// DefaultMaxPixels is the largest mask, in pixels, the default Analyzer will
// allocate label scratch for. The label image alone costs four bytes per pixel.
const DefaultMaxPixels = 1 << 28

// Option configures an Analyzer during creation.
//
// Example:
//
//	a := bitmask.NewAnalyzer(bitmask.WithMaxPixels(4096 * 4096))
//	rects, err := a.BoundingRects(m)
type Option func(*analyzerOptions)

type analyzerOptions struct {
	maxPixels    int
	logger       *slog.Logger
	poolPerClass int
}

func defaultOptions() analyzerOptions {
	return analyzerOptions{
		maxPixels:    DefaultMaxPixels,
		logger:       nil, // falls back to Logger()
		poolPerClass: 4,
	}
}

// WithMaxPixels bounds the mask area the Analyzer accepts for component
// operations. Larger masks fail with ErrAllocation before any work is done.
// Values <= 0 are ignored.
func WithMaxPixels(n int) Option {
	return func(o *analyzerOptions) {
		if n > 0 {
			o.maxPixels = n
		}
	}
}

// WithLogger sets a logger for this Analyzer only, overriding the package
// logger configured through SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *analyzerOptions) {
		o.logger = l
	}
}

// WithScratchRetention sets how many scratch buffers of each size class the
// Analyzer keeps for reuse between calls. Zero disables retention.
func WithScratchRetention(n int) Option {
	return func(o *analyzerOptions) {
		if n >= 0 {
			o.poolPerClass = n
		}
	}
}

// Analyzer runs component, contour and moment analysis with a fixed
// configuration. An Analyzer holds no per-call state and is safe for
// concurrent use; distinct calls never share scratch memory.
type Analyzer struct {
	maxPixels int
	logger    *slog.Logger
	scratch   *label.Pool
}

// NewAnalyzer creates an Analyzer with the given options.
func NewAnalyzer(opts ...Option) *Analyzer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Analyzer{
		maxPixels: o.maxPixels,
		logger:    o.logger,
		scratch:   label.NewPool(o.poolPerClass),
	}
}

func (a *Analyzer) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return Logger()
}

// defaultAnalyzer backs the package-level functions.
var defaultAnalyzer = NewAnalyzer()
