package bptree

import "bptree/internal/algo"

// Options configures tree behavior.
type Options struct {
	logger          Logger
	searchThreshold int // Key count from which in-node search switches to binary search.
}

// DefaultOptions returns the default configuration.
//
//goland:noinspection GoUnusedExportedFunction
func DefaultOptions() Options {
	return Options{
		logger:          DiscardLogger{},
		searchThreshold: algo.DefaultSearchThreshold,
	}
}

// Option configures tree options using the functional options pattern.
type Option func(*Options)

// WithLogger sets the logger used for structural events such as root splits
// and root collapses. A nil logger discards everything.
//
//goland:noinspection GoUnusedExportedFunction
func WithLogger(l Logger) Option {
	return func(opts *Options) {
		if l == nil {
			l = DiscardLogger{}
		}
		opts.logger = l
	}
}

// WithSearchThreshold sets the number of keys from which a node is binary
// searched instead of scanned. Orders small enough that every node stays
// below the threshold always use a linear scan.
//
//goland:noinspection GoUnusedExportedFunction
func WithSearchThreshold(n int) Option {
	return func(opts *Options) {
		if n < 0 {
			n = 0
		}
		opts.searchThreshold = n
	}
}
