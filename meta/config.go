// Package meta implements the engine orchestrator behind the public API.
//
// The meta engine coordinates three layers:
//   - Literal extraction: prefix literals computed from the resolved tree
//   - Prefilter: fast candidate finding over those literals (optional)
//   - Backtracking matcher: verifies each candidate start position
//
// Strategy selection is based on:
//   - Start anchoring (a non-multiline "^" heading every alternative)
//   - The sticky flag (only the requested position is tried)
//   - Prefilter availability and kind
//
// The engine is immutable after compilation and safe for concurrent use.
// Per-search state comes from a sync.Pool.
package meta

import "github.com/coregx/modregex/syntax"

// Config controls compilation and matching limits.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.MaxSteps = 1_000_000 // Tighter budget for untrusted patterns
//	engine, err := meta.CompileWithConfig(`(?i:ab)+c`, 0, config)
type Config struct {
	// EnablePrefilter enables literal-based prefiltering.
	// When false, every start position is tried.
	// Default: true
	EnablePrefilter bool

	// MinLiteralLen is the minimum length of the shortest prefix literal
	// for a prefilter to be built.
	// Default: 1
	MinLiteralLen int

	// MaxLiterals limits the number of prefix literals extracted.
	// Default: 64
	MaxLiterals int

	// MaxLiteralLen limits the length of each extracted literal.
	// Default: 64
	MaxLiteralLen int

	// MaxRecursionDepth limits group nesting while parsing.
	// Default: 1000
	MaxRecursionDepth int

	// MaxSteps bounds the node visits of one top-level search across all
	// start positions. 0 means unlimited.
	// Default: 50,000,000
	MaxSteps int

	// MaxDepth bounds the matcher's recursion depth. 0 means unlimited.
	// Default: 500,000
	MaxDepth int

	// UnsetBackrefMatchesEmpty makes a backreference to a group that did
	// not participate match the empty string instead of failing.
	// Default: false
	UnsetBackrefMatchesEmpty bool
}

// DefaultConfig returns a configuration with sensible defaults.
//
// The step budget stops catastrophic backtracking on hostile input while
// leaving ordinary searches over megabytes of text unaffected. The depth
// budget keeps the goroutine stack well below the runtime's limit.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter:   true,
		MinLiteralLen:     1,
		MaxLiterals:       64,
		MaxLiteralLen:     64,
		MaxRecursionDepth: syntax.DefaultMaxDepth,
		MaxSteps:          50_000_000,
		MaxDepth:          500_000,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MinLiteralLen: 1 to 64
//   - MaxLiterals: 1 to 1,000
//   - MaxLiteralLen: 1 to 256
//   - MaxRecursionDepth: 10 to 10,000
//   - MaxSteps: 0 or more
//   - MaxDepth: 0 to 10,000,000
func (c Config) Validate() error {
	if c.EnablePrefilter {
		if c.MinLiteralLen < 1 || c.MinLiteralLen > 64 {
			return &ConfigError{
				Field:   "MinLiteralLen",
				Message: "must be between 1 and 64",
			}
		}
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
		if c.MaxLiteralLen < 1 || c.MaxLiteralLen > 256 {
			return &ConfigError{
				Field:   "MaxLiteralLen",
				Message: "must be between 1 and 256",
			}
		}
	}

	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 10_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 10 and 10,000",
		}
	}

	if c.MaxSteps < 0 {
		return &ConfigError{
			Field:   "MaxSteps",
			Message: "must not be negative",
		}
	}

	if c.MaxDepth < 0 || c.MaxDepth > 10_000_000 {
		return &ConfigError{
			Field:   "MaxDepth",
			Message: "must be between 0 and 10,000,000",
		}
	}

	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexp: invalid config: " + e.Field + ": " + e.Message
}
