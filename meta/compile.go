package meta

import (
	"errors"

	"github.com/coregx/modregex/backtrack"
	"github.com/coregx/modregex/literal"
	"github.com/coregx/modregex/prefilter"
	"github.com/coregx/modregex/syntax"
)

// Compile compiles a pattern with the default configuration.
//
// Example:
//
//	engine, err := meta.Compile(`^a$|(?-m:^b$)`, syntax.FlagMultiline)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, flags syntax.Flags) (*Engine, error) {
	return CompileWithConfig(pattern, flags, DefaultConfig())
}

// CompileWithConfig compiles a pattern with a custom configuration.
//
// The pipeline is parse → resolve modifiers → extract prefix literals →
// build prefilter → select strategy. Syntax errors are returned wrapped in
// a *CompileError; an invalid config is returned as a *ConfigError.
func CompileWithConfig(pattern string, flags syntax.Flags, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	tree, err := syntax.ParseDepth(pattern, flags, config.MaxRecursionDepth)
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     err,
		}
	}
	syntax.Resolve(tree.Root, flags.Modifiers())

	matcher := backtrack.New(tree, backtrack.Config{
		MaxSteps:                 config.MaxSteps,
		MaxDepth:                 config.MaxDepth,
		UnsetBackrefMatchesEmpty: config.UnsetBackrefMatchesEmpty,
	})

	pf := buildPrefilter(tree, config)
	strategy := SelectStrategy(tree, pf)
	if strategy == UseSticky || strategy == UseAnchoredStart {
		// Only one position is ever tried.
		pf = nil
	}

	return &Engine{
		pattern:   pattern,
		tree:      tree,
		matcher:   matcher,
		prefilter: pf,
		strategy:  strategy,
		config:    config,
		statePool: newSearchStatePool(pf),
	}, nil
}

// buildPrefilter extracts prefix literals and builds a prefilter for them.
// Returns nil when prefiltering is disabled or the literals are unusable.
func buildPrefilter(tree *syntax.Tree, config Config) prefilter.Prefilter {
	if !config.EnablePrefilter {
		return nil
	}
	extractor := literal.New(literal.ExtractorConfig{
		MaxLiterals:   config.MaxLiterals,
		MaxLiteralLen: config.MaxLiteralLen,
		MaxClassSize:  literal.DefaultConfig().MaxClassSize,
	})
	prefixes := extractor.ExtractPrefixes(tree.Root)
	if prefixes == nil || prefixes.MinLen() < config.MinLiteralLen {
		return nil
	}
	return prefilter.Build(prefixes)
}

// CompileError represents a pattern compilation error.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
// Syntax errors are returned unchanged; they already carry the pattern.
func (e *CompileError) Error() string {
	var syntaxErr *syntax.Error
	if errors.As(e.Err, &syntaxErr) {
		return e.Err.Error()
	}
	return "regexp: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}
