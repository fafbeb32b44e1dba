package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coregx/modregex"
	"github.com/coregx/modregex/cache"
)

func (a *app) run(cmd *cobra.Command, args []string) error {
	patterns := a.opts.patterns
	if len(patterns) == 0 {
		if len(args) == 0 {
			return errors.New("missing pattern")
		}
		patterns, args = args[:1], args[1:]
	}

	s, err := loadSettings(a.opts.configPath)
	if err != nil {
		return err
	}
	flags := s.flags
	if cmd.Flags().Changed("flags") {
		flags = a.opts.flags
	}

	regexps, err := a.compile(patterns, flags, s)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	sc := &scanner{
		regexps: regexps,
		opts:    a.opts,
		prefix:  len(args) > 1,
		logger:  a.logger,
	}
	matched, err := a.searchFiles(cmd.Context(), sc, args)

	for _, re := range regexps {
		st := re.Stats()
		a.logger.Debug("pattern stats",
			zap.Stringer("pattern", re),
			zap.Uint64("searches", st.Searches),
			zap.Uint64("attempts", st.Attempts),
			zap.Uint64("steps", st.Steps),
			zap.Uint64("prefilter_hits", st.PrefilterHits),
			zap.Uint64("prefilter_misses", st.PrefilterMisses),
			zap.Uint64("budget_exceeded", st.BudgetExceeded),
		)
	}

	if err != nil {
		return err
	}
	if !matched {
		return errNoMatch
	}
	return nil
}

// compile compiles every pattern through a cache so repeated -e values
// share one Regexp.
func (a *app) compile(patterns []string, flags string, s settings) ([]*modregex.Regexp, error) {
	c, err := cache.NewWithConfig(cache.Config{
		Name:     "modgrep",
		Size:     s.cacheSize,
		Strategy: "LRU",
		Engine:   s.engine,
	})
	if err != nil {
		return nil, err
	}

	regexps := make([]*modregex.Regexp, 0, len(patterns))
	seen := make(map[*modregex.Regexp]bool, len(patterns))
	for _, p := range patterns {
		re, err := c.Get(p, flags)
		if err != nil {
			return nil, err
		}
		if seen[re] {
			continue
		}
		seen[re] = true
		regexps = append(regexps, re)
	}
	a.logger.Debug("compiled patterns",
		zap.Int("patterns", len(patterns)),
		zap.Int("unique", len(regexps)),
		zap.String("flags", flags),
		zap.Float64("cache_hit_rate", c.HitRate()),
	)
	return regexps, nil
}

type fileResult struct {
	output  []byte
	matched bool
	err     error
}

// searchFiles scans names concurrently and writes their output in
// argument order. A file that cannot be read does not stop the others;
// the read errors are returned together at the end.
func (a *app) searchFiles(ctx context.Context, sc *scanner, names []string) (bool, error) {
	results := make([]fileResult, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := a.read(name)
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i] = sc.scan(name, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	matched := false
	var errs []error
	for i, r := range results {
		if r.err != nil {
			a.logger.Error("cannot read input", zap.String("file", names[i]), zap.Error(r.err))
			errs = append(errs, r.err)
			continue
		}
		if _, err := a.stdout.Write(r.output); err != nil {
			return matched, err
		}
		matched = matched || r.matched
	}
	return matched, errors.Join(errs...)
}

func (a *app) read(name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("(standard input): %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// scanner matches one input against all patterns and renders its output.
type scanner struct {
	regexps []*modregex.Regexp
	opts    options
	prefix  bool
	logger  *zap.Logger
}

func (sc *scanner) scan(name, text string) fileResult {
	var out bytes.Buffer
	count := 0

	if sc.opts.whole {
		count = sc.scanText(&out, name, 0, text)
	} else {
		lines := strings.Split(text, "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		for i, line := range lines {
			if sc.scanText(&out, name, i+1, line) > 0 {
				count++
			}
		}
	}

	if sc.opts.count {
		out.Reset()
		sc.writePrefix(&out, name, 0)
		out.WriteString(strconv.Itoa(count))
		out.WriteByte('\n')
	}
	return fileResult{output: out.Bytes(), matched: count > 0}
}

// scanText writes the output for one line (lineno > 0) or one whole input
// (lineno == 0) and returns the number of matches found: lines count once,
// whole inputs count every match.
func (sc *scanner) scanText(out *bytes.Buffer, name string, lineno int, text string) int {
	if sc.opts.onlyMatching || (sc.opts.whole && sc.opts.count) {
		n := 0
		for _, re := range sc.regexps {
			results, err := re.FindAllErr(text, -1)
			sc.checkBudget(err, re, name, lineno)
			for _, r := range results {
				if r.Index[0] == r.Index[1] {
					continue
				}
				n++
				if sc.opts.onlyMatching {
					sc.writeLine(out, name, lineno, r.String())
				}
			}
		}
		if lineno > 0 {
			return min(n, 1)
		}
		return n
	}

	for _, re := range sc.regexps {
		ok, err := re.TestErr(text)
		sc.checkBudget(err, re, name, lineno)
		if ok {
			sc.writeLine(out, name, lineno, text)
			return 1
		}
	}
	return 0
}

func (sc *scanner) checkBudget(err error, re *modregex.Regexp, name string, lineno int) {
	if err == nil {
		return
	}
	sc.logger.Warn("search budget exceeded; treating as no match",
		zap.String("file", name),
		zap.Int("line", lineno),
		zap.Stringer("pattern", re),
		zap.Error(err),
	)
}

func (sc *scanner) writeLine(out *bytes.Buffer, name string, lineno int, text string) {
	sc.writePrefix(out, name, lineno)
	out.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		out.WriteByte('\n')
	}
}

func (sc *scanner) writePrefix(out *bytes.Buffer, name string, lineno int) {
	if sc.prefix {
		if name == "-" {
			name = "(standard input)"
		}
		out.WriteString(name)
		out.WriteByte(':')
	}
	if sc.opts.lineNumber && lineno > 0 {
		out.WriteString(strconv.Itoa(lineno))
		out.WriteByte(':')
	}
}
