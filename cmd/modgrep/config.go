package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coregx/modregex/meta"
)

// fileConfig is the layout of the --config file:
//
//	flags: im
//	cache_size: 32
//	engine:
//	  max_steps: 1000000
//	  max_depth: 100000
//	  enable_prefilter: true
//
// Unset engine keys keep their meta.DefaultConfig values.
type fileConfig struct {
	Flags     string       `yaml:"flags"`
	CacheSize int          `yaml:"cache_size"`
	Engine    engineConfig `yaml:"engine"`
}

type engineConfig struct {
	EnablePrefilter          *bool `yaml:"enable_prefilter"`
	MinLiteralLen            *int  `yaml:"min_literal_len"`
	MaxLiterals              *int  `yaml:"max_literals"`
	MaxLiteralLen            *int  `yaml:"max_literal_len"`
	MaxRecursionDepth        *int  `yaml:"max_recursion_depth"`
	MaxSteps                 *int  `yaml:"max_steps"`
	MaxDepth                 *int  `yaml:"max_depth"`
	UnsetBackrefMatchesEmpty *bool `yaml:"unset_backref_matches_empty"`
}

// settings is the effective configuration after the file has been applied.
type settings struct {
	flags     string
	cacheSize int
	engine    meta.Config
}

func defaultSettings() settings {
	return settings{
		cacheSize: 16,
		engine:    meta.DefaultConfig(),
	}
}

// loadSettings reads path, or returns the defaults when path is empty.
func loadSettings(path string) (settings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return s, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return s, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	s.flags = fc.Flags
	if fc.CacheSize > 0 {
		s.cacheSize = fc.CacheSize
	}
	fc.Engine.apply(&s.engine)
	if err := s.engine.Validate(); err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

func (e engineConfig) apply(c *meta.Config) {
	setBool(&c.EnablePrefilter, e.EnablePrefilter)
	setInt(&c.MinLiteralLen, e.MinLiteralLen)
	setInt(&c.MaxLiterals, e.MaxLiterals)
	setInt(&c.MaxLiteralLen, e.MaxLiteralLen)
	setInt(&c.MaxRecursionDepth, e.MaxRecursionDepth)
	setInt(&c.MaxSteps, e.MaxSteps)
	setInt(&c.MaxDepth, e.MaxDepth)
	setBool(&c.UnsetBackrefMatchesEmpty, e.UnsetBackrefMatchesEmpty)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
