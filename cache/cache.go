// Package cache keeps compiled patterns in a bounded in-memory cache.
//
// Programs that receive patterns at run time (rule files, user queries)
// tend to see the same few patterns over and over. A Cache compiles each
// (source, flags) pair once and hands out the shared *modregex.Regexp,
// which is safe for concurrent use.
//
//	c := cache.New(128)
//	re, err := c.Get(`(?i:error)\s+(\d+)`, "")
//
// Hits, misses, compile failures and the current size are exported as
// Prometheus metrics through Collectors.
package cache

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/coregx/modregex"
	"github.com/coregx/modregex/meta"
)

// Config configures a Cache.
type Config struct {
	// Name is attached to every metric as the "name" label.
	Name string

	// Size is the maximum number of compiled patterns kept.
	Size int

	// Strategy is the eviction policy: "LRU" (default), "LFU" or "ARC".
	Strategy string

	// TTL evicts entries this long after they were compiled. Zero keeps
	// them until they are evicted by Strategy.
	TTL time.Duration

	// Engine is the configuration every pattern is compiled with.
	Engine meta.Config
}

// DefaultConfig returns an LRU configuration for size patterns.
func DefaultConfig(size int) Config {
	return Config{
		Name:     "default",
		Size:     size,
		Strategy: "LRU",
		Engine:   meta.DefaultConfig(),
	}
}

// Cache is a bounded cache of compiled patterns. It is safe for
// concurrent use.
type Cache struct {
	store  gcache.Cache
	config Config

	hits          prometheus.CounterFunc
	misses        prometheus.CounterFunc
	compileErrors prometheus.Counter
	size          prometheus.GaugeFunc
}

// New returns an LRU cache holding at most size patterns. It panics if
// size is not positive.
func New(size int) *Cache {
	c, err := NewWithConfig(DefaultConfig(size))
	if err != nil {
		panic(err)
	}
	return c
}

// NewWithConfig returns a cache built from config.
func NewWithConfig(config Config) (*Cache, error) {
	if config.Size <= 0 {
		return nil, fmt.Errorf("cache: size must be positive, got %d", config.Size)
	}
	if err := config.Engine.Validate(); err != nil {
		return nil, err
	}

	c := &Cache{config: config}

	builder := gcache.New(config.Size)
	switch strings.ToUpper(config.Strategy) {
	case "", "LRU":
		builder = builder.LRU()
	case "LFU":
		builder = builder.LFU()
	case "ARC":
		builder = builder.ARC()
	default:
		return nil, fmt.Errorf("cache: unknown strategy %q", config.Strategy)
	}
	if config.TTL > 0 {
		builder = builder.Expiration(config.TTL)
	}
	c.store = builder.LoaderFunc(c.load).Build()

	labels := prometheus.Labels{"name": config.Name}
	c.hits = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   "modregex",
		Subsystem:   "cache",
		Name:        "hits_total",
		Help:        "Pattern lookups served from the cache.",
		ConstLabels: labels,
	}, func() float64 { return float64(c.store.HitCount()) })
	c.misses = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   "modregex",
		Subsystem:   "cache",
		Name:        "misses_total",
		Help:        "Pattern lookups that had to compile.",
		ConstLabels: labels,
	}, func() float64 { return float64(c.store.MissCount()) })
	c.compileErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "modregex",
		Subsystem:   "cache",
		Name:        "compile_errors_total",
		Help:        "Patterns that failed to compile.",
		ConstLabels: labels,
	})
	c.size = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   "modregex",
		Subsystem:   "cache",
		Name:        "size",
		Help:        "Compiled patterns currently cached.",
		ConstLabels: labels,
	}, func() float64 { return float64(c.store.Len(true)) })

	return c, nil
}

// Key returns the cache key of a pattern.
func Key(source, flags string) string {
	return flags + "/" + source
}

// Get returns the compiled pattern for source and flags, compiling it on
// the first request. Compile errors are returned as from modregex.Compile
// and are not cached.
func (c *Cache) Get(source, flags string) (*modregex.Regexp, error) {
	if strings.Contains(flags, "/") {
		c.compileErrors.Inc()
		return modregex.CompileWithConfig(source, flags, c.config.Engine)
	}
	v, err := c.store.Get(Key(source, flags))
	if err != nil {
		return nil, err
	}
	return v.(*modregex.Regexp), nil
}

// MustGet is like Get but panics on a compile error.
func (c *Cache) MustGet(source, flags string) *modregex.Regexp {
	re, err := c.Get(source, flags)
	if err != nil {
		panic(err)
	}
	return re
}

func (c *Cache) load(key interface{}) (interface{}, error) {
	k, ok := key.(string)
	if !ok {
		return nil, fmt.Errorf("cache: unexpected key type %T", key)
	}
	flags, source, found := strings.Cut(k, "/")
	if !found {
		return nil, errors.New("cache: malformed key " + k)
	}
	re, err := modregex.CompileWithConfig(source, flags, c.config.Engine)
	if err != nil {
		c.compileErrors.Inc()
		return nil, err
	}
	return re, nil
}

// Has reports whether the pattern is cached, without compiling it.
func (c *Cache) Has(source, flags string) bool {
	return c.store.Has(Key(source, flags))
}

// Remove evicts one pattern and reports whether it was present.
func (c *Cache) Remove(source, flags string) bool {
	return c.store.Remove(Key(source, flags))
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	return c.store.Len(true)
}

// Purge drops every cached pattern.
func (c *Cache) Purge() {
	c.store.Purge()
}

// HitRate returns the fraction of lookups served without compiling.
func (c *Cache) HitRate() float64 {
	return c.store.HitRate()
}

// Collectors returns the cache metrics for registration:
//
//	prometheus.MustRegister(c.Collectors()...)
func (c *Cache) Collectors() []prometheus.Collector {
	return []prometheus.Collector{c.hits, c.misses, c.compileErrors, c.size}
}
