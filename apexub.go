package apexub

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/susu753/apexub/builtin"
	"github.com/susu753/apexub/header"
	"github.com/susu753/apexub/resolver"
	"github.com/susu753/apexub/table"
)

type config struct {
	absolute []string
	resolver []resolver.Option
}

// Option configures Load, Open and Default.
type Option func(*config)

// WithAbsolute marks header macros as absolute addresses. It only affects
// .h files.
func WithAbsolute(names ...string) Option {
	return func(c *config) { c.absolute = append(c.absolute, names...) }
}

// WithStrict refuses offsets carried forward from earlier builds.
func WithStrict() Option {
	return func(c *config) { c.resolver = append(c.resolver, resolver.WithStrict()) }
}

// WithLogger sets the logger of the returned resolver.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.resolver = append(c.resolver, resolver.WithLogger(l)) }
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsHeader reports whether path names a legacy C header.
func IsHeader(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".h" || ext == ".hpp"
}

// Load reads a table from path. Headers go through the importer; any
// other file is decoded as JSON or JSONL by extension.
func Load(path string, opts ...Option) (*table.Table, error) {
	c := newConfig(opts)
	if !IsHeader(path) {
		return table.LoadFile(path)
	}
	doc, err := header.ParseFile(path, header.Options{Absolute: c.absolute})
	if err != nil {
		return nil, err
	}
	return table.Build(*doc)
}

// Open loads the table at path and returns a resolver over it.
func Open(path string, opts ...Option) (*resolver.Resolver, error) {
	t, err := Load(path, opts...)
	if err != nil {
		return nil, err
	}
	return resolver.New(t, newConfig(opts).resolver...), nil
}

// Default returns a resolver over the embedded table.
func Default(opts ...Option) (*resolver.Resolver, error) {
	t, err := builtin.Table()
	if err != nil {
		return nil, err
	}
	return resolver.New(t, newConfig(opts).resolver...), nil
}

// SetLogger configures the logger of every package in the module.
// It must be called before any tables are loaded.
func SetLogger(l *zap.Logger) {
	table.SetLogger(l)
	header.SetLogger(l)
	resolver.SetLogger(l)
}
