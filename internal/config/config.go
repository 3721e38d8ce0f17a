package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/containerd/errdefs"

	"github.com/a1s/ntable/internal/aws"
	"github.com/a1s/ntable/internal/column"
	"github.com/a1s/ntable/internal/config/data"
	"github.com/a1s/ntable/internal/dao"
	"github.com/a1s/ntable/internal/model"
	"github.com/a1s/ntable/internal/render"
)

// Config is the root configuration for the application.
type Config struct {
	Ntable  *Ntable                  `yaml:"ntable"`
	Params  map[string]*Preset       `yaml:"params"`
	Columns map[string][]column.Decl `yaml:"columns"`

	mx sync.RWMutex
}

// Table is a resolved binding: the preset and columns a table is built from.
type Table struct {
	Binding model.Binding
	Preset  *Preset
	Columns []column.Decl
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		Ntable:  NewNtable(),
		Params:  make(map[string]*Preset),
		Columns: make(map[string][]column.Decl),
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept unless force is set.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s: %w", path, errdefs.ErrNotFound)
	}

	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if c.Ntable == nil {
		c.Ntable = NewNtable()
	}
	c.Ntable.Validate()

	return c.validateLocked()
}

// Validate checks every preset.
func (c *Config) Validate() error {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.validateLocked()
}

func (c *Config) validateLocked() error {
	var errs []error
	for _, name := range sortedKeys(c.Params) {
		p := c.Params[name]
		if p == nil {
			errs = append(errs, fmt.Errorf("params %q is empty: %w", name, errdefs.ErrInvalidArgument))
			continue
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("params %q: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// Refine applies CLI flags, resolves binding aliases and checks the AWS
// profile when the bound preset reads from S3.
// Precedence: CLI flag > config file > alias expansion.
func (c *Config) Refine(flags *data.Flags, aliases *Aliases, profiles aws.ProfileFiles) (*Table, error) {
	if c.Ntable == nil {
		return nil, fmt.Errorf("config.Ntable is nil")
	}
	c.Ntable.Override(flags)

	expr := c.Ntable.ActiveBinding()
	if aliases != nil {
		expr = aliases.Get(expr)
	}
	t, err := c.Resolve(expr)
	if err != nil {
		return nil, err
	}
	if flags != nil {
		if IsIntSet(flags.Page) {
			t.Preset.Page = *flags.Page
		}
		if IsIntSet(flags.Count) {
			t.Preset.Count = *flags.Count
		}
	}

	src, err := t.Preset.SourceSpec()
	if err != nil {
		return nil, err
	}
	if src.Kind == dao.S3Source {
		if err := c.Ntable.refineAWS(profiles); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Resolve parses a binding expression and looks up its preset and columns.
// Column sets not in the config fall back to the built-in ones.
// The returned preset is a copy.
func (c *Config) Resolve(expr string) (*Table, error) {
	b, err := model.ParseBinding(expr)
	if err != nil {
		return nil, err
	}

	c.mx.RLock()
	defer c.mx.RUnlock()

	p, ok := c.Params[b.Params]
	if !ok || p == nil {
		return nil, fmt.Errorf("unknown params %q in binding %q: %w", b.Params, b, errdefs.ErrInvalidArgument)
	}
	cols, ok := c.Columns[b.Columns]
	if !ok {
		cols, ok = render.BuiltinColumns(b.Columns)
	}
	if !ok {
		return nil, fmt.Errorf("unknown columns %q in binding %q: %w", b.Columns, b, errdefs.ErrInvalidArgument)
	}
	preset := *p

	return &Table{Binding: b, Preset: &preset, Columns: cols}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
