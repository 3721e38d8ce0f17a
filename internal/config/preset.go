package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/containerd/errdefs"

	"github.com/a1s/ntable/internal/dao"
	"github.com/a1s/ntable/internal/params"
)

// Preset declares a named params instance.
type Preset struct {
	Page        int            `yaml:"page,omitempty"`
	Count       int            `yaml:"count,omitempty"`
	Counts      []int          `yaml:"counts,omitempty"`
	Sorting     params.Sorting `yaml:"sorting,omitempty"`
	Filter      params.Filter  `yaml:"filter,omitempty"`
	FilterDelay string         `yaml:"filterDelay,omitempty"`
	DefaultSort string         `yaml:"defaultSort,omitempty"`
	Source      string         `yaml:"source,omitempty"`
	Data        []any          `yaml:"data,omitempty"`
}

// Validate checks the preset. Every problem is reported.
func (p *Preset) Validate() error {
	var errs []error
	if p.FilterDelay != "" {
		if d, err := time.ParseDuration(p.FilterDelay); err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("invalid filterDelay %q", p.FilterDelay))
		}
	}
	if p.DefaultSort != "" {
		if _, err := params.ParseDirection(p.DefaultSort); err != nil {
			errs = append(errs, err)
		}
	}
	for _, e := range p.Sorting {
		if e.Column == "" || !e.Dir.Valid() {
			errs = append(errs, fmt.Errorf("invalid sorting entry %s:%s", e.Column, e.Dir))
		}
	}
	for _, c := range p.Counts {
		if c <= 0 {
			errs = append(errs, fmt.Errorf("invalid count %d in counts", c))
		}
	}
	if _, err := p.SourceSpec(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", errdefs.ErrInvalidArgument, errors.Join(errs...))
}

// SourceSpec returns the preset's data source. No source means inline data.
func (p *Preset) SourceSpec() (dao.Source, error) {
	if p.Source == "" {
		return dao.Source{Kind: dao.InlineSource}, nil
	}
	return dao.ParseSource(p.Source)
}

// Settings converts the preset into params settings. loader may be nil.
func (p *Preset) Settings(loader params.Loader) params.Settings {
	s := params.Settings{
		Loader: loader,
		Data:   p.Data,
	}
	if len(p.Counts) > 0 {
		s.Counts = append([]int(nil), p.Counts...)
	}
	if d, err := time.ParseDuration(p.FilterDelay); err == nil {
		s.FilterDelay = d
	}
	if dir, err := params.ParseDirection(p.DefaultSort); err == nil {
		s.DefaultSort = dir
	}

	return s
}

// Options returns the initial parameters of the preset.
func (p *Preset) Options() []params.Option {
	var opts []params.Option
	if p.Page > 0 {
		opts = append(opts, params.WithPage(p.Page))
	}
	if p.Count > 0 {
		opts = append(opts, params.WithCount(p.Count))
	}
	if len(p.Sorting) > 0 {
		opts = append(opts, params.WithSorting(p.Sorting))
	}
	if len(p.Filter) > 0 {
		opts = append(opts, params.WithFilter(p.Filter))
	}

	return opts
}
