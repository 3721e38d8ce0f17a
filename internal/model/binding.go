package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/containerd/errdefs"
)

var withRX = regexp.MustCompile(`\s+with\s+`)

// Binding names the params and column sets a dynamic table is built from.
type Binding struct {
	Params  string
	Columns string
}

func (b Binding) String() string {
	return b.Params + " with " + b.Columns
}

// ParseBinding parses a "<params> with <columns>" expression.
func ParseBinding(expr string) (Binding, error) {
	parts := withRX.Split(strings.TrimSpace(expr), -1)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Binding{}, fmt.Errorf("parse binding %q (expected example: 'tableParams with cols'): %w",
			expr, errdefs.ErrInvalidArgument)
	}

	return Binding{Params: parts[0], Columns: parts[1]}, nil
}
