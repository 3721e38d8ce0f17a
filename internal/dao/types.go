package dao

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/containerd/errdefs"

	"github.com/a1s/ntable/internal/aws"
	"github.com/a1s/ntable/internal/params"
)

// SourceKind identifies where a dataset comes from.
type SourceKind string

const (
	InlineSource SourceKind = "inline"
	FileSource   SourceKind = "file"
	S3Source     SourceKind = "s3"
)

// Source names a dataset, e.g. "file:users.yaml" or "s3:bucket/prefix/".
type Source struct {
	Kind   SourceKind
	Target string
}

// String returns a string representation in the form "kind:target".
func (s Source) String() string {
	if s.Target == "" {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s:%s", s.Kind, s.Target)
}

// ParseSource parses a "kind:target" source. A bare "inline" has no target.
func ParseSource(s string) (Source, error) {
	kind, target, _ := strings.Cut(strings.TrimSpace(s), ":")
	src := Source{Kind: SourceKind(kind), Target: target}
	switch src.Kind {
	case InlineSource:
		return src, nil
	case FileSource, S3Source:
		if target == "" {
			return Source{}, fmt.Errorf("source %q has no target: %w", s, errdefs.ErrInvalidArgument)
		}
		return src, nil
	default:
		return Source{}, fmt.Errorf("unknown source kind %q (expected inline, file or s3): %w", kind, errdefs.ErrInvalidArgument)
	}
}

// Factory provides what loaders need to reach their backends.
type Factory interface {
	Client() aws.Connection
	Cache() *ListCache
	Logger() *slog.Logger
}

// Lister retrieves every row of a dataset.
type Lister interface {
	List(ctx context.Context) ([]any, error)
}

// Applier mutates the bound params inside an update cycle.
type Applier interface {
	Apply(fn func(*params.Params))
}
