package dao

import (
	"fmt"

	"github.com/containerd/errdefs"

	"github.com/a1s/ntable/internal/params"
)

// LoaderCtor builds the loader for a source target.
type LoaderCtor func(f Factory, target string) (params.Loader, error)

// ctors holds the registered loader constructors.
var ctors = map[SourceKind]LoaderCtor{
	InlineSource: func(Factory, string) (params.Loader, error) { return SliceLoader, nil },
	FileSource:   func(Factory, string) (params.Loader, error) { return SliceLoader, nil },
	S3Source:     newS3Loader,
}

// RegisterLoader adds or replaces the constructor for kind.
func RegisterLoader(kind SourceKind, ctor LoaderCtor) {
	ctors[kind] = ctor
}

// LoaderFor returns the loader serving src.
// File and inline sources push their rows as settings data, so both page
// that data in memory.
func LoaderFor(f Factory, src Source) (params.Loader, error) {
	ctor, ok := ctors[src.Kind]
	if !ok {
		return nil, fmt.Errorf("no loader for: %s: %w", src, errdefs.ErrInvalidArgument)
	}

	return ctor(f, src.Target)
}
