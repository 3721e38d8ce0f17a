package config

import (
	"github.com/a1s/ntable/internal/config/data"
)

// DefaultLogLevel is the default logging level.
const DefaultLogLevel = "info"

// NewFlags creates a new Flags instance with default values set.
func NewFlags() *data.Flags {
	f := data.NewFlags()
	*f.LogLevel = DefaultLogLevel
	*f.LogFile = AppLogFile
	*f.Format = "table"

	return f
}

// IsBoolSet returns true if a bool pointer is non-nil and true.
func IsBoolSet(b *bool) bool {
	return b != nil && *b
}

// IsStringSet returns true if a string pointer is non-nil and non-empty.
func IsStringSet(s *string) bool {
	return s != nil && *s != ""
}

// IsIntSet returns true if an int pointer is non-nil and positive.
func IsIntSet(i *int) bool {
	return i != nil && *i > 0
}
