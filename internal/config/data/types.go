// Package data provides configuration data types shared by the config package and the CLI.
package data

// Flags represents CLI command-line flags.
type Flags struct {
	LogLevel *string // Log level (e.g., debug, info, warn, error)
	LogFile  *string // Path to log file
	Headless *bool   // Print pages instead of running the TUI
	Format   *string // Headless output format (table, csv, markdown)
	Binding  *string // Binding expression or alias
	Page     *int    // Initial page
	Count    *int    // Initial page size
	Profile  *string // AWS profile to use
	Region   *string // AWS region to use
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse    bool `yaml:"enableMouse"`
	Headless       bool `yaml:"headless"`
	MaxPageButtons int  `yaml:"maxPageButtons"`
}

// Logger represents logging configuration settings.
type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// AWS represents the settings of the S3 source.
type AWS struct {
	Profile    string `yaml:"profile"`
	Region     string `yaml:"region"`
	APITimeout string `yaml:"apiTimeout"`
}

// DefaultMaxPageButtons is the pager width when none is configured.
const DefaultMaxPageButtons = 5

// NewFlags creates a new Flags instance with all pointer fields initialized.
// All pointers are allocated but their values are not set.
func NewFlags() *Flags {
	return &Flags{
		LogLevel: new(string),
		LogFile:  new(string),
		Headless: new(bool),
		Format:   new(string),
		Binding:  new(string),
		Page:     new(int),
		Count:    new(int),
		Profile:  new(string),
		Region:   new(string),
	}
}
