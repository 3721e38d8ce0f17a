package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/a1s/ntable/internal/aws"
	"github.com/a1s/ntable/internal/config/data"
)

// Default values
const (
	DefaultAPITimeout = 30 * time.Second
)

// Ntable represents the ntable global configuration.
type Ntable struct {
	Binding string      `yaml:"binding"`
	UI      data.UI     `yaml:"ui"`
	Logger  data.Logger `yaml:"logger"`
	AWS     data.AWS    `yaml:"aws"`

	mx sync.RWMutex
}

// NewNtable creates an Ntable with default settings.
func NewNtable() *Ntable {
	return &Ntable{
		UI:     data.UI{MaxPageButtons: data.DefaultMaxPageButtons},
		Logger: data.Logger{Level: DefaultLogLevel},
		AWS:    data.AWS{APITimeout: DefaultAPITimeout.String()},
	}
}

// Validate fills in defaults for unset values.
func (n *Ntable) Validate() {
	n.mx.Lock()
	defer n.mx.Unlock()

	if n.UI.MaxPageButtons <= 0 {
		n.UI.MaxPageButtons = data.DefaultMaxPageButtons
	}
	if n.Logger.Level == "" {
		n.Logger.Level = DefaultLogLevel
	}
	if n.AWS.APITimeout == "" {
		n.AWS.APITimeout = DefaultAPITimeout.String()
	}
}

// Override applies CLI flag overrides to the configuration.
func (n *Ntable) Override(flags *data.Flags) {
	if flags == nil {
		return
	}

	n.mx.Lock()
	defer n.mx.Unlock()

	if IsStringSet(flags.Binding) {
		n.Binding = *flags.Binding
	}
	if IsBoolSet(flags.Headless) {
		n.UI.Headless = true
	}
	if IsStringSet(flags.LogLevel) {
		n.Logger.Level = *flags.LogLevel
	}
	if IsStringSet(flags.LogFile) {
		n.Logger.File = *flags.LogFile
	}
	if IsStringSet(flags.Profile) {
		n.AWS.Profile = *flags.Profile
	}
	if IsStringSet(flags.Region) {
		n.AWS.Region = *flags.Region
	}
}

// ActiveBinding returns the binding expression or alias in use.
func (n *Ntable) ActiveBinding() string {
	n.mx.RLock()
	defer n.mx.RUnlock()
	return n.Binding
}

// IsHeadless reports whether pages are printed instead of shown.
func (n *Ntable) IsHeadless() bool {
	n.mx.RLock()
	defer n.mx.RUnlock()
	return n.UI.Headless
}

// GetAPITimeout returns the parsed API timeout duration.
func (n *Ntable) GetAPITimeout() (time.Duration, error) {
	n.mx.RLock()
	timeoutStr := n.AWS.APITimeout
	n.mx.RUnlock()

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid API timeout %q: %w", timeoutStr, err)
	}

	return timeout, nil
}

// AWSSettings returns a copy of the AWS settings.
func (n *Ntable) AWSSettings() data.AWS {
	n.mx.RLock()
	defer n.mx.RUnlock()
	return n.AWS
}

// refineAWS resolves the profile and, when unset, takes the region from it.
func (n *Ntable) refineAWS(profiles aws.ProfileFiles) error {
	n.mx.Lock()
	defer n.mx.Unlock()

	profile := aws.ActiveProfileName(n.AWS.Profile)
	p, err := profiles.Lookup(profile)
	if err != nil {
		return fmt.Errorf("profile %q not found: %w", profile, err)
	}
	n.AWS.Profile = profile
	if n.AWS.Region == "" {
		n.AWS.Region = p.DefaultRegion
	}

	return nil
}
