package config

import (
	"os"
	"sync"

	"github.com/a1s/ntable/internal/config/data"
)

// Aliases maps short names to binding expressions.
type Aliases struct {
	Alias map[string]string `yaml:"aliases"`
	mx    sync.RWMutex      `yaml:"-"`
}

// NewAliases creates an empty Aliases.
func NewAliases() *Aliases {
	return &Aliases{
		Alias: make(map[string]string),
	}
}

// Load loads aliases from the default aliases file.
func (a *Aliases) Load() error {
	return a.LoadFrom(AppAliasesFile)
}

// LoadFrom loads aliases from a specific file path.
// Loaded aliases override existing ones. A missing file is not an error.
func (a *Aliases) LoadFrom(path string) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	loaded := NewAliases()
	if err := data.LoadYAML(path, loaded); err != nil {
		return err
	}
	for k, v := range loaded.Alias {
		a.Alias[k] = v
	}

	return nil
}

// Get returns the binding for an alias, or the original if not found.
func (a *Aliases) Get(alias string) string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	if expr, ok := a.Alias[alias]; ok {
		return expr
	}
	return alias
}
