package config

import (
	"os"
	"path/filepath"

	"github.com/a1s/ntable/internal/config/data"
)

const AppName = "ntable"

var (
	// AppConfigDir is ~/.config/ntable
	AppConfigDir string

	// AppStateDir is ~/.local/state/ntable
	AppStateDir string

	// AppConfigFile is ~/.config/ntable/ntable.yaml
	AppConfigFile string

	// AppHotkeysFile is ~/.config/ntable/hotkeys.yaml
	AppHotkeysFile string

	// AppAliasesFile is ~/.config/ntable/aliases.yaml
	AppAliasesFile string

	// AppLogFile is ~/.local/state/ntable/ntable.log
	AppLogFile string
)

// InitLocs initializes all application directory paths.
// It respects XDG environment variables if set.
func InitLocs() error {
	home := userHomeDir()

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	AppConfigDir = filepath.Join(configHome, AppName)
	AppStateDir = filepath.Join(stateHome, AppName)

	AppConfigFile = filepath.Join(AppConfigDir, "ntable.yaml")
	AppHotkeysFile = filepath.Join(AppConfigDir, "hotkeys.yaml")
	AppAliasesFile = filepath.Join(AppConfigDir, "aliases.yaml")
	AppLogFile = filepath.Join(AppStateDir, "ntable.log")

	for _, dir := range []string{AppConfigDir, AppStateDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}

// InitLogLoc ensures the log directory exists
func InitLogLoc(path string) error {
	return data.EnsureFullPath(path, 0o700)
}

// userHomeDir returns the user's home directory
func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return home
}
