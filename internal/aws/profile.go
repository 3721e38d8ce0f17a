package aws

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultRegion is used when neither the config nor the profile names a region.
const DefaultRegion = "us-east-1"

type Profile struct {
	Name          string
	DefaultRegion string
	RoleARN       string
	SourceProfile string
}

// ProfileFiles locates the shared AWS credentials and config files.
type ProfileFiles struct {
	CredentialsPath string
	ConfigPath      string
}

// DefaultProfileFiles honors AWS_SHARED_CREDENTIALS_FILE and AWS_CONFIG_FILE,
// falling back to ~/.aws.
func DefaultProfileFiles() ProfileFiles {
	f := ProfileFiles{
		CredentialsPath: filepath.Join(expandHomeDir("~"), ".aws", "credentials"),
		ConfigPath:      filepath.Join(expandHomeDir("~"), ".aws", "config"),
	}
	if p := os.Getenv("AWS_SHARED_CREDENTIALS_FILE"); p != "" {
		f.CredentialsPath = p
	}
	if p := os.Getenv("AWS_CONFIG_FILE"); p != "" {
		f.ConfigPath = p
	}

	return f
}

// ActiveProfileName returns name, or AWS_PROFILE, or "default".
func ActiveProfileName(name string) string {
	if name != "" {
		return name
	}
	if p := os.Getenv("AWS_PROFILE"); p != "" {
		return p
	}
	return "default"
}

// Profiles returns the profiles found in both files.
// Missing files are not an error.
func (f ProfileFiles) Profiles() (map[string]*Profile, error) {
	profiles := make(map[string]*Profile)
	get := func(name string) *Profile {
		p, ok := profiles[name]
		if !ok {
			p = &Profile{Name: name}
			profiles[name] = p
		}
		return p
	}

	cred, err := loadOptional(f.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials file: %w", err)
	}
	if cred != nil {
		for _, section := range cred.Sections() {
			if section.Name() == ini.DefaultSection {
				continue
			}
			readSection(section, get(section.Name()))
		}
	}

	conf, err := loadOptional(f.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if conf != nil {
		for _, section := range conf.Sections() {
			name := section.Name()
			switch {
			case name == "default" || (name == ini.DefaultSection && len(section.Keys()) > 0):
				readSection(section, get("default"))
			case strings.HasPrefix(name, "profile "):
				readSection(section, get(strings.TrimPrefix(name, "profile ")))
			}
		}
	}

	for _, p := range profiles {
		if p.DefaultRegion == "" {
			p.DefaultRegion = DefaultRegion
		}
	}

	return profiles, nil
}

// ProfileNames returns the sorted profile names.
func (f ProfileFiles) ProfileNames() ([]string, error) {
	profiles, err := f.Profiles()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)

	return names, nil
}

// Lookup returns the named profile.
func (f ProfileFiles) Lookup(name string) (*Profile, error) {
	profiles, err := f.Profiles()
	if err != nil {
		return nil, err
	}
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProfile, name)
	}

	return p, nil
}

func loadOptional(path string) (*ini.File, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return ini.Load(path)
}

func readSection(section *ini.Section, p *Profile) {
	if section.HasKey("region") {
		p.DefaultRegion = section.Key("region").String()
	}
	if p.RoleARN == "" && section.HasKey("role_arn") {
		p.RoleARN = section.Key("role_arn").String()
	}
	if p.SourceProfile == "" && section.HasKey("source_profile") {
		p.SourceProfile = section.Key("source_profile").String()
	}
}

// expandHomeDir expands ~ to the user's home directory.
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	}
	return path
}
